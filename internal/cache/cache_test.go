package cache

import (
	"path/filepath"
	"testing"
)

// tiers under test share one contract; exercise them uniformly.
func tierFixtures(t *testing.T) map[string]Tier {
	t.Helper()
	dir := t.TempDir()
	file, err := NewFile(filepath.Join(dir, "store.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	sqlite, err := NewSQLite(filepath.Join(dir, "store.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Tier{"memory": NewMemory(), "file": file, "sqlite": sqlite}
}

func TestTier_GetSetDelete(t *testing.T) {
	for name, tier := range tierFixtures(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := tier.Get(KeyHabits); err != nil || ok {
				t.Fatalf("expected miss on empty tier, ok=%v err=%v", ok, err)
			}
			if err := tier.Set(KeyHabits, []byte(`[{"id":"habit-1"}]`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			v, ok, err := tier.Get(KeyHabits)
			if err != nil || !ok {
				t.Fatalf("get after set: ok=%v err=%v", ok, err)
			}
			if string(v) != `[{"id":"habit-1"}]` {
				t.Fatalf("unexpected value: %s", v)
			}
			if err := tier.Set(KeyHabits, []byte(`[]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			v, _, _ = tier.Get(KeyHabits)
			if string(v) != `[]` {
				t.Fatalf("overwrite not visible: %s", v)
			}
			if err := tier.Delete(KeyHabits); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok, _ := tier.Get(KeyHabits); ok {
				t.Fatal("value survived delete")
			}
			if err := tier.Delete("never-set"); err != nil {
				t.Fatalf("deleting absent key should be a no-op, got %v", err)
			}
		})
	}
}

func TestFile_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	first, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := first.Set(KeySettings, []byte(`{"theme":"indigo"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	second, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok, err := second.Get(KeySettings)
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if string(v) != `{"theme":"indigo"}` {
		t.Fatalf("unexpected value after reopen: %s", v)
	}
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	first, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	if err := first.Set(KeyPendingChanges, []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = second.Close() }()
	if _, ok, err := second.Get(KeyPendingChanges); err != nil || !ok {
		t.Fatalf("value lost across reopen: ok=%v err=%v", ok, err)
	}
}
