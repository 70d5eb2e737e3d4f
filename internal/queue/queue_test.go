package queue

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/daygrid/daygrid-go/internal/cache"
	"github.com/daygrid/daygrid-go/internal/types"
)

func newFileTier(t *testing.T) (cache.Tier, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "durable.json")
	tier, err := cache.NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	return tier, path
}

func TestQueue_OrderPreserved(t *testing.T) {
	tier, _ := newFileTier(t)
	q, err := New(tier)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	now := time.Now()
	for _, date := range []string{"2026-08-01", "2026-08-02", "2026-08-03"} {
		log := types.NormalizeLog(types.DailyLog{Journal: date})
		if err := q.Enqueue(types.NewUpdateLogChange(date, log, now)); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	pending := q.Pending()
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending, got %d", len(pending))
	}
	for i, date := range []string{"2026-08-01", "2026-08-02", "2026-08-03"} {
		if pending[i].Date != date {
			t.Fatalf("replay order != enqueue order: %v", pending)
		}
	}

	// Pending must not drain.
	if q.Len() != 3 {
		t.Fatalf("Pending cleared the queue, len=%d", q.Len())
	}
}

func TestQueue_NoCompaction(t *testing.T) {
	tier, _ := newFileTier(t)
	q, err := New(tier)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Three edits to the same date stay three entries.
	for i := 0; i < 3; i++ {
		log := types.NormalizeLog(types.DailyLog{Sleep: float64(i)})
		if err := q.Enqueue(types.NewUpdateLogChange("2026-08-10", log, time.Now())); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	if q.Len() != 3 {
		t.Fatalf("expected 3 entries for 3 edits, got %d", q.Len())
	}
	last := q.Pending()[2]
	if last.Log == nil || last.Log.Sleep != 2 {
		t.Fatalf("last entry should carry the final snapshot, got %+v", last.Log)
	}
}

func TestQueue_WriteThroughSurvivesReload(t *testing.T) {
	tier, path := newFileTier(t)
	q, err := New(tier)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	habit := types.Habit{ID: "habit-1", Name: "Read", Color: "indigo", Icon: "*", CreatedAt: time.Now().UTC()}
	if err := q.Enqueue(types.NewAddHabitChange(habit, time.Now())); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	// Simulate process restart: fresh tier over the same file, fresh queue.
	reopened, err := cache.NewFile(path)
	if err != nil {
		t.Fatalf("reopen tier: %v", err)
	}
	q2, err := New(reopened)
	if err != nil {
		t.Fatalf("reload queue: %v", err)
	}
	pending := q2.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending after reload, got %d", len(pending))
	}
	if pending[0].Kind != types.ChangeAddHabit || pending[0].Habit == nil || pending[0].Habit.ID != "habit-1" {
		t.Fatalf("reloaded change mangled: %+v", pending[0])
	}
}

func TestQueue_Clear(t *testing.T) {
	tier, path := newFileTier(t)
	q, err := New(tier)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := q.Enqueue(types.NewDeleteHabitChange("habit-9", time.Now())); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := q.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if q.Len() != 0 {
		t.Fatalf("queue not empty after clear: %d", q.Len())
	}

	// Cleared state is persisted too.
	reopened, err := cache.NewFile(path)
	if err != nil {
		t.Fatalf("reopen tier: %v", err)
	}
	q2, err := New(reopened)
	if err != nil {
		t.Fatalf("reload queue: %v", err)
	}
	if q2.Len() != 0 {
		t.Fatalf("cleared queue came back with %d entries", q2.Len())
	}
}

type failingTier struct {
	cache.Tier
	fail bool
}

func (f *failingTier) Set(key string, value []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Tier.Set(key, value)
}

func TestQueue_EnqueueRollsBackOnPersistFailure(t *testing.T) {
	tier, _ := newFileTier(t)
	ft := &failingTier{Tier: tier}
	q, err := New(ft)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ft.fail = true
	if err := q.Enqueue(types.NewDeleteHabitChange("habit-1", time.Now())); err == nil {
		t.Fatal("expected persist failure")
	}
	if q.Len() != 0 {
		t.Fatalf("failed enqueue left %d entries in memory", q.Len())
	}
}
