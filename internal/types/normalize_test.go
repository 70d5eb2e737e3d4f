package types

import "testing"

func TestNormalizeLog_FillsDefaults(t *testing.T) {
	l := NormalizeLog(DailyLog{})
	if l.CompletedHabits == nil || len(l.CompletedHabits) != 0 {
		t.Fatalf("completedHabits not zero-filled: %#v", l.CompletedHabits)
	}
	if l.Expenses == nil || len(l.Expenses) != 0 {
		t.Fatalf("expenses not zero-filled: %#v", l.Expenses)
	}
	if l.Sleep != 0 || l.ScreenTime != 0 || l.Journal != "" {
		t.Fatalf("unexpected non-zero fields: %+v", l)
	}
}

func TestNormalizeLog_LegacyMoneySpent(t *testing.T) {
	l := NormalizeLog(DailyLog{MoneySpent: 50})
	if len(l.Expenses) != 1 {
		t.Fatalf("expected one synthesized expense, got %d", len(l.Expenses))
	}
	e := l.Expenses[0]
	if e.Item != LegacyExpenseItem || e.Amount != 50 || e.Category != CategoryGeneral {
		t.Fatalf("unexpected synthesized expense: %+v", e)
	}
	if l.MoneySpent != 0 {
		t.Fatalf("moneySpent must be cleared after coercion, got %v", l.MoneySpent)
	}
}

func TestNormalizeLog_Idempotent(t *testing.T) {
	once := NormalizeLog(DailyLog{MoneySpent: 12.5, Journal: "j"})
	twice := NormalizeLog(CloneLog(once))
	if len(twice.Expenses) != 1 {
		t.Fatalf("double normalization duplicated the legacy record: %+v", twice.Expenses)
	}
}

func TestNormalizeLog_LegacyPrecedesExisting(t *testing.T) {
	l := NormalizeLog(DailyLog{
		MoneySpent: 30,
		Expenses:   []Expense{{ID: "exp-1", Item: "coffee", Amount: 4, Category: CategoryFood}},
	})
	if len(l.Expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(l.Expenses))
	}
	if l.Expenses[0].Item != LegacyExpenseItem || l.Expenses[1].Item != "coffee" {
		t.Fatalf("legacy record must come first: %+v", l.Expenses)
	}
}

func TestNormalizeLogs_NilMap(t *testing.T) {
	logs := NormalizeLogs(nil)
	if logs == nil {
		t.Fatal("expected allocated map")
	}
}

func TestCloneLog_NoAliasing(t *testing.T) {
	orig := NormalizeLog(DailyLog{CompletedHabits: []string{"habit-1"}})
	cp := CloneLog(orig)
	cp.CompletedHabits[0] = "habit-2"
	if orig.CompletedHabits[0] != "habit-1" {
		t.Fatal("clone aliases the original slice")
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("Food"); got != CategoryFood {
		t.Fatalf("valid category rewritten to %q", got)
	}
	if got := NormalizeCategory("Crypto"); got != CategoryGeneral {
		t.Fatalf("unknown category should fall back to General, got %q", got)
	}
	if got := NormalizeCategory(""); got != CategoryGeneral {
		t.Fatalf("empty category should fall back to General, got %q", got)
	}
}
