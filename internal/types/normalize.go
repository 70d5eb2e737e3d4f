package types

// LegacyExpenseItem labels the synthesized record for a legacy day total.
const LegacyExpenseItem = "Uncategorized"

// legacyExpenseID is stable so repeated normalization cannot duplicate the
// synthesized record.
const legacyExpenseID = "legacy"

// NormalizeLog returns l as a complete DailyLog shape: nil slices become
// empty, and a legacy numeric moneySpent total is coerced into a single
// Uncategorized expense. Every read path must pass logs through here before
// anything inspects or mutates them, so legacy and current data behave
// identically.
func NormalizeLog(l DailyLog) DailyLog {
	if l.CompletedHabits == nil {
		l.CompletedHabits = []string{}
	}
	if l.Expenses == nil {
		l.Expenses = []Expense{}
	}
	if l.MoneySpent > 0 {
		l.Expenses = append([]Expense{{
			ID:       legacyExpenseID,
			Item:     LegacyExpenseItem,
			Amount:   l.MoneySpent,
			Category: CategoryGeneral,
		}}, l.Expenses...)
		l.MoneySpent = 0
	}
	return l
}

// NormalizeLogs normalizes every entry of a pulled log map in place and
// returns it, allocating the map when nil.
func NormalizeLogs(logs map[string]DailyLog) map[string]DailyLog {
	if logs == nil {
		return map[string]DailyLog{}
	}
	for date, l := range logs {
		logs[date] = NormalizeLog(l)
	}
	return logs
}

// CloneLog deep-copies l so cached state cannot be mutated through an
// aliased slice.
func CloneLog(l DailyLog) DailyLog {
	out := l
	out.CompletedHabits = append([]string(nil), l.CompletedHabits...)
	out.Expenses = append([]Expense(nil), l.Expenses...)
	return out
}
