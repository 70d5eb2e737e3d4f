package types

import (
	"fmt"
	"time"
)

// ------------------------------
// Core Domain Entities
// ------------------------------

// Habit is a user-defined recurring activity tracked per day.
// Immutable once created except for deletion.
type Habit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
}

// DailyLog aggregates everything recorded for one calendar date.
// Absence of a log for a date means "no data", not zero.
type DailyLog struct {
	CompletedHabits []string  `json:"completedHabits"`
	Sleep           float64   `json:"sleep"`
	ScreenTime      float64   `json:"screenTime"`
	Journal         string    `json:"journal"`
	Expenses        []Expense `json:"expenses"`

	// MoneySpent is the legacy single-total representation of a day's
	// spending. NormalizeLog coerces it into one Uncategorized expense;
	// it must never survive past a read boundary.
	MoneySpent float64 `json:"moneySpent,omitempty"`
}

// Expense is a single spend record nested in a DailyLog.
type Expense struct {
	ID        string    `json:"id"`
	Item      string    `json:"item"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Settings is a flat key-value mapping. Recognized keys are listed below;
// unknown keys round-trip verbatim so newer peers can add their own.
type Settings map[string]string

// Recognized settings keys.
const (
	SettingUsername = "username"
	SettingTheme    = "theme"
	SettingMode     = "mode"

	// SettingUseRemote survives from an older sync-mode toggle. It is kept
	// for backward compatibility and is always effectively "true".
	SettingUseRemote = "useRemote"
)

// DefaultSettings returns the baseline settings every pull is merged over.
func DefaultSettings() Settings {
	return Settings{
		SettingUsername:  "User",
		SettingTheme:     "indigo",
		SettingMode:      "dark",
		SettingUseRemote: "true",
	}
}

// Merged returns defaults overlaid with s. s itself is not modified.
func (s Settings) Merged() Settings {
	out := DefaultSettings()
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy safe to hand out.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Expense categories form a closed set; CategoryGeneral doubles as the
// legacy-migration fallback.
const (
	CategoryGeneral       = "General"
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryBills         = "Bills"
	CategoryEntertainment = "Entertainment"
	CategoryHealth        = "Health"
	CategoryOther         = "Other"
)

// Categories lists every valid expense category in display order.
func Categories() []string {
	return []string{
		CategoryGeneral, CategoryFood, CategoryTransport, CategoryShopping,
		CategoryBills, CategoryEntertainment, CategoryHealth, CategoryOther,
	}
}

// NormalizeCategory maps anything outside the closed set to CategoryGeneral.
func NormalizeCategory(c string) string {
	for _, known := range Categories() {
		if c == known {
			return c
		}
	}
	return CategoryGeneral
}

// DateFormat is the calendar-date key format used everywhere a log is keyed.
const DateFormat = "2006-01-02"

// FormatDate renders t as a log map key in the local timezone.
func FormatDate(t time.Time) string { return t.Format(DateFormat) }

// NewHabitID generates a client-side habit identifier. The time-based suffix
// keeps ids unique across devices without coordination.
func NewHabitID(t time.Time) string {
	return fmt.Sprintf("habit-%d", t.UnixMilli())
}

// NewExpenseID generates an expense identifier.
func NewExpenseID(t time.Time) string {
	return fmt.Sprintf("exp-%d", t.UnixMilli())
}

// SyncState is the canonical triple returned by a pull.
type SyncState struct {
	Habits   []Habit             `json:"habits"`
	Logs     map[string]DailyLog `json:"logs"`
	Settings Settings            `json:"settings"`
}
