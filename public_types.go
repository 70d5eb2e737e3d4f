package daygrid

import "github.com/daygrid/daygrid-go/internal/types"

// Public type aliases so consumers can import only the daygrid package.
type (
	Habit         = types.Habit
	DailyLog      = types.DailyLog
	Expense       = types.Expense
	Settings      = types.Settings
	PendingChange = types.PendingChange
	ChangeKind    = types.ChangeKind
)

// Change kinds, mirroring the remote actions they replay as.
const (
	ChangeAddHabit       = types.ChangeAddHabit
	ChangeDeleteHabit    = types.ChangeDeleteHabit
	ChangeUpdateLog      = types.ChangeUpdateLog
	ChangeUpdateSettings = types.ChangeUpdateSettings
)

// Recognized settings keys.
const (
	SettingUsername  = types.SettingUsername
	SettingTheme     = types.SettingTheme
	SettingMode      = types.SettingMode
	SettingUseRemote = types.SettingUseRemote
)

// Categories lists every valid expense category in display order.
func Categories() []string { return types.Categories() }

// DefaultSettings returns the baseline settings every pull is merged over.
func DefaultSettings() Settings { return types.DefaultSettings() }

// FormatDate renders t as a log map key (YYYY-MM-DD, local timezone).
var FormatDate = types.FormatDate
