package types

import (
	"time"

	"github.com/google/uuid"
)

// ChangeKind tags a PendingChange with the remote action it replays as.
type ChangeKind string

const (
	ChangeAddHabit       ChangeKind = "addHabit"
	ChangeDeleteHabit    ChangeKind = "deleteHabit"
	ChangeUpdateLog      ChangeKind = "updateLog"
	ChangeUpdateSettings ChangeKind = "updateSettings"
)

// PendingChange is one locally queued, not-yet-confirmed mutation. Each entry
// carries the complete resulting state for its entity, never a delta, so
// replaying an already-applied change is a no-op in effect. Exactly one of
// the payload fields below is set, according to Kind.
type PendingChange struct {
	ID        string     `json:"id"`
	Kind      ChangeKind `json:"kind"`
	CreatedAt time.Time  `json:"createdAt"`

	Habit    *Habit    `json:"habit,omitempty"`    // ChangeAddHabit
	HabitID  string    `json:"habitId,omitempty"`  // ChangeDeleteHabit
	Date     string    `json:"date,omitempty"`     // ChangeUpdateLog
	Log      *DailyLog `json:"log,omitempty"`      // ChangeUpdateLog
	Settings Settings  `json:"settings,omitempty"` // ChangeUpdateSettings
}

// NewAddHabitChange queues creation of h.
func NewAddHabitChange(h Habit, at time.Time) PendingChange {
	return PendingChange{ID: uuid.NewString(), Kind: ChangeAddHabit, CreatedAt: at, Habit: &h}
}

// NewDeleteHabitChange queues deletion of the habit with the given id.
func NewDeleteHabitChange(habitID string, at time.Time) PendingChange {
	return PendingChange{ID: uuid.NewString(), Kind: ChangeDeleteHabit, CreatedAt: at, HabitID: habitID}
}

// NewUpdateLogChange queues a full-state overwrite of one date's log.
func NewUpdateLogChange(date string, log DailyLog, at time.Time) PendingChange {
	return PendingChange{ID: uuid.NewString(), Kind: ChangeUpdateLog, CreatedAt: at, Date: date, Log: &log}
}

// NewUpdateSettingsChange queues a full-state overwrite of settings.
func NewUpdateSettingsChange(s Settings, at time.Time) PendingChange {
	return PendingChange{ID: uuid.NewString(), Kind: ChangeUpdateSettings, CreatedAt: at, Settings: s.Clone()}
}
