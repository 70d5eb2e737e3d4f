package types

// Wire shapes for the action-tagged remote endpoint. Pull actions go out as
// query parameters; push actions are POSTed as one of the request bodies
// below. Every response uses Envelope.

// Actions understood by the remote endpoint.
const (
	ActionGetHabits     = "getHabits"
	ActionGetLogs       = "getLogs"
	ActionGetSettings   = "getSettings"
	ActionAddHabit      = "addHabit"
	ActionDeleteHabit   = "deleteHabit"
	ActionUpdateLog     = "updateLog"
	ActionUpdateSetting = "updateSetting"
	ActionSync          = "sync"
)

// AddHabitRequest pushes a new habit. ID is optional; the server generates
// one when absent.
type AddHabitRequest struct {
	Action string `json:"action"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Icon   string `json:"icon"`
	ID     string `json:"id,omitempty"`
}

// DeleteHabitRequest pushes a habit deletion. Deleting an absent id is a
// success no-op server-side.
type DeleteHabitRequest struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}

// UpdateLogRequest pushes a full overwrite of one date's log.
type UpdateLogRequest struct {
	Action string   `json:"action"`
	Date   string   `json:"date"`
	Data   DailyLog `json:"data"`
}

// UpdateSettingRequest upserts a single settings key.
type UpdateSettingRequest struct {
	Action string `json:"action"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// SyncRequest pushes a whole pending-change batch and asks for fresh state
// back in the same round trip.
type SyncRequest struct {
	Action  string          `json:"action"`
	Changes []PendingChange `json:"changes"`
	Days    int             `json:"days"`
}

// Envelope is the uniform response body: Success false carries Error, true
// carries whichever payload fields the action produces.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`

	Habit    *Habit              `json:"habit,omitempty"`
	Habits   []Habit             `json:"habits,omitempty"`
	Logs     map[string]DailyLog `json:"logs,omitempty"`
	Settings Settings            `json:"settings,omitempty"`
}
