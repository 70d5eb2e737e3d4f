// Package cache provides the two local key-value tiers backing the client:
// a session tier that starts empty with every process (habits and logs live
// there, so a fresh session begins from server truth after the first sync)
// and a durable tier that survives restarts (settings and the pending-change
// queue). Values are serialized JSON documents; the tiers know nothing about
// their shape.
package cache

// Keys under which the client persists its local state.
const (
	KeyHabits         = "habits"
	KeyLogs           = "logs"
	KeySettings       = "settings"
	KeyPendingChanges = "pendingChanges"
)

// Tier is one key-value scope. Implementations must be safe for concurrent
// use.
type Tier interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) ([]byte, bool, error)
	// Set stores value under key, overwriting any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
