// Package queue implements the durable write-ahead log of mutations awaiting
// transmission to the remote backend. Order is replay order: later entries
// are full-state overwrites of the same entities, so draining out of order
// would lose writes.
package queue

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/daygrid/daygrid-go/internal/cache"
	"github.com/daygrid/daygrid-go/internal/types"
)

// Queue is an ordered, durable staging area for pending changes. Every
// Enqueue persists the whole queue write-through; entries are removed only
// via Clear, after the caller has confirmed the entire batch upstream.
type Queue struct {
	tier cache.Tier

	mu      sync.Mutex
	changes []types.PendingChange
}

// New loads any persisted queue from the durable tier.
func New(tier cache.Tier) (*Queue, error) {
	q := &Queue{tier: tier}
	data, ok, err := tier.Get(cache.KeyPendingChanges)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending changes: %w", err)
	}
	if ok {
		if err := json.Unmarshal(data, &q.changes); err != nil {
			return nil, fmt.Errorf("failed to parse pending changes: %w", err)
		}
	}
	return q, nil
}

// Enqueue appends ch and persists immediately. No deduplication or
// compaction: three edits to the same date yield three entries, each a full
// snapshot, which is what makes replay idempotent.
func (q *Queue) Enqueue(ch types.PendingChange) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.changes = append(q.changes, ch)
	if err := q.persist(); err != nil {
		q.changes = q.changes[:len(q.changes)-1]
		return err
	}
	return nil
}

// Pending returns the queued changes in enqueue order without clearing them.
// Clearing is the caller's job, only after confirmed success.
func (q *Queue) Pending() []types.PendingChange {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]types.PendingChange, len(q.changes))
	copy(out, q.changes)
	return out
}

// Clear empties the queue and persists the empty state.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	old := q.changes
	q.changes = nil
	if err := q.persist(); err != nil {
		q.changes = old
		return err
	}
	return nil
}

// Len reports the number of queued changes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.changes)
}

// persist writes the full queue to the durable tier. Caller holds mu.
func (q *Queue) persist() error {
	changes := q.changes
	if changes == nil {
		changes = []types.PendingChange{}
	}
	data, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("failed to serialize pending changes: %w", err)
	}
	if err := q.tier.Set(cache.KeyPendingChanges, data); err != nil {
		return fmt.Errorf("failed to persist pending changes: %w", err)
	}
	return nil
}
