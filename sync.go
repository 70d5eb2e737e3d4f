package daygrid

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/daygrid/daygrid-go/internal/cache"
	"github.com/daygrid/daygrid-go/internal/errs"
	"github.com/daygrid/daygrid-go/internal/types"
)

// SyncResult is the canonical state pulled by a successful sync.
type SyncResult struct {
	Habits   []types.Habit
	Logs     map[string]types.DailyLog
	Settings types.Settings

	// Replayed counts the pending changes the remote confirmed.
	Replayed int
}

// Sync reconciles local and remote state: replay the pending queue in
// enqueue order, clear it once the whole batch is confirmed, pull fresh
// canonical state bypassing every read cache, and overwrite the local cache
// tiers with it.
//
// Any failure aborts the whole operation with a SyncError: the queue keeps
// all its entries and the local cache keeps its pre-sync state. Replaying
// the same entries again on the next attempt is safe because each one is a
// full-state snapshot, so re-applying it is a no-op in effect. A second Sync
// while one is outstanding returns ErrSyncInProgress.
func (s *Store) Sync(ctx context.Context) (*SyncResult, error) {
	if !atomic.CompareAndSwapUint32(&s.syncing, 0, 1) {
		return nil, ErrSyncInProgress
	}
	defer atomic.StoreUint32(&s.syncing, 0)

	pending := s.queue.Pending()
	s.log.Info().Int("pending", len(pending)).Bool("batch", s.batchSync).Msg("sync started")

	var result *SyncResult
	var err error
	if s.batchSync {
		result, err = s.syncBatch(ctx, pending)
	} else {
		result, err = s.syncSequential(ctx, pending)
	}
	if err != nil {
		syncsTotal.WithLabelValues("failure").Inc()
		s.log.Warn().Err(err).Msg("sync failed")
		return nil, err
	}
	syncsTotal.WithLabelValues("success").Inc()
	pendingDepth.Set(float64(s.queue.Len()))
	s.log.Info().Int("replayed", result.Replayed).Int("habits", len(result.Habits)).Int("logs", len(result.Logs)).Msg("sync complete")
	return result, nil
}

// syncSequential is the default path: one request per queued change, then a
// separate force-fresh pull.
func (s *Store) syncSequential(ctx context.Context, pending []types.PendingChange) (*SyncResult, error) {
	for i, ch := range pending {
		if err := s.applyWithRetry(ctx, ch); err != nil {
			return nil, &SyncError{
				Phase: PhaseReplay,
				Err:   fmt.Errorf("change %d of %d (%s): %w", i+1, len(pending), ch.Kind, err),
			}
		}
		changesReplayedTotal.Inc()
	}
	if len(pending) > 0 {
		if err := s.queue.Clear(); err != nil {
			return nil, &SyncError{Phase: PhaseClear, Err: err}
		}
	}

	// Pull everything before touching the cache, so a failure cannot leave
	// a partially applied pull behind.
	habits, err := s.remote.FetchHabits(ctx, true)
	if err != nil {
		return nil, &SyncError{Phase: PhasePull, Err: err}
	}
	logs, err := s.remote.FetchLogs(ctx, s.windowDays, true)
	if err != nil {
		return nil, &SyncError{Phase: PhasePull, Err: err}
	}
	settings, err := s.remote.FetchSettings(ctx, true)
	if err != nil {
		return nil, &SyncError{Phase: PhasePull, Err: err}
	}

	state := &types.SyncState{Habits: habits, Logs: logs, Settings: settings}
	if err := s.applyState(state); err != nil {
		return nil, &SyncError{Phase: PhasePull, Err: err}
	}
	return &SyncResult{Habits: habits, Logs: logs, Settings: settings, Replayed: len(pending)}, nil
}

// syncBatch collapses replay and pull into the combined sync action: the
// backend replays the batch and answers with post-replay canonical state.
func (s *Store) syncBatch(ctx context.Context, pending []types.PendingChange) (*SyncResult, error) {
	state, err := s.remote.BatchSync(ctx, pending, s.windowDays)
	if err != nil {
		return nil, &SyncError{Phase: PhaseBatch, Err: err}
	}
	if len(pending) > 0 {
		if err := s.queue.Clear(); err != nil {
			return nil, &SyncError{Phase: PhaseClear, Err: err}
		}
	}
	changesReplayedTotal.Add(float64(len(pending)))
	if err := s.applyState(state); err != nil {
		return nil, &SyncError{Phase: PhaseBatch, Err: err}
	}
	return &SyncResult{Habits: state.Habits, Logs: state.Logs, Settings: state.Settings, Replayed: len(pending)}, nil
}

// applyWithRetry replays one change, optionally retrying recoverable
// failures when WithReplayRetry raised the attempt budget above one.
func (s *Store) applyWithRetry(ctx context.Context, ch types.PendingChange) error {
	if s.replayAttempts <= 1 {
		return s.remote.Apply(ctx, ch)
	}
	op := func() error {
		err := s.remote.Apply(ctx, ch)
		if err != nil && !errs.Recoverable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	exp := backoff.NewExponentialBackOff()
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(s.replayAttempts-1)), ctx)
	return backoff.Retry(op, policy)
}

// applyState overwrites the local cache tiers with pulled server truth:
// habits and logs in the session tier, settings in the durable tier.
func (s *Store) applyState(state *types.SyncState) error {
	if err := s.saveHabits(state.Habits); err != nil {
		return err
	}
	if err := s.saveLogs(state.Logs); err != nil {
		return err
	}
	data, err := json.Marshal(state.Settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	if err := s.durable.Set(cache.KeySettings, data); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

// MigrateResult counts what Migrate uploaded.
type MigrateResult struct {
	Habits int
	Logs   int
}

// Migrate bulk-uploads the current locally cached habits, logs, and settings
// to the remote. Intended for one-time moves of data created before a remote
// backend existed; normal writes go through the pending queue instead.
func (s *Store) Migrate(ctx context.Context) (*MigrateResult, error) {
	habits, err := s.loadHabits()
	if err != nil {
		return nil, err
	}
	logs, err := s.loadLogs()
	if err != nil {
		return nil, err
	}
	settings, err := s.loadSettings()
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, h := range habits {
		if err := s.remote.Apply(ctx, types.NewAddHabitChange(h, now)); err != nil {
			return nil, err
		}
	}
	for date, l := range logs {
		if err := s.remote.Apply(ctx, types.NewUpdateLogChange(date, l, now)); err != nil {
			return nil, err
		}
	}
	if err := s.remote.Apply(ctx, types.NewUpdateSettingsChange(settings, now)); err != nil {
		return nil, err
	}
	return &MigrateResult{Habits: len(habits), Logs: len(logs)}, nil
}
