package remote

import (
	"sync"
	"time"

	"github.com/daygrid/daygrid-go/internal/types"
)

// readCache is a short time-boxed cache per entity class. It only smooths
// over the window between a write and the next natural read; sync always
// bypasses it with force-fresh fetches.
type readCache struct {
	ttl time.Duration

	mu          sync.Mutex
	habitsVal   []types.Habit
	habitsAt    time.Time
	logsVal     map[string]types.DailyLog
	logsAt      time.Time
	settingsVal types.Settings
	settingsAt  time.Time
}

func newReadCache(ttl time.Duration) *readCache {
	return &readCache{ttl: ttl}
}

func (rc *readCache) fresh(at, now time.Time) bool {
	return rc.ttl > 0 && !at.IsZero() && now.Sub(at) < rc.ttl
}

func (rc *readCache) habits(now time.Time) ([]types.Habit, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if !rc.fresh(rc.habitsAt, now) {
		return nil, false
	}
	out := make([]types.Habit, len(rc.habitsVal))
	copy(out, rc.habitsVal)
	return out, true
}

func (rc *readCache) storeHabits(habits []types.Habit, now time.Time) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.habitsVal = append([]types.Habit(nil), habits...)
	rc.habitsAt = now
}

func (rc *readCache) invalidateHabits() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.habitsAt = time.Time{}
}

func (rc *readCache) logs(now time.Time) (map[string]types.DailyLog, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if !rc.fresh(rc.logsAt, now) {
		return nil, false
	}
	out := make(map[string]types.DailyLog, len(rc.logsVal))
	for k, v := range rc.logsVal {
		out[k] = types.CloneLog(v)
	}
	return out, true
}

func (rc *readCache) storeLogs(logs map[string]types.DailyLog, now time.Time) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.logsVal = make(map[string]types.DailyLog, len(logs))
	for k, v := range logs {
		rc.logsVal[k] = types.CloneLog(v)
	}
	rc.logsAt = now
}

func (rc *readCache) invalidateLogs() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.logsAt = time.Time{}
}

func (rc *readCache) settings(now time.Time) (types.Settings, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if !rc.fresh(rc.settingsAt, now) {
		return nil, false
	}
	return rc.settingsVal.Clone(), true
}

func (rc *readCache) storeSettings(s types.Settings, now time.Time) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.settingsVal = s.Clone()
	rc.settingsAt = now
}

func (rc *readCache) invalidateSettings() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.settingsAt = time.Time{}
}

func (rc *readCache) invalidateAll() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.habitsAt = time.Time{}
	rc.logsAt = time.Time{}
	rc.settingsAt = time.Time{}
}
