// Package daygrid is an offline-first client for a spreadsheet-backed habit
// tracker. Every write lands in a local cache immediately and is queued as a
// pending change; Sync later replays the queue against the remote endpoint
// and pulls canonical state back. Reads never touch the network.
package daygrid

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/daygrid/daygrid-go/internal/cache"
	"github.com/daygrid/daygrid-go/internal/queue"
	"github.com/daygrid/daygrid-go/internal/remote"
	"github.com/daygrid/daygrid-go/internal/types"
)

// Durable tier backends.
const (
	backendFile   = "file"
	backendSQLite = "sqlite"
)

// Defaults applied when AddHabit is called with empty color or icon.
const (
	defaultHabitColor = "indigo"
	defaultHabitIcon  = "⚡️"
)

// Store is the single entry point the rest of an application uses. Reads are
// served from the local cache tiers; writes mutate the cache optimistically
// and append to the durable pending queue. Sync reconciles with the remote.
type Store struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	session cache.Tier // habits, logs; wiped each process start
	durable cache.Tier // settings, pending queue; survives restarts
	queue   *queue.Queue
	remote  remoteAPI

	windowDays     int
	readCacheTTL   time.Duration
	dataDir        string
	backend        string
	batchSync      bool
	replayAttempts int

	now func() time.Time

	syncing    uint32 // gates Sync re-entry
	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Store talking to the endpoint at baseURL. Additional
// knobs are provided via functional options.
func New(baseURL string, opts ...Option) (*Store, error) {
	if baseURL == "" {
		return nil, errors.New("baseURL must not be empty")
	}

	s := &Store{
		baseURL:        baseURL,
		http:           &http.Client{Timeout: 30 * time.Second},
		log:            zerolog.Nop(),
		session:        cache.NewMemory(),
		windowDays:     90,
		readCacheTTL:   30 * time.Second,
		backend:        backendFile,
		replayAttempts: 1,
		now:            time.Now,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.durable == nil {
		tier, err := s.openDurable()
		if err != nil {
			return nil, err
		}
		s.durable = tier
	}

	q, err := queue.New(s.durable)
	if err != nil {
		return nil, err
	}
	s.queue = q
	pendingDepth.Set(float64(q.Len()))

	if s.remote == nil {
		s.remote = remote.New(baseURL, s.http, s.readCacheTTL, s.log)
	}
	return s, nil
}

// NewFromEnv constructs a Store from DAYGRID_* environment variables.
// Explicit options take precedence over the environment.
func NewFromEnv(opts ...Option) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("DAYGRID_BASE_URL is not set")
	}
	pre := []Option{
		WithWindowDays(cfg.WindowDays),
		WithReadCacheTTL(cfg.ReadCacheTTL),
		WithHTTPTimeout(cfg.HTTPTimeout),
	}
	if cfg.DataDir != "" {
		pre = append(pre, WithDataDir(cfg.DataDir))
	}
	if cfg.Backend == backendSQLite {
		pre = append(pre, WithSQLiteBackend())
	}
	return New(cfg.BaseURL, append(pre, opts...)...)
}

func (s *Store) openDurable() (cache.Tier, error) {
	dir := s.dataDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data dir: %w", err)
		}
		dir = filepath.Join(base, "daygrid")
	}
	switch s.backend {
	case backendSQLite:
		return cache.NewSQLite(filepath.Join(dir, "daygrid.db"))
	default:
		return cache.NewFile(filepath.Join(dir, "daygrid.json"))
	}
}

// Close releases the durable tier if it holds resources. Safe to call
// multiple times.
func (s *Store) Close() error {
	if !atomic.CompareAndSwapUint32(&s.closedOnce, 0, 1) {
		return nil
	}
	if closer, ok := s.durable.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// --------------------------------------------------------------------
// Reads: cache only, never network
// --------------------------------------------------------------------

// Habits returns the cached habit list in display order.
func (s *Store) Habits() ([]types.Habit, error) {
	return s.loadHabits()
}

// Logs returns all cached daily logs keyed by date.
func (s *Store) Logs() (map[string]types.DailyLog, error) {
	return s.loadLogs()
}

// Log returns the cached log for one date and whether it exists. Absence
// means "no data", not zero.
func (s *Store) Log(date string) (types.DailyLog, bool, error) {
	if err := types.ValidateDate(date); err != nil {
		return types.DailyLog{}, false, err
	}
	logs, err := s.loadLogs()
	if err != nil {
		return types.DailyLog{}, false, err
	}
	l, ok := logs[date]
	return l, ok, nil
}

// Settings returns the persisted settings merged over defaults.
func (s *Store) Settings() (types.Settings, error) {
	return s.loadSettings()
}

// PendingCount reports how many local mutations await sync.
func (s *Store) PendingCount() int { return s.queue.Len() }

// --------------------------------------------------------------------
// Writes: optimistic local mutation + enqueue, no network wait
// --------------------------------------------------------------------

// AddHabit creates a habit locally and queues its upload. Empty color and
// icon fall back to the defaults.
func (s *Store) AddHabit(name, color, icon string) (*types.Habit, error) {
	if err := types.ValidateHabitName(name); err != nil {
		return nil, err
	}
	if color == "" {
		color = defaultHabitColor
	}
	if icon == "" {
		icon = defaultHabitIcon
	}
	now := s.now()
	habit := types.Habit{
		ID:        types.NewHabitID(now),
		Name:      name,
		CreatedAt: now.UTC(),
		Color:     color,
		Icon:      icon,
	}

	habits, err := s.loadHabits()
	if err != nil {
		return nil, err
	}
	habits = append(habits, habit)
	if err := s.saveHabits(habits); err != nil {
		return nil, err
	}
	if err := s.enqueue(types.NewAddHabitChange(habit, now)); err != nil {
		return nil, err
	}
	s.log.Debug().Str("habitId", habit.ID).Str("name", name).Msg("habit added")
	return &habit, nil
}

// DeleteHabit removes a habit locally and queues the deletion. Stale
// completion entries in old logs are tolerated, not purged.
func (s *Store) DeleteHabit(id string) error {
	habits, err := s.loadHabits()
	if err != nil {
		return err
	}
	kept := habits[:0]
	for _, h := range habits {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	if err := s.saveHabits(kept); err != nil {
		return err
	}
	return s.enqueue(types.NewDeleteHabitChange(id, s.now()))
}

// ToggleHabitCompletion flips membership of habitID in that date's completed
// set and returns the new log.
func (s *Store) ToggleHabitCompletion(date, habitID string) (*types.DailyLog, error) {
	return s.mutateLog(date, func(l *types.DailyLog) error {
		for i, id := range l.CompletedHabits {
			if id == habitID {
				l.CompletedHabits = append(l.CompletedHabits[:i], l.CompletedHabits[i+1:]...)
				return nil
			}
		}
		l.CompletedHabits = append(l.CompletedHabits, habitID)
		return nil
	})
}

// SetSleepHours records sleep for a date. Hours must be within 0-24.
func (s *Store) SetSleepHours(date string, hours float64) (*types.DailyLog, error) {
	if err := types.ValidateHours("sleep", hours); err != nil {
		return nil, err
	}
	return s.mutateLog(date, func(l *types.DailyLog) error {
		l.Sleep = hours
		return nil
	})
}

// SetScreenTimeHours records screen time for a date. Hours must be within
// 0-24.
func (s *Store) SetScreenTimeHours(date string, hours float64) (*types.DailyLog, error) {
	if err := types.ValidateHours("screenTime", hours); err != nil {
		return nil, err
	}
	return s.mutateLog(date, func(l *types.DailyLog) error {
		l.ScreenTime = hours
		return nil
	})
}

// SetJournalText records the journal entry for a date.
func (s *Store) SetJournalText(date, text string) (*types.DailyLog, error) {
	return s.mutateLog(date, func(l *types.DailyLog) error {
		l.Journal = text
		return nil
	})
}

// AddExpense appends a spend record to a date's log. A legacy numeric day
// total is coerced into its own record first, so the old sum is never lost.
// Unknown categories fall back to General.
func (s *Store) AddExpense(date, item string, amount float64, category string) (*types.DailyLog, error) {
	if err := types.ValidateAmount(amount); err != nil {
		return nil, err
	}
	now := s.now()
	return s.mutateLog(date, func(l *types.DailyLog) error {
		l.Expenses = append(l.Expenses, types.Expense{
			ID:        types.NewExpenseID(now),
			Item:      item,
			Amount:    amount,
			Category:  types.NormalizeCategory(category),
			Timestamp: now.UTC(),
		})
		return nil
	})
}

// SaveSettings merges updates over the current settings, persists them
// durably, and queues the full new state.
func (s *Store) SaveSettings(updates types.Settings) (types.Settings, error) {
	current, err := s.loadSettings()
	if err != nil {
		return nil, err
	}
	for k, v := range updates {
		current[k] = v
	}
	data, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize settings: %w", err)
	}
	if err := s.durable.Set(cache.KeySettings, data); err != nil {
		return nil, fmt.Errorf("failed to persist settings: %w", err)
	}
	if err := s.enqueue(types.NewUpdateSettingsChange(current, s.now())); err != nil {
		return nil, err
	}
	return current.Clone(), nil
}

// --------------------------------------------------------------------
// internals
// --------------------------------------------------------------------

// mutateLog reads the cached log for date through the safe-defaults
// normalizer, applies fn, writes the result back, and queues the full
// snapshot. Mutating one field of a previously-absent log never drops
// others.
func (s *Store) mutateLog(date string, fn func(*types.DailyLog) error) (*types.DailyLog, error) {
	if err := types.ValidateDate(date); err != nil {
		return nil, err
	}
	logs, err := s.loadLogs()
	if err != nil {
		return nil, err
	}
	l := types.NormalizeLog(logs[date])
	if err := fn(&l); err != nil {
		return nil, err
	}
	logs[date] = l
	if err := s.saveLogs(logs); err != nil {
		return nil, err
	}
	if err := s.enqueue(types.NewUpdateLogChange(date, types.CloneLog(l), s.now())); err != nil {
		return nil, err
	}
	out := types.CloneLog(l)
	return &out, nil
}

func (s *Store) enqueue(ch types.PendingChange) error {
	if err := s.queue.Enqueue(ch); err != nil {
		return err
	}
	pendingDepth.Set(float64(s.queue.Len()))
	return nil
}

func (s *Store) loadHabits() ([]types.Habit, error) {
	data, ok, err := s.session.Get(cache.KeyHabits)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached habits: %w", err)
	}
	if !ok {
		return []types.Habit{}, nil
	}
	var habits []types.Habit
	if err := json.Unmarshal(data, &habits); err != nil {
		return nil, fmt.Errorf("failed to parse cached habits: %w", err)
	}
	if habits == nil {
		habits = []types.Habit{}
	}
	return habits, nil
}

func (s *Store) saveHabits(habits []types.Habit) error {
	data, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("failed to serialize habits: %w", err)
	}
	if err := s.session.Set(cache.KeyHabits, data); err != nil {
		return fmt.Errorf("failed to cache habits: %w", err)
	}
	return nil
}

func (s *Store) loadLogs() (map[string]types.DailyLog, error) {
	data, ok, err := s.session.Get(cache.KeyLogs)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached logs: %w", err)
	}
	if !ok {
		return map[string]types.DailyLog{}, nil
	}
	var logs map[string]types.DailyLog
	if err := json.Unmarshal(data, &logs); err != nil {
		return nil, fmt.Errorf("failed to parse cached logs: %w", err)
	}
	return types.NormalizeLogs(logs), nil
}

func (s *Store) saveLogs(logs map[string]types.DailyLog) error {
	data, err := json.Marshal(logs)
	if err != nil {
		return fmt.Errorf("failed to serialize logs: %w", err)
	}
	if err := s.session.Set(cache.KeyLogs, data); err != nil {
		return fmt.Errorf("failed to cache logs: %w", err)
	}
	return nil
}

func (s *Store) loadSettings() (types.Settings, error) {
	data, ok, err := s.durable.Get(cache.KeySettings)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if !ok {
		return types.DefaultSettings(), nil
	}
	var settings types.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings.Merged(), nil
}
