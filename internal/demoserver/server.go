// Package demoserver is an in-memory implementation of the action-tagged
// backend API. It exists for local development and end-to-end tests: point a
// Store at its URL and every action behaves like the hosted backend, minus
// persistence.
package demoserver

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/daygrid/daygrid-go/internal/types"
)

// Server holds the canonical state behind the demo endpoint. All access is
// serialized through mu; handlers never hand out interior references.
type Server struct {
	mu       sync.Mutex
	habits   []types.Habit
	logs     map[string]types.DailyLog
	settings types.Settings

	log zerolog.Logger
	now func() time.Time
}

// New returns an empty demo backend.
func New(log zerolog.Logger) *Server {
	return &Server{
		logs:     make(map[string]types.DailyLog),
		settings: types.Settings{},
		log:      log,
		now:      time.Now,
	}
}

func (s *Server) listHabits() []types.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Habit, len(s.habits))
	copy(out, s.habits)
	return out
}

// listLogs returns the logs whose date falls inside the trailing window of
// the given number of days, today included. days <= 0 means no windowing.
func (s *Server) listLogs(days int) map[string]types.DailyLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]types.DailyLog, len(s.logs))
	var cutoff string
	if days > 0 {
		cutoff = types.FormatDate(s.now().AddDate(0, 0, -(days - 1)))
	}
	for date, l := range s.logs {
		if cutoff != "" && date < cutoff {
			continue
		}
		out[date] = l
	}
	return types.NormalizeLogs(out)
}

func (s *Server) getSettings() types.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Merged()
}

// addHabit upserts by id. A client retrying the same queued change sends the
// same id, so re-applying it replaces rather than duplicates. An empty id
// gets a server-generated one.
func (s *Server) addHabit(id, name, color, icon string) types.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = types.NewHabitID(s.now())
	}
	h := types.Habit{ID: id, Name: name, CreatedAt: s.now().UTC(), Color: color, Icon: icon}
	for i, existing := range s.habits {
		if existing.ID == id {
			h.CreatedAt = existing.CreatedAt
			s.habits[i] = h
			return h
		}
	}
	s.habits = append(s.habits, h)
	return h
}

// deleteHabit removes the habit if present. An unknown or empty id is a
// no-op so that replays of an already confirmed deletion still succeed.
func (s *Server) deleteHabit(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, h := range s.habits {
		if h.ID == id {
			s.habits = append(s.habits[:i], s.habits[i+1:]...)
			return
		}
	}
}

// putLog overwrites one date's log with the full snapshot sent by the
// client.
func (s *Server) putLog(date string, l types.DailyLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[date] = types.NormalizeLog(l)
}

func (s *Server) putSetting(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
}

// applyChange replays one queued client change against the canonical state.
func (s *Server) applyChange(ch types.PendingChange) error {
	switch ch.Kind {
	case types.ChangeAddHabit:
		if ch.Habit == nil {
			return fmt.Errorf("addHabit change without habit payload")
		}
		s.addHabit(ch.Habit.ID, ch.Habit.Name, ch.Habit.Color, ch.Habit.Icon)
	case types.ChangeDeleteHabit:
		s.deleteHabit(ch.HabitID)
	case types.ChangeUpdateLog:
		if ch.Log == nil || ch.Date == "" {
			return fmt.Errorf("updateLog change without date or log payload")
		}
		s.putLog(ch.Date, *ch.Log)
	case types.ChangeUpdateSettings:
		keys := make([]string, 0, len(ch.Settings))
		for k := range ch.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s.putSetting(k, ch.Settings[k])
		}
	default:
		return fmt.Errorf("unknown change kind %q", ch.Kind)
	}
	return nil
}

// applyBatch replays a whole pending queue in order and returns the
// post-replay state, mirroring what separate pulls would see.
func (s *Server) applyBatch(changes []types.PendingChange, days int) (*types.SyncState, error) {
	for i, ch := range changes {
		if err := s.applyChange(ch); err != nil {
			return nil, fmt.Errorf("change %d of %d: %w", i+1, len(changes), err)
		}
	}
	return &types.SyncState{
		Habits:   s.listHabits(),
		Logs:     s.listLogs(days),
		Settings: s.getSettings(),
	}, nil
}
