// Package remote wraps the single action-tagged endpoint exposed by the
// spreadsheet backend. Pull actions go out as GET query parameters, push
// actions as POSTed JSON bodies; every response is a success-flagged
// envelope. A transport failure and an explicit success:false are both
// surfaced as typed errors carrying the upstream message.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/daygrid/daygrid-go/internal/errs"
	"github.com/daygrid/daygrid-go/internal/types"
)

// Client talks to the remote persistence API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	cache   *readCache
	now     func() time.Time
}

// New constructs a Client. ttl bounds the read cache; zero disables caching.
func New(baseURL string, httpClient *http.Client, ttl time.Duration, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		log:     log,
		cache:   newReadCache(ttl),
		now:     time.Now,
	}
}

// FetchHabits pulls the ordered habit list. force bypasses the read cache.
func (c *Client) FetchHabits(ctx context.Context, force bool) ([]types.Habit, error) {
	if !force {
		if habits, ok := c.cache.habits(c.now()); ok {
			return habits, nil
		}
	}
	env, err := c.get(ctx, types.ActionGetHabits, nil)
	if err != nil {
		return nil, err
	}
	habits := env.Habits
	if habits == nil {
		habits = []types.Habit{}
	}
	c.cache.storeHabits(habits, c.now())
	return habits, nil
}

// FetchLogs pulls all logs within the trailing window of days. force
// bypasses the read cache.
func (c *Client) FetchLogs(ctx context.Context, days int, force bool) (map[string]types.DailyLog, error) {
	if !force {
		if logs, ok := c.cache.logs(c.now()); ok {
			return logs, nil
		}
	}
	params := url.Values{"days": {fmt.Sprint(days)}}
	env, err := c.get(ctx, types.ActionGetLogs, params)
	if err != nil {
		return nil, err
	}
	logs := types.NormalizeLogs(env.Logs)
	c.cache.storeLogs(logs, c.now())
	return logs, nil
}

// FetchSettings pulls settings merged over defaults. force bypasses the read
// cache.
func (c *Client) FetchSettings(ctx context.Context, force bool) (types.Settings, error) {
	if !force {
		if settings, ok := c.cache.settings(c.now()); ok {
			return settings, nil
		}
	}
	env, err := c.get(ctx, types.ActionGetSettings, nil)
	if err != nil {
		return nil, err
	}
	settings := env.Settings.Merged()
	c.cache.storeSettings(settings, c.now())
	return settings, nil
}

// AddHabit pushes h. The id travels with the request so replay after a
// partial sync recreates the same habit instead of a duplicate.
func (c *Client) AddHabit(ctx context.Context, h types.Habit) error {
	_, err := c.post(ctx, types.ActionAddHabit, types.AddHabitRequest{
		Action: types.ActionAddHabit,
		Name:   h.Name,
		Color:  h.Color,
		Icon:   h.Icon,
		ID:     h.ID,
	})
	if err != nil {
		return err
	}
	c.cache.invalidateHabits()
	return nil
}

// DeleteHabit pushes a deletion. The backend answers success even when the
// id is already gone, which keeps replay idempotent.
func (c *Client) DeleteHabit(ctx context.Context, id string) error {
	_, err := c.post(ctx, types.ActionDeleteHabit, types.DeleteHabitRequest{
		Action: types.ActionDeleteHabit,
		ID:     id,
	})
	if err != nil {
		return err
	}
	c.cache.invalidateHabits()
	return nil
}

// UpdateLog pushes a full overwrite of one date's log.
func (c *Client) UpdateLog(ctx context.Context, date string, log types.DailyLog) error {
	_, err := c.post(ctx, types.ActionUpdateLog, types.UpdateLogRequest{
		Action: types.ActionUpdateLog,
		Date:   date,
		Data:   log,
	})
	if err != nil {
		return err
	}
	c.cache.invalidateLogs()
	return nil
}

// UpdateSetting upserts a single settings key.
func (c *Client) UpdateSetting(ctx context.Context, key, value string) error {
	_, err := c.post(ctx, types.ActionUpdateSetting, types.UpdateSettingRequest{
		Action: types.ActionUpdateSetting,
		Key:    key,
		Value:  value,
	})
	if err != nil {
		return err
	}
	c.cache.invalidateSettings()
	return nil
}

// UpdateSettings upserts every key of s, one call per key in sorted order so
// the sequence is deterministic.
func (c *Client) UpdateSettings(ctx context.Context, s types.Settings) error {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := c.UpdateSetting(ctx, k, s[k]); err != nil {
			return err
		}
	}
	return nil
}

// Apply replays one pending change against the backend.
func (c *Client) Apply(ctx context.Context, ch types.PendingChange) error {
	switch ch.Kind {
	case types.ChangeAddHabit:
		if ch.Habit == nil {
			return fmt.Errorf("addHabit change %s has no habit payload", ch.ID)
		}
		return c.AddHabit(ctx, *ch.Habit)
	case types.ChangeDeleteHabit:
		return c.DeleteHabit(ctx, ch.HabitID)
	case types.ChangeUpdateLog:
		if ch.Log == nil {
			return fmt.Errorf("updateLog change %s has no log payload", ch.ID)
		}
		return c.UpdateLog(ctx, ch.Date, *ch.Log)
	case types.ChangeUpdateSettings:
		return c.UpdateSettings(ctx, ch.Settings)
	default:
		return fmt.Errorf("unknown change kind %q", ch.Kind)
	}
}

// BatchSync pushes the whole pending batch and receives post-replay
// canonical state in one round trip, where the backend supports the sync
// action.
func (c *Client) BatchSync(ctx context.Context, changes []types.PendingChange, days int) (*types.SyncState, error) {
	if changes == nil {
		changes = []types.PendingChange{}
	}
	env, err := c.post(ctx, types.ActionSync, types.SyncRequest{
		Action:  types.ActionSync,
		Changes: changes,
		Days:    days,
	})
	if err != nil {
		return nil, err
	}
	state := &types.SyncState{
		Habits:   env.Habits,
		Logs:     types.NormalizeLogs(env.Logs),
		Settings: env.Settings.Merged(),
	}
	if state.Habits == nil {
		state.Habits = []types.Habit{}
	}
	c.cache.storeHabits(state.Habits, c.now())
	c.cache.storeLogs(state.Logs, c.now())
	c.cache.storeSettings(state.Settings, c.now())
	return state, nil
}

// InvalidateAll drops every read-cache entry.
func (c *Client) InvalidateAll() { c.cache.invalidateAll() }

// ------------------------- transport -------------------------

func (c *Client) get(ctx context.Context, action string, params url.Values) (*types.Envelope, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("action", action)
	// Cache-busting timestamp, mirrored from the backend contract.
	params.Set("t", fmt.Sprint(c.now().UnixMilli()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errs.NewTransportError(action, err)
	}
	return c.do(action, req)
}

func (c *Client) post(ctx context.Context, action string, body any) (*types.Envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errs.NewTransportError(action, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errs.NewTransportError(action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(action, req)
}

func (c *Client) do(action string, req *http.Request) (*types.Envelope, error) {
	requestsTotal.WithLabelValues(action).Inc()
	resp, err := c.http.Do(req)
	if err != nil {
		requestFailuresTotal.WithLabelValues(action).Inc()
		return nil, errs.NewTransportError(action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env types.Envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode != http.StatusOK {
		requestFailuresTotal.WithLabelValues(action).Inc()
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &errs.UpstreamError{Op: action, Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		requestFailuresTotal.WithLabelValues(action).Inc()
		return nil, errs.NewTransportError(action, fmt.Errorf("decoding response: %w", decodeErr))
	}
	if !env.Success {
		requestFailuresTotal.WithLabelValues(action).Inc()
		msg := env.Error
		if msg == "" {
			msg = "API request failed"
		}
		c.log.Debug().Str("action", action).Str("error", msg).Msg("upstream rejected request")
		return nil, &errs.UpstreamError{Op: action, Message: msg}
	}
	return &env, nil
}
