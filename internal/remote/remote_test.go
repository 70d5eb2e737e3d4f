package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daygrid/daygrid-go/internal/errs"
	"github.com/daygrid/daygrid-go/internal/types"
)

func newTestClient(t *testing.T, handler http.Handler, ttl time.Duration) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, srv.Client(), ttl, zerolog.Nop()), srv
}

func TestFetchHabits_ReadCache(t *testing.T) {
	var calls int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, types.ActionGetHabits, r.URL.Query().Get("action"))
		assert.NotEmpty(t, r.URL.Query().Get("t"))
		_ = json.NewEncoder(w).Encode(types.Envelope{
			Success: true,
			Habits:  []types.Habit{{ID: "habit-1", Name: "Read"}},
		})
	}), 30*time.Second)

	ctx := context.Background()
	first, err := c.FetchHabits(ctx, false)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Within the TTL the cache answers; no second request.
	_, err = c.FetchHabits(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// Force-fresh bypasses the cache.
	_, err = c.FetchHabits(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetchHabits_CacheExpiry(t *testing.T) {
	var calls int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(types.Envelope{Success: true, Habits: []types.Habit{}})
	}), 30*time.Second)

	base := time.Now()
	c.now = func() time.Time { return base }
	_, err := c.FetchHabits(context.Background(), false)
	require.NoError(t, err)

	c.now = func() time.Time { return base.Add(31 * time.Second) }
	_, err = c.FetchHabits(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWriteInvalidatesReadCache(t *testing.T) {
	var fetches int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fetches++
			_ = json.NewEncoder(w).Encode(types.Envelope{Success: true, Habits: []types.Habit{}})
			return
		}
		_ = json.NewEncoder(w).Encode(types.Envelope{Success: true})
	}), 30*time.Second)

	ctx := context.Background()
	_, err := c.FetchHabits(ctx, false)
	require.NoError(t, err)
	require.NoError(t, c.AddHabit(ctx, types.Habit{ID: "habit-2", Name: "Run"}))

	_, err = c.FetchHabits(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches, "write should have invalidated the habits cache")
}

func TestFetchLogs_NormalizesLegacyShape(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "90", r.URL.Query().Get("days"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"logs": map[string]any{
				"2026-08-01": map[string]any{"moneySpent": 50},
				"2026-08-02": map[string]any{"sleep": 7.5},
			},
		})
	}), 0)

	logs, err := c.FetchLogs(context.Background(), 90, true)
	require.NoError(t, err)

	legacy := logs["2026-08-01"]
	require.Len(t, legacy.Expenses, 1)
	assert.Equal(t, types.LegacyExpenseItem, legacy.Expenses[0].Item)
	assert.Equal(t, types.CategoryGeneral, legacy.Expenses[0].Category)
	assert.Equal(t, 50.0, legacy.Expenses[0].Amount)
	assert.Zero(t, legacy.MoneySpent)

	current := logs["2026-08-02"]
	assert.NotNil(t, current.CompletedHabits)
	assert.NotNil(t, current.Expenses)
	assert.Equal(t, 7.5, current.Sleep)
}

func TestFetchSettings_MergedOverDefaults(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(types.Envelope{
			Success:  true,
			Settings: types.Settings{"username": "dana", "futureKey": "kept"},
		})
	}), 0)

	settings, err := c.FetchSettings(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "dana", settings[types.SettingUsername])
	assert.Equal(t, "indigo", settings[types.SettingTheme])
	assert.Equal(t, "kept", settings["futureKey"], "unknown keys must round-trip")
}

func TestUpstreamFailureFlag(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(types.Envelope{Success: false, Error: "Invalid action"})
	}), 0)

	_, err := c.FetchHabits(context.Background(), true)
	var ue *errs.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Invalid action", ue.Message)
	assert.Zero(t, ue.Status)
}

func TestUpstreamHTTPError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}), 0)

	err := c.UpdateLog(context.Background(), "2026-08-01", types.DailyLog{})
	var ue *errs.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadGateway, ue.Status)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := New(srv.URL, srv.Client(), 0, zerolog.Nop())
	srv.Close() // connection refused from here on

	_, err := c.FetchSettings(context.Background(), true)
	var te *errs.TransportError
	require.ErrorAs(t, err, &te)
}

func TestApply_Dispatch(t *testing.T) {
	var got []map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		got = append(got, body)
		_ = json.NewEncoder(w).Encode(types.Envelope{Success: true})
	}), 0)

	ctx := context.Background()
	now := time.Now()
	changes := []types.PendingChange{
		types.NewAddHabitChange(types.Habit{ID: "habit-1", Name: "Read", Color: "indigo", Icon: "*"}, now),
		types.NewDeleteHabitChange("habit-0", now),
		types.NewUpdateLogChange("2026-08-01", types.NormalizeLog(types.DailyLog{Sleep: 8}), now),
		types.NewUpdateSettingsChange(types.Settings{"theme": "rose"}, now),
	}
	for _, ch := range changes {
		require.NoError(t, c.Apply(ctx, ch))
	}

	require.Len(t, got, 4)
	assert.Equal(t, "addHabit", got[0]["action"])
	assert.Equal(t, "habit-1", got[0]["id"])
	assert.Equal(t, "deleteHabit", got[1]["action"])
	assert.Equal(t, "updateLog", got[2]["action"])
	assert.Equal(t, "2026-08-01", got[2]["date"])
	assert.Equal(t, "updateSetting", got[3]["action"])
	assert.Equal(t, "theme", got[3]["key"])
	assert.Equal(t, "rose", got[3]["value"])
}

func TestApply_UnknownKind(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler(), 0)
	err := c.Apply(context.Background(), types.PendingChange{ID: "x", Kind: "compact"})
	require.Error(t, err)
	var ue *errs.UpstreamError
	assert.False(t, errors.As(err, &ue), "unknown kind is a local error, not upstream")
}

func TestBatchSync(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req types.SyncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, types.ActionSync, req.Action)
		assert.Len(t, req.Changes, 1)
		assert.Equal(t, 90, req.Days)
		_ = json.NewEncoder(w).Encode(types.Envelope{
			Success:  true,
			Habits:   []types.Habit{{ID: "habit-1"}},
			Logs:     map[string]types.DailyLog{"2026-08-01": {MoneySpent: 20}},
			Settings: types.Settings{"username": "dana"},
		})
	}), 0)

	state, err := c.BatchSync(context.Background(),
		[]types.PendingChange{types.NewDeleteHabitChange("habit-2", time.Now())}, 90)
	require.NoError(t, err)
	require.Len(t, state.Habits, 1)
	require.Len(t, state.Logs["2026-08-01"].Expenses, 1, "batch pull must normalize legacy logs too")
	assert.Equal(t, "dana", state.Settings[types.SettingUsername])
}
