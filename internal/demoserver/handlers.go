package demoserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/daygrid/daygrid-go/internal/types"
)

// Router returns the HTTP surface: the action endpoint at / plus a health
// probe. The real backend multiplexes every action through one URL, so the
// demo does too.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recoverPanics)
	r.HandleFunc("/", s.handlePull).Methods(http.MethodGet)
	r.HandleFunc("/", s.handlePush).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePull serves the read actions carried in query parameters.
func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	switch action {
	case types.ActionGetHabits:
		s.writeEnvelope(w, types.Envelope{Success: true, Habits: s.listHabits()})
	case types.ActionGetLogs:
		days := 0
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				s.writeEnvelope(w, types.Envelope{Error: "invalid days parameter"})
				return
			}
			days = n
		}
		s.writeEnvelope(w, types.Envelope{Success: true, Logs: s.listLogs(days)})
	case types.ActionGetSettings:
		s.writeEnvelope(w, types.Envelope{Success: true, Settings: s.getSettings()})
	default:
		s.writeEnvelope(w, types.Envelope{Error: "unknown action: " + action})
	}
}

// handlePush serves the write actions. The body is decoded twice: once to
// read the action tag, then into the action's request shape.
func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.writeEnvelope(w, types.Envelope{Error: "invalid JSON body"})
		return
	}
	var tag struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		s.writeEnvelope(w, types.Envelope{Error: "invalid JSON body"})
		return
	}

	switch tag.Action {
	case types.ActionAddHabit:
		var req types.AddHabitRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			s.writeEnvelope(w, types.Envelope{Error: "invalid addHabit body"})
			return
		}
		if req.Name == "" {
			s.writeEnvelope(w, types.Envelope{Error: "habit name is required"})
			return
		}
		h := s.addHabit(req.ID, req.Name, req.Color, req.Icon)
		s.writeEnvelope(w, types.Envelope{Success: true, Habit: &h})

	case types.ActionDeleteHabit:
		var req types.DeleteHabitRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			s.writeEnvelope(w, types.Envelope{Error: "invalid deleteHabit body"})
			return
		}
		s.deleteHabit(req.ID)
		s.writeEnvelope(w, types.Envelope{Success: true})

	case types.ActionUpdateLog:
		var req types.UpdateLogRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			s.writeEnvelope(w, types.Envelope{Error: "invalid updateLog body"})
			return
		}
		if req.Date == "" {
			s.writeEnvelope(w, types.Envelope{Error: "date is required"})
			return
		}
		s.putLog(req.Date, req.Data)
		s.writeEnvelope(w, types.Envelope{Success: true})

	case types.ActionUpdateSetting:
		var req types.UpdateSettingRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			s.writeEnvelope(w, types.Envelope{Error: "invalid updateSetting body"})
			return
		}
		if req.Key == "" {
			s.writeEnvelope(w, types.Envelope{Error: "setting key is required"})
			return
		}
		s.putSetting(req.Key, req.Value)
		s.writeEnvelope(w, types.Envelope{Success: true})

	case types.ActionSync:
		var req types.SyncRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			s.writeEnvelope(w, types.Envelope{Error: "invalid sync body"})
			return
		}
		state, err := s.applyBatch(req.Changes, req.Days)
		if err != nil {
			s.writeEnvelope(w, types.Envelope{Error: err.Error()})
			return
		}
		s.writeEnvelope(w, types.Envelope{
			Success:  true,
			Habits:   state.Habits,
			Logs:     state.Logs,
			Settings: state.Settings,
		})

	default:
		s.writeEnvelope(w, types.Envelope{Error: "unknown action: " + tag.Action})
	}
}

// writeEnvelope always answers 200; application failures ride in the body
// with Success false, matching the hosted backend's contract.
func (s *Server) writeEnvelope(w http.ResponseWriter, env types.Envelope) {
	s.writeJSON(w, http.StatusOK, env)
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
