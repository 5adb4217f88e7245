package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// MaxEventLimit caps ?limit on /api/events.
const MaxEventLimit = 500

// EventHandler serves the recorded action log.
type EventHandler struct {
	store *store.Store
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{store: s}
}

type listEventsResponse struct {
	Events []*store.Event `json:"events"`
}

// ServeHTTP handles GET /api/events?limit=N.
func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = min(n, MaxEventLimit)
	}

	events, err := h.store.Events().Recent(limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}
	if events == nil {
		events = []*store.Event{}
	}
	WriteJSON(w, http.StatusOK, listEventsResponse{Events: events})
}

// SessionHandler serves pipeline sessions and their per-action counts.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

type sessionResponse struct {
	*store.Session
	Actions map[string]int `json:"actions,omitempty"`
}

type listSessionsResponse struct {
	Sessions []*store.Session `json:"sessions"`
}

// ServeHTTP routes /api/sessions and /api/sessions/{id}.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/sessions"), "/")
	if id == "" {
		sessions, err := h.store.Sessions().List()
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to list sessions")
			return
		}
		if sessions == nil {
			sessions = []*store.Session{}
		}
		WriteJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
		return
	}

	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}
	counts, err := h.store.Events().CountByAction(id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to count events")
		return
	}
	WriteJSON(w, http.StatusOK, sessionResponse{Session: sess, Actions: counts})
}
