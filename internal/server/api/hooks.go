package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// HookHandler handles HTTP requests for hook bindings.
type HookHandler struct {
	store   *store.Store
	plugins *plugin.Manager
}

// NewHookHandler creates a HookHandler. When plugins is non-nil, new hooks
// must name a discovered plugin that supports the command.
func NewHookHandler(s *store.Store, plugins *plugin.Manager) *HookHandler {
	return &HookHandler{store: s, plugins: plugins}
}

// ServeHTTP routes /api/hooks and /api/hooks/{id}.
func (h *HookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/hooks")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut, http.MethodPatch:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createHookRequest struct {
	Action  string          `json:"action"`
	Run     string          `json:"run"`
	Config  json.RawMessage `json:"config"`
	Enabled *bool           `json:"enabled"`
}

type updateHookRequest struct {
	Enabled *bool `json:"enabled"`
}

type hookResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	Plugin    string          `json:"plugin"`
	Command   string          `json:"command"`
	Config    json.RawMessage `json:"config"`
	Enabled   bool            `json:"enabled"`
	CreatedAt string          `json:"created_at"`
}

type listHooksResponse struct {
	Hooks []hookResponse `json:"hooks"`
}

func toHookResponse(hk *store.Hook) hookResponse {
	config := hk.Config
	if len(config) == 0 {
		config = json.RawMessage("{}")
	}
	return hookResponse{
		ID:        hk.ID,
		Action:    hk.Action,
		Plugin:    hk.PluginName,
		Command:   hk.Command,
		Config:    config,
		Enabled:   hk.Enabled,
		CreatedAt: hk.CreatedAt.Format(timeLayout),
	}
}

// list handles GET /api/hooks. ?action=onLock narrows to enabled hooks for one action.
func (h *HookHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		hooks []*store.Hook
		err   error
	)
	if action := r.URL.Query().Get("action"); action != "" {
		hooks, err = h.store.Hooks().ListByAction(action)
	} else {
		hooks, err = h.store.Hooks().List()
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list hooks")
		return
	}

	response := listHooksResponse{Hooks: make([]hookResponse, 0, len(hooks))}
	for _, hk := range hooks {
		response.Hooks = append(response.Hooks, toHookResponse(hk))
	}
	WriteJSON(w, http.StatusOK, response)
}

func (h *HookHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	hk, err := h.store.Hooks().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Hook not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get hook")
		return
	}
	WriteJSON(w, http.StatusOK, toHookResponse(hk))
}

// create handles POST /api/hooks with {"action":"onLock","run":"plugin:command"}.
func (h *HookHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createHookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	action, err := gesture.ParseAction(req.Action)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if action.Continuous() {
		WriteError(w, http.StatusBadRequest, action.String()+" fires every frame and cannot run plugins")
		return
	}
	binding, err := plugin.ParseBinding(req.Run)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.plugins != nil {
		if _, err := h.plugins.Resolve(binding); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if len(req.Config) > 0 && !json.Valid(req.Config) {
		WriteError(w, http.StatusBadRequest, "config must be valid JSON")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	hk := &store.Hook{
		ID:         uuid.New().String(),
		Action:     action.String(),
		PluginName: binding.Plugin,
		Command:    binding.Command,
		Config:     req.Config,
		Enabled:    enabled,
	}
	saved, err := h.store.Hooks().Ensure(hk)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to create hook")
		return
	}
	if saved.ID != hk.ID {
		WriteError(w, http.StatusConflict, "Hook already bound to this action")
		return
	}
	WriteJSON(w, http.StatusCreated, toHookResponse(saved))
}

// update handles PUT/PATCH /api/hooks/{id} with {"enabled":bool}.
func (h *HookHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req updateHookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Enabled == nil {
		WriteError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	if err := h.store.Hooks().SetEnabled(id, *req.Enabled); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Hook not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to update hook")
		return
	}
	h.get(w, r, id)
}

func (h *HookHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Hooks().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Hook not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to delete hook")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
