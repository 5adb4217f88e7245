// Package server exposes the scene state, pipeline controls and the event log over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// DefaultStreamFPS is the rate of state frames and preview images.
const DefaultStreamFPS = 15

const shutdownTimeout = 5 * time.Second

// FrameSource provides the most recent camera frame as JPEG.
type FrameSource interface {
	LastJPEG() []byte
}

// Config holds the server configuration. Every field is optional; routes
// whose dependency is missing are not registered.
type Config struct {
	StaticDir string
	App       *app.App
	Store     *store.Store
	Plugins   *plugin.Manager
	Preview   FrameSource
	StreamFPS int
}

// Server is the HTTP surface of mudra.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	if config.StreamFPS <= 0 {
		config.StreamFPS = DefaultStreamFPS
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.App != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.HandleFunc("/api/comet", s.handleComet)
		s.mux.HandleFunc("/api/reset", s.handleReset)
		s.mux.HandleFunc("/api/enabled", s.handleEnabled)
		s.mux.Handle("/api/stream", NewStateHandler(s.config.App, s.config.StreamFPS))
	}

	if s.config.Preview != nil {
		s.mux.Handle("/api/video", NewVideoHandler(s.config.Preview, s.config.StreamFPS))
	}

	if s.config.Store != nil {
		hooks := api.NewHookHandler(s.config.Store, s.config.Plugins)
		sessions := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/events", api.NewEventHandler(s.config.Store))
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
		s.mux.Handle("/api/hooks", hooks)
		s.mux.Handle("/api/hooks/", hooks)
	}

	if s.config.Plugins != nil {
		s.mux.Handle("/api/plugins", api.NewPluginHandler(s.config.Plugins))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.App != nil {
		st := s.config.App.Status()
		response["running"] = st.Running
		response["enabled"] = st.Enabled
	}
	api.WriteJSON(w, http.StatusOK, response)
}

// Snapshot is the payload of /api/state and of every /api/stream frame.
type Snapshot struct {
	Scene     scene.State `json:"scene"`
	Status    app.Status  `json:"status"`
	Timestamp int64       `json:"timestamp"`
}

func takeSnapshot(a *app.App) Snapshot {
	return Snapshot{
		Scene:     a.Controller().State(),
		Status:    a.Status(),
		Timestamp: time.Now().UnixMilli(),
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	api.WriteJSON(w, http.StatusOK, takeSnapshot(s.config.App))
}

func (s *Server) handleComet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.config.App.RequestComet() {
		api.WriteError(w, http.StatusServiceUnavailable, "Request queue full")
		return
	}
	api.WriteJSON(w, http.StatusAccepted, map[string]bool{"queued": true})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.config.App.RequestReset() {
		api.WriteError(w, http.StatusServiceUnavailable, "Request queue full")
		return
	}
	api.WriteJSON(w, http.StatusAccepted, map[string]bool{"queued": true})
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// handleEnabled reports the gesture switch on GET and sets it on POST.
func (s *Server) handleEnabled(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost, http.MethodPut:
		var req enabledRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
			api.WriteError(w, http.StatusBadRequest, `Body must be {"enabled": bool}`)
			return
		}
		s.config.App.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]bool{"enabled": s.config.App.IsEnabled()})
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		// Streaming handlers end with ctx; Shutdown does not wait for hijacked conns.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("Server listening on http://%s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Println("Server stopped")
	return nil
}
