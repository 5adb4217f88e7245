// Package app runs the inference and render loops that connect a landmark
// source to the scene controller.
package app

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector/landmark"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/loop"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/pose"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/store"
)

// Runtime defaults.
const (
	// InferenceBackoff is the pause after a recoverable source error.
	InferenceBackoff = time.Second
	DefaultRenderFPS = 60
	requestQueueSize = 8
)

// ErrAlreadyRunning is returned by Run when the app is already running.
var ErrAlreadyRunning = errors.New("app is already running")

// LandmarkSource yields at most one hand per call. A nil hand with a nil error
// means no hand was visible.
type LandmarkSource interface {
	Next(ctx context.Context) (*landmark.HandLandmarks, error)
}

// Config configures an App. Zero values pick defaults.
type Config struct {
	RenderInterval time.Duration
	Backoff        time.Duration
	// Enabled is the initial gesture state when the store has none saved.
	Enabled bool
	// SourceName is recorded on the session row.
	SourceName string
	// Store enables the session and event log. Optional.
	Store *store.Store
	// Hooks runs plugins for discrete actions. Optional.
	Hooks *plugin.Runner
}

// Status is a snapshot of the pipeline.
type Status struct {
	Running      bool      `json:"running"`
	Enabled      bool      `json:"enabled"`
	Pose         string    `json:"pose"`
	Frames       uint64    `json:"frames"`
	Errors       uint64    `json:"errors"`
	LastAction   string    `json:"lastAction,omitempty"`
	LastActionAt time.Time `json:"lastActionAt"`
	SessionID    string    `json:"sessionId,omitempty"`
}

type request int

const (
	requestComet request = iota
	requestReset
)

// App owns the debouncer and dispatcher for one landmark source and scene.
type App struct {
	cfg        Config
	source     LandmarkSource
	controller *scene.Controller
	debouncer  *gesture.Debouncer
	dispatcher *dispatch.Dispatcher
	recorder   *Recorder
	requests   chan request

	mu      sync.RWMutex
	status  Status
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New wires src to ctrl through the classifier, debouncer and dispatcher.
func New(cfg Config, src LandmarkSource, ctrl *scene.Controller) *App {
	if cfg.RenderInterval <= 0 {
		cfg.RenderInterval = loop.FPS(DefaultRenderFPS)
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = InferenceBackoff
	}
	if cfg.SourceName == "" {
		cfg.SourceName = "camera"
	}

	a := &App{
		cfg:        cfg,
		source:     src,
		controller: ctrl,
		debouncer:  gesture.NewDebouncer(),
		dispatcher: dispatch.New(Bindings(ctrl)),
		requests:   make(chan request, requestQueueSize),
	}

	enabled := cfg.Enabled
	if cfg.Store != nil {
		enabled = cfg.Store.Settings().Bool(store.SettingEnabled, cfg.Enabled)
		a.dispatcher.Observe(a.record)
	}
	a.status.Enabled = enabled
	a.status.Pose = pose.None.String()

	a.dispatcher.Observe(a.noteAction)
	if cfg.Hooks != nil {
		a.dispatcher.Observe(cfg.Hooks.Handle)
	}
	return a
}

// Controller returns the scene controller.
func (a *App) Controller() *scene.Controller {
	return a.controller
}

// Observe registers fn to see every dispatched event after its handler.
func (a *App) Observe(fn dispatch.Observer) {
	a.dispatcher.Observe(fn)
}

// Run starts the inference and render loops and blocks until ctx is done,
// Stop is called, or the source fails permanently. A *capture.CameraAccessError
// from the source is returned; a normal shutdown returns nil.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.cancel = cancel
	a.done = make(chan struct{})
	a.status.Running = true
	done := a.done
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.status.Running = false
		a.cancel = nil
		a.mu.Unlock()
		close(done)
	}()

	recorder := a.startSession()
	defer a.endSession()

	log.Printf("Pipeline started (render every %v)", a.cfg.RenderInterval)
	defer log.Println("Pipeline stopped")

	loops, loopCtx := errgroup.WithContext(ctx)
	loops.Go(func() error { return a.inferenceLoop(loopCtx) })
	loops.Go(func() error { return loop.Every(loopCtx, a.cfg.RenderInterval, a.controller.Tick) })

	var recorderDone chan struct{}
	if recorder != nil {
		recorderDone = make(chan struct{})
		go func() {
			defer close(recorderDone)
			recorder.Run()
		}()
	}

	err := loops.Wait()
	if recorder != nil {
		recorder.Close()
		<-recorderDone
		a.mu.Lock()
		a.recorder = nil
		a.mu.Unlock()
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Stop cancels a running Run and waits for it to return.
func (a *App) Stop() {
	a.mu.RLock()
	cancel, done := a.cancel, a.done
	a.mu.RUnlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (a *App) inferenceLoop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.drainRequests()

		hand, err := a.source.Next(ctx)

		// Results that arrive after stop are discarded.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			var access *capture.CameraAccessError
			switch {
			case errors.As(err, &access):
				log.Printf("Camera access denied: %v", err)
				return err
			case errors.Is(err, io.EOF):
				log.Println("Landmark source exhausted")
				return io.EOF
			}

			a.mu.Lock()
			a.status.Errors++
			a.mu.Unlock()
			log.Printf("Landmark source error: %v", err)

			t := time.NewTimer(a.cfg.Backoff)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
			continue
		}

		a.processFrame(hand)
	}
}

// processFrame classifies one frame and dispatches whatever the debouncer emits.
func (a *App) processFrame(hand *landmark.HandLandmarks) {
	a.mu.RLock()
	enabled := a.status.Enabled
	a.mu.RUnlock()

	if !enabled {
		hand = nil
	}
	label := pose.Classify(hand)
	events := a.debouncer.Update(label, hand)

	a.mu.Lock()
	a.status.Pose = label.String()
	a.status.Frames++
	a.mu.Unlock()

	a.dispatcher.DispatchAll(events)
}

func (a *App) drainRequests() {
	for {
		select {
		case r := <-a.requests:
			switch r {
			case requestComet:
				a.dispatcher.DispatchAll(a.debouncer.RequestComet())
			case requestReset:
				a.debouncer.Reset()
				a.dispatcher.Dispatch(gesture.Event{Action: gesture.ActionReset, Pose: pose.None})
			}
		default:
			return
		}
	}
}

func (a *App) enqueue(r request) bool {
	select {
	case a.requests <- r:
		return true
	default:
		return false
	}
}

// RequestComet asks for a comet on the next frame. The comet cooldown still
// applies. It returns false when the request queue is full.
func (a *App) RequestComet() bool {
	return a.enqueue(requestComet)
}

// RequestReset clears gesture state and returns the scene to free orbit on
// the next frame. It returns false when the request queue is full.
func (a *App) RequestReset() bool {
	return a.enqueue(requestReset)
}

// SetEnabled turns gesture recognition on or off. While off, frames are still
// read but treated as having no hand. The choice is persisted when a store is set.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.status.Enabled != enabled
	a.status.Enabled = enabled
	a.mu.Unlock()

	if !changed {
		return
	}
	log.Printf("Gesture recognition enabled=%v", enabled)
	if a.cfg.Store != nil {
		if err := a.cfg.Store.Settings().SetBool(store.SettingEnabled, enabled); err != nil {
			log.Printf("Failed to save enabled setting: %v", err)
		}
	}
}

// IsEnabled reports whether gesture recognition is on.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status.Enabled
}

// Status returns a snapshot of the pipeline.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

func (a *App) noteAction(ev gesture.Event) {
	now := time.Now()
	a.mu.Lock()
	a.status.LastAction = ev.Action.String()
	a.status.LastActionAt = now
	a.mu.Unlock()

	if !ev.Action.Continuous() {
		log.Printf("Action %s (pose %s)", ev, ev.Pose)
	}
}

func (a *App) record(ev gesture.Event) {
	a.mu.RLock()
	r := a.recorder
	a.mu.RUnlock()
	if r != nil {
		r.Observe(ev)
	}
}

// startSession opens a session row and a recorder for it. It returns nil when
// there is no store or the session could not be created.
func (a *App) startSession() *Recorder {
	a.mu.Lock()
	a.status.Frames = 0
	a.status.SessionID = ""
	a.mu.Unlock()

	if a.cfg.Store == nil {
		return nil
	}
	sess, err := a.cfg.Store.Sessions().Start(a.cfg.SourceName)
	if err != nil {
		log.Printf("Failed to start session: %v", err)
		return nil
	}
	r := NewRecorder(a.cfg.Store.Events(), 0)
	r.SetSession(sess.ID)

	a.mu.Lock()
	a.status.SessionID = sess.ID
	a.recorder = r
	a.mu.Unlock()
	return r
}

func (a *App) endSession() {
	if a.cfg.Store == nil {
		return
	}
	st := a.Status()
	if st.SessionID == "" {
		return
	}
	if err := a.cfg.Store.Sessions().End(st.SessionID, int64(st.Frames)); err != nil {
		log.Printf("Failed to end session: %v", err)
	}
}
