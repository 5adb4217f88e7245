package plugin

import (
	"context"
	"log"
	"sync"

	"github.com/ayusman/mudra/internal/gesture"
)

// HookSource returns the bindings for an action.
type HookSource interface {
	HooksFor(action gesture.Action) ([]Binding, error)
}

// HookSourceFunc adapts a function to HookSource.
type HookSourceFunc func(gesture.Action) ([]Binding, error)

func (f HookSourceFunc) HooksFor(a gesture.Action) ([]Binding, error) { return f(a) }

// StaticHooks is a fixed action to bindings table.
type StaticHooks map[gesture.Action][]Binding

func (h StaticHooks) HooksFor(a gesture.Action) ([]Binding, error) { return h[a], nil }

// Runner runs hook plugins for discrete actions in the background. At most
// maxInFlight plugins run at once; further hooks are dropped.
type Runner struct {
	manager  *Manager
	executor *Executor
	source   HookSource

	ctx    context.Context
	cancel context.CancelFunc
	sem    chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	results []Result
}

// Result is the outcome of one hook run.
type Result struct {
	Binding Binding
	Action  gesture.Action
	Resp    *Response
	Err     error
}

// NewRunner creates a runner. maxInFlight <= 0 means 4.
func NewRunner(m *Manager, e *Executor, src HookSource, maxInFlight int) *Runner {
	if maxInFlight <= 0 {
		maxInFlight = 4
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		manager:  m,
		executor: e,
		source:   src,
		ctx:      ctx,
		cancel:   cancel,
		sem:      make(chan struct{}, maxInFlight),
	}
}

// Handle starts the hooks bound to ev.Action. Continuous actions never run
// hooks. It never blocks on a plugin.
func (r *Runner) Handle(ev gesture.Event) {
	if ev.Action.Continuous() || r.ctx.Err() != nil {
		return
	}

	bindings, err := r.source.HooksFor(ev.Action)
	if err != nil {
		log.Printf("Hook lookup for %s failed: %v", ev.Action, err)
		return
	}

	for _, b := range bindings {
		p, err := r.manager.Resolve(b)
		if err != nil {
			r.record(Result{Binding: b, Action: ev.Action, Err: err})
			log.Printf("Hook %s for %s: %v", b, ev.Action, err)
			continue
		}

		select {
		case r.sem <- struct{}{}:
		default:
			log.Printf("Hook %s for %s dropped: too many running", b, ev.Action)
			continue
		}

		req := &Request{
			Command: b.Command,
			Action:  ev.Action.String(),
			Pose:    ev.Pose.String(),
			X:       ev.X,
			Y:       ev.Y,
			Config:  b.Config,
		}
		r.wg.Add(1)
		go func(b Binding) {
			defer r.wg.Done()
			defer func() { <-r.sem }()

			resp, err := r.executor.Execute(r.ctx, p, req)
			switch {
			case err != nil:
				log.Printf("Hook %s for %s failed: %v", b, ev.Action, err)
			case !resp.Success:
				log.Printf("Hook %s for %s reported: %s", b, ev.Action, resp.Error)
			}
			r.record(Result{Binding: b, Action: ev.Action, Resp: resp, Err: err})
		}(b)
	}
}

const maxResults = 32

func (r *Runner) record(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	if len(r.results) > maxResults {
		r.results = append(r.results[:0], r.results[len(r.results)-maxResults:]...)
	}
}

// Results returns the most recent hook outcomes, oldest first.
func (r *Runner) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Result(nil), r.results...)
}

// Wait blocks until every started hook has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close stops accepting hooks, kills running plugins and waits for them.
func (r *Runner) Close() {
	r.cancel()
	r.wg.Wait()
}
