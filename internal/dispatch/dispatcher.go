// Package dispatch routes debounced gesture events to caller-owned callbacks.
package dispatch

import (
	"sync"

	"github.com/ayusman/mudra/internal/gesture"
)

// Handlers is the fixed callback table. Any field may be nil; a nil handler
// turns its action into a no-op.
type Handlers struct {
	OnZoom       func(scale float64)
	OnDrag       func(dx, dy float64)
	OnReset      func()
	OnSpeedUp    func()
	OnRewind     func()
	OnToggleHelp func()
	OnLock       func()
	OnComet      func()
	OnSwipeLeft  func()
	OnSwipeRight func()
}

// Observer is notified of every routed event after its handler ran.
type Observer func(gesture.Event)

// Dispatcher routes events through a Handlers table.
type Dispatcher struct {
	handlers  Handlers
	mu        sync.RWMutex
	observers []Observer
}

// New creates a Dispatcher for the given handler table.
func New(h Handlers) *Dispatcher {
	return &Dispatcher{handlers: h}
}

// Observe registers an observer. Observers run in registration order.
func (d *Dispatcher) Observe(fn Observer) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, fn)
}

// Dispatch routes a single event. Unknown actions are ignored.
func (d *Dispatcher) Dispatch(ev gesture.Event) {
	if !ev.Action.Valid() {
		return
	}

	h := d.handlers
	switch ev.Action {
	case gesture.ActionZoom:
		call1(h.OnZoom, ev.X)
	case gesture.ActionDrag:
		if h.OnDrag != nil {
			h.OnDrag(ev.X, ev.Y)
		}
	case gesture.ActionReset:
		call(h.OnReset)
	case gesture.ActionSpeedUp:
		call(h.OnSpeedUp)
	case gesture.ActionRewind:
		call(h.OnRewind)
	case gesture.ActionToggleHelp:
		call(h.OnToggleHelp)
	case gesture.ActionLock:
		call(h.OnLock)
	case gesture.ActionComet:
		call(h.OnComet)
	case gesture.ActionSwipeLeft:
		call(h.OnSwipeLeft)
	case gesture.ActionSwipeRight:
		call(h.OnSwipeRight)
	}

	d.mu.RLock()
	observers := d.observers
	d.mu.RUnlock()
	for _, fn := range observers {
		fn(ev)
	}
}

// DispatchAll routes events in order.
func (d *Dispatcher) DispatchAll(events []gesture.Event) {
	for _, ev := range events {
		d.Dispatch(ev)
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func call1(fn func(float64), v float64) {
	if fn != nil {
		fn(v)
	}
}
