package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// DefaultRecorderBuffer is the number of events that may wait for the disk.
const DefaultRecorderBuffer = 64

// EventSink persists recorded events.
type EventSink interface {
	Create(e *store.Event) error
}

// Recorder writes discrete actions to an EventSink off the inference path.
// When the buffer is full new events are dropped.
type Recorder struct {
	sink    EventSink
	events  chan store.Event
	mu      sync.RWMutex
	session string
	closed  bool
	dropped uint64
}

// NewRecorder creates a recorder with room for size pending events.
func NewRecorder(sink EventSink, size int) *Recorder {
	if size <= 0 {
		size = DefaultRecorderBuffer
	}
	return &Recorder{sink: sink, events: make(chan store.Event, size)}
}

// SetSession tags subsequent events with id.
func (r *Recorder) SetSession(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = id
}

// Observe queues ev if it is a discrete action. It never blocks.
func (r *Recorder) Observe(ev gesture.Event) {
	if ev.Action.Continuous() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.session == "" {
		return
	}

	e := store.Event{
		SessionID: r.session,
		Action:    ev.Action.String(),
		Pose:      ev.Pose.String(),
		X:         ev.X,
		Y:         ev.Y,
		CreatedAt: time.Now().UTC(),
	}
	select {
	case r.events <- e:
	default:
		r.dropped++
		log.Printf("Event buffer full, dropped %s", ev.Action)
	}
}

// Dropped returns the number of events lost to a full buffer.
func (r *Recorder) Dropped() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dropped
}

// Run writes queued events until Close is called and the buffer is drained.
func (r *Recorder) Run() {
	for e := range r.events {
		if err := r.sink.Create(&e); err != nil {
			log.Printf("Failed to record event %s: %v", e.Action, err)
		}
	}
}

// Close stops accepting events. Run returns once the queue is empty.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.events)
}
