// Package loop provides fixed-rate scheduling for the render and stream loops.
package loop

import (
	"context"
	"sync"
	"time"
)

// Ticker calls a function at a fixed interval until its context is done.
// The interval can be changed while running.
type Ticker struct {
	mu       sync.Mutex
	interval time.Duration
	resetCh  chan time.Duration
	fn       func()
}

// NewTicker creates a ticker that calls fn every interval.
// Non-positive intervals are replaced by one second.
func NewTicker(interval time.Duration, fn func()) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{
		interval: interval,
		resetCh:  make(chan time.Duration, 1),
		fn:       fn,
	}
}

// Interval returns the current interval.
func (t *Ticker) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

// Reset changes the interval. The next call happens one new interval after
// the change. Non-positive intervals are ignored.
func (t *Ticker) Reset(interval time.Duration) {
	if interval <= 0 {
		return
	}
	t.mu.Lock()
	t.interval = interval
	t.mu.Unlock()

	// Keep only the latest pending change.
	select {
	case <-t.resetCh:
	default:
	}
	select {
	case t.resetCh <- interval:
	default:
	}
}

// Run blocks calling fn on every tick and returns ctx.Err() once ctx is done.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d := <-t.resetCh:
			ticker.Reset(d)
		case <-ticker.C:
			// A tick and cancellation can be ready together.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			t.fn()
		}
	}
}

// Every calls fn every interval until ctx is done.
func Every(ctx context.Context, interval time.Duration, fn func()) error {
	return NewTicker(interval, fn).Run(ctx)
}

// FPS converts a frame rate to a tick interval. Non-positive rates yield one second.
func FPS(rate int) time.Duration {
	if rate <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(rate)
}
