package capture

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/detector/landmark"
)

// ScriptedSource replays a fixed landmark sequence. A nil entry is a frame
// with no hand.
type ScriptedSource struct {
	mu       sync.Mutex
	frames   []*landmark.HandLandmarks
	index    int
	loop     bool
	interval time.Duration
	errs     map[int]error
}

// NewScriptedSource replays frames once, or forever when loop is set.
func NewScriptedSource(frames []*landmark.HandLandmarks, loop bool) *ScriptedSource {
	return &ScriptedSource{frames: frames, loop: loop}
}

// SetInterval paces Next to one frame per d. Zero disables pacing.
func (s *ScriptedSource) SetInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = d
}

// FailAt makes the frame at index i return err instead of a hand. The
// position still advances.
func (s *ScriptedSource) FailAt(i int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errs == nil {
		s.errs = make(map[int]error)
	}
	s.errs[i] = err
}

// Next returns the next scripted hand. It returns io.EOF once a non-looping
// script is exhausted.
func (s *ScriptedSource) Next(ctx context.Context) (*landmark.HandLandmarks, error) {
	s.mu.Lock()
	interval := s.interval
	s.mu.Unlock()

	if interval > 0 {
		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.frames) {
		if !s.loop || len(s.frames) == 0 {
			return nil, io.EOF
		}
		s.index = 0
	}
	i := s.index
	s.index++

	if err, ok := s.errs[i]; ok {
		return nil, err
	}
	if s.frames[i] == nil {
		return nil, nil
	}
	hand := *s.frames[i]
	return &hand, nil
}

// Position returns the index of the next frame.
func (s *ScriptedSource) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Hold repeats hand n times.
func Hold(hand landmark.HandLandmarks, n int) []*landmark.HandLandmarks {
	out := make([]*landmark.HandLandmarks, n)
	for i := range out {
		h := hand
		out[i] = &h
	}
	return out
}

// Sweep moves hand from its position by (dx, dy) in total over n frames.
func Sweep(hand landmark.HandLandmarks, dx, dy float64, n int) []*landmark.HandLandmarks {
	out := make([]*landmark.HandLandmarks, n)
	for i := range out {
		f := float64(i+1) / float64(n)
		h := hand.Translated(dx*f, dy*f)
		out[i] = &h
	}
	return out
}

// Empty returns n frames with no hand.
func Empty(n int) []*landmark.HandLandmarks {
	return make([]*landmark.HandLandmarks, n)
}

// DemoScript walks through every pose once, with empty frames between
// gestures so cooldowns can expire.
func DemoScript() []*landmark.HandLandmarks {
	var s []*landmark.HandLandmarks
	add := func(frames []*landmark.HandLandmarks) { s = append(s, frames...) }

	add(Empty(15))
	add(Hold(landmark.OpenPalmLandmarks(), 1))
	add(Sweep(landmark.OpenPalmLandmarks(), 0.3, 0, 6))
	add(Empty(20))
	add(Hold(landmark.OpenPalmLandmarks(), 1))
	add(Sweep(landmark.OpenPalmLandmarks(), -0.3, 0, 6))
	add(Empty(20))
	add(Hold(landmark.FistLandmarks(), 1))
	add(Sweep(landmark.FistLandmarks(), 0.1, 0.05, 30))
	add(Empty(10))
	for i := 0; i <= 20; i++ {
		add(Hold(landmark.PinchLandmarks(0.02+0.012*float64(i)), 2))
	}
	add(Empty(10))
	add(Hold(landmark.ThumbsUpLandmarks(), 30))
	add(Hold(landmark.ThumbsDownLandmarks(), 15))
	add(Hold(landmark.FistLandmarks(), 5))
	add(Empty(10))
	add(Hold(landmark.RockLandmarks(), 20))
	add(Empty(10))
	add(Hold(landmark.PeaceLandmarks(), 5))
	add(Empty(40))
	add(Hold(landmark.PeaceLandmarks(), 5))
	add(Empty(40))
	add(Hold(landmark.OKLandmarks(), 5))
	add(Empty(40))
	return s
}
