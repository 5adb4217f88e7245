package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector/landmark"
	"github.com/ayusman/mudra/internal/pose"
)

// Debounce constants. Cooldowns count landmark frames, not wall time; at the
// nominal ~30 fps a swipe cooldown is ~0.5s and a toggle cooldown ~1s.
const (
	// SwipeThreshold is the minimum palm-center x movement between two PALM frames.
	SwipeThreshold = 0.04
	// SwipeCooldown is the number of frames a swipe blocks further swipes.
	SwipeCooldown = 15
	// ToggleCooldown is shared by PEACE, ROCK and OK.
	ToggleCooldown = 30
	// CometCooldown gates externally requested comets.
	CometCooldown = 60

	// DragGain scales palm-center movement into drag deltas.
	DragGain = 4.0

	// Pinch distances mapped onto the zoom range.
	PinchMin = 0.02
	PinchMax = 0.25
	// Zoom scale range produced from the normalized pinch.
	ZoomScaleMin  = 0.5
	ZoomScaleSpan = 2.5
)

// Cooldown categories.
const (
	CategorySwipe  = "swipe"
	CategoryToggle = "toggle"
	CategoryComet  = "comet"
)

// Cooldowns holds the frames remaining per category. Values never go negative.
type Cooldowns struct {
	Swipe  int `json:"swipe"`
	Toggle int `json:"toggle"`
	Comet  int `json:"comet"`
}

// tick decrements every counter by one, stopping at zero.
func (c *Cooldowns) tick() {
	for _, v := range []*int{&c.Swipe, &c.Toggle, &c.Comet} {
		if *v > 0 {
			*v--
		}
	}
}

// Get returns the counter for a category name, or 0 for an unknown one.
func (c Cooldowns) Get(category string) int {
	switch category {
	case CategorySwipe:
		return c.Swipe
	case CategoryToggle:
		return c.Toggle
	case CategoryComet:
		return c.Comet
	}
	return 0
}

// Debouncer converts a pose stream into actions. It owns its cooldown
// counters and tracking anchors; one instance serves one session and must
// only be driven from a single goroutine.
type Debouncer struct {
	cooldowns   Cooldowns
	dragAnchor  *landmark.Point3D
	swipeAnchor *landmark.Point3D
}

// NewDebouncer creates a Debouncer with all cooldowns at zero and no anchors.
func NewDebouncer() *Debouncer {
	return &Debouncer{}
}

// Cooldowns returns a copy of the current counters.
func (d *Debouncer) Cooldowns() Cooldowns {
	return d.cooldowns
}

// Tracking reports whether a drag or swipe anchor is currently held.
func (d *Debouncer) Tracking() (drag, swipe bool) {
	return d.dragAnchor != nil, d.swipeAnchor != nil
}

// Reset clears all counters and anchors.
func (d *Debouncer) Reset() {
	*d = Debouncer{}
}

// Update consumes one frame. hand may be nil only when label is NONE.
// Cooldowns are decremented before the label is acted on, whatever it is.
func (d *Debouncer) Update(label pose.Label, hand *landmark.HandLandmarks) []Event {
	d.cooldowns.tick()

	if hand == nil {
		label = pose.None
	}

	// Anchors are only kept while their own pose is held.
	if label != pose.Palm {
		d.swipeAnchor = nil
	}
	if label != pose.Fist {
		d.dragAnchor = nil
	}

	switch label {
	case pose.Palm:
		return d.swipe(hand.Palm())
	case pose.Fist:
		return d.drag(hand.Palm())
	case pose.ThumbsUp:
		return []Event{{Action: ActionSpeedUp, Pose: label}}
	case pose.ThumbsDown:
		return []Event{{Action: ActionRewind, Pose: label}}
	case pose.Peace:
		return d.toggle(ActionToggleHelp, label)
	case pose.Rock:
		return d.toggle(ActionReset, label)
	case pose.OK:
		return d.toggle(ActionLock, label)
	case pose.Pinch:
		return []Event{{Action: ActionZoom, Pose: label, X: ZoomScale(pose.PinchDistance(hand))}}
	default:
		return nil
	}
}

// RequestComet fires onComet unless the comet cooldown is still running.
// It does not advance the frame counters.
func (d *Debouncer) RequestComet() []Event {
	if d.cooldowns.Comet > 0 {
		return nil
	}
	d.cooldowns.Comet = CometCooldown
	return []Event{{Action: ActionComet}}
}

func (d *Debouncer) swipe(palm landmark.Point3D) []Event {
	var events []Event
	if d.swipeAnchor != nil && d.cooldowns.Swipe == 0 {
		dx := palm.X - d.swipeAnchor.X
		switch {
		case dx > SwipeThreshold:
			events = []Event{{Action: ActionSwipeRight, Pose: pose.Palm}}
		case dx < -SwipeThreshold:
			events = []Event{{Action: ActionSwipeLeft, Pose: pose.Palm}}
		}
		if events != nil {
			d.cooldowns.Swipe = SwipeCooldown
		}
	}

	d.swipeAnchor = &palm
	return events
}

func (d *Debouncer) drag(palm landmark.Point3D) []Event {
	var events []Event
	if d.dragAnchor != nil {
		delta := palm.Sub(*d.dragAnchor)
		events = []Event{{
			Action: ActionDrag,
			Pose:   pose.Fist,
			X:      delta.X * DragGain,
			Y:      delta.Y * DragGain,
		}}
	}

	d.dragAnchor = &palm
	return events
}

func (d *Debouncer) toggle(action Action, label pose.Label) []Event {
	if d.cooldowns.Toggle > 0 {
		return nil
	}
	d.cooldowns.Toggle = ToggleCooldown
	return []Event{{Action: action, Pose: label}}
}

// ZoomScale maps a pinch distance onto [ZoomScaleMin, ZoomScaleMin+ZoomScaleSpan].
// The mapping is monotonic non-decreasing in d.
func ZoomScale(d float64) float64 {
	norm := (d - PinchMin) / (PinchMax - PinchMin)
	norm = math.Max(0, math.Min(1, norm))
	return ZoomScaleMin + norm*ZoomScaleSpan
}
