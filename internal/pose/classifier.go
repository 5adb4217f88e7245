// Package pose classifies a single hand's landmarks into a discrete pose label.
package pose

import (
	"github.com/ayusman/mudra/internal/detector/landmark"
)

// Classification thresholds in normalized image units.
const (
	// ThumbVerticalMargin is how far the thumb tip must sit above or below the
	// thumb IP joint for a fist to read as thumbs up or down.
	ThumbVerticalMargin = 0.05
	// OKPinchThreshold is the maximum thumb-to-index distance for an OK sign.
	OKPinchThreshold = 0.05
)

// Finger identifies one of the four non-thumb fingers.
type Finger int

const (
	Index Finger = iota
	Middle
	Ring
	Pinky
)

var fingerTips = [4]int{landmark.IndexTip, landmark.MiddleTip, landmark.RingTip, landmark.PinkyTip}

// Fingers reports which fingers are extended.
type Fingers struct {
	Thumb bool
	Four  [4]bool // index, middle, ring, pinky
}

// Count returns how many of the four non-thumb fingers are extended.
func (f Fingers) Count() int {
	n := 0
	for _, ext := range f.Four {
		if ext {
			n++
		}
	}
	return n
}

// only reports whether exactly the given fingers are extended.
func (f Fingers) only(fingers ...Finger) bool {
	var want [4]bool
	for _, fg := range fingers {
		want[fg] = true
	}
	return f.Four == want
}

// isExtended compares the tip and the joint two below it by their distance
// from the wrist. A finger curled into the palm brings its tip closer.
func isExtended(h *landmark.HandLandmarks, tip int) bool {
	wrist := h.Points[landmark.Wrist]
	return landmark.Distance(h.Points[tip], wrist) >= landmark.Distance(h.Points[tip-2], wrist)
}

// Extension computes the finger-extension report for a hand.
// The thumb entry uses the same test but is unreliable and not used for
// PALM/FIST detection.
func Extension(h *landmark.HandLandmarks) Fingers {
	var f Fingers
	f.Thumb = isExtended(h, landmark.ThumbTip)
	for i, tip := range fingerTips {
		f.Four[i] = isExtended(h, tip)
	}
	return f
}

// PinchDistance is the Euclidean distance between the thumb tip and index tip.
func PinchDistance(h *landmark.HandLandmarks) float64 {
	return landmark.Distance(h.Points[landmark.ThumbTip], h.Points[landmark.IndexTip])
}

// Classify maps a hand to a pose label. It never fails: a nil hand is NONE
// and anything that matches no rule (including non-finite input) is UNKNOWN.
//
// Rules are checked in priority order and the first match wins:
// PALM, FIST family, ROCK, PEACE, OK, PINCH.
func Classify(h *landmark.HandLandmarks) Label {
	if h == nil {
		return None
	}
	if !h.Valid() {
		return Unknown
	}

	f := Extension(h)

	switch f.Count() {
	case 4:
		return Palm
	case 0:
		return classifyFist(h)
	}

	if f.only(Index, Pinky) {
		return Rock
	}
	if f.only(Index, Middle) {
		return Peace
	}
	if PinchDistance(h) < OKPinchThreshold && (f.Four[Middle] || f.Four[Ring] || f.Four[Pinky]) {
		return OK
	}
	if f.only(Index) {
		return Pinch
	}
	return Unknown
}

// classifyFist splits a closed hand by where the thumb points.
// Image y grows downward, so a smaller y is higher up.
func classifyFist(h *landmark.HandLandmarks) Label {
	tip := h.Points[landmark.ThumbTip]
	ip := h.Points[landmark.ThumbIP]

	switch {
	case tip.Y < ip.Y-ThumbVerticalMargin:
		return ThumbsUp
	case tip.Y > ip.Y+ThumbVerticalMargin:
		return ThumbsDown
	default:
		return Fist
	}
}
