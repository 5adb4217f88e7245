package landmark

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point3D
		want float64
	}{
		{"same point", Point3D{X: 1, Y: 2, Z: 3}, Point3D{X: 1, Y: 2, Z: 3}, 0},
		{"3-4-5 triangle", Point3D{}, Point3D{X: 3, Y: 4}, 5},
		{"depth only", Point3D{Z: -1}, Point3D{Z: 1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); math.Abs(got-tt.want) > epsilon {
				t.Errorf("Distance() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestHandLandmarks_Valid(t *testing.T) {
	t.Run("fixture is valid", func(t *testing.T) {
		h := OpenPalmLandmarks()
		if !h.Valid() {
			t.Error("expected open palm fixture to be valid")
		}
	})

	t.Run("NaN coordinate is invalid", func(t *testing.T) {
		h := OpenPalmLandmarks()
		h.Points[RingTip].Y = math.NaN()
		if h.Valid() {
			t.Error("expected NaN landmark to be invalid")
		}
	})

	t.Run("infinite coordinate is invalid", func(t *testing.T) {
		h := OpenPalmLandmarks()
		h.Points[Wrist].Z = math.Inf(1)
		if h.Valid() {
			t.Error("expected infinite landmark to be invalid")
		}
	})

	t.Run("nil hand is invalid", func(t *testing.T) {
		var h *HandLandmarks
		if h.Valid() {
			t.Error("expected nil hand to be invalid")
		}
	})
}

func TestFirst(t *testing.T) {
	if First(nil) != nil {
		t.Error("expected nil for no hands")
	}

	palm := OpenPalmLandmarks()
	fist := FistLandmarks()
	hands := []HandLandmarks{palm, fist}

	got := First(hands)
	if got == nil {
		t.Fatal("expected first hand, got nil")
	}
	if got.Points != palm.Points {
		t.Error("expected the first detected hand to be tracked")
	}

	// The returned hand must not alias the input slice.
	got.Points[Wrist].X = 42
	if hands[0].Points[Wrist].X == 42 {
		t.Error("First should return a copy")
	}
}

func TestHandLandmarks_Translated(t *testing.T) {
	h := FistLandmarks()
	moved := h.Translated(0.1, -0.2)

	for i := range h.Points {
		if math.Abs(moved.Points[i].X-h.Points[i].X-0.1) > epsilon {
			t.Errorf("point %d: X not shifted by 0.1", i)
		}
		if math.Abs(moved.Points[i].Y-h.Points[i].Y+0.2) > epsilon {
			t.Errorf("point %d: Y not shifted by -0.2", i)
		}
		if moved.Points[i].Z != h.Points[i].Z {
			t.Errorf("point %d: Z should be unchanged", i)
		}
	}

	if moved.Palm() == h.Palm() {
		t.Error("palm center should move with the hand")
	}
}

func TestFixtures_FingerGeometry(t *testing.T) {
	extended := func(h HandLandmarks, tip int) bool {
		return Distance(h.Points[tip], h.Points[Wrist]) >= Distance(h.Points[tip-2], h.Points[Wrist])
	}
	tips := []int{IndexTip, MiddleTip, RingTip, PinkyTip}

	tests := []struct {
		name string
		hand HandLandmarks
		want [4]bool
	}{
		{"open palm", OpenPalmLandmarks(), [4]bool{true, true, true, true}},
		{"fist", FistLandmarks(), [4]bool{}},
		{"thumbs up", ThumbsUpLandmarks(), [4]bool{}},
		{"thumbs down", ThumbsDownLandmarks(), [4]bool{}},
		{"rock", RockLandmarks(), [4]bool{true, false, false, true}},
		{"peace", PeaceLandmarks(), [4]bool{true, true, false, false}},
		{"ok", OKLandmarks(), [4]bool{false, true, true, true}},
		{"pinch", PinchLandmarks(0.1), [4]bool{true, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, tip := range tips {
				if got := extended(tt.hand, tip); got != tt.want[i] {
					t.Errorf("finger %d extended = %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestPinchLandmarks_Gap(t *testing.T) {
	for _, gap := range []float64{0.01, 0.1, 0.3} {
		h := PinchLandmarks(gap)
		if d := Distance(h.Points[ThumbTip], h.Points[IndexTip]); math.Abs(d-gap) > epsilon {
			t.Errorf("PinchLandmarks(%v) pinch distance = %f", gap, d)
		}
	}
}
