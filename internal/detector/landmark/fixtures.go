package landmark

// Fixture geometry. The wrist sits at (0.5, 0.8) with the knuckles ~0.13 above
// it. An extended tip is ~0.45 from the wrist; a folded tip tucks back closer
// to the wrist than the joint two below it.
var (
	fixtureWrist = Point3D{X: 0.5, Y: 0.8}
	fixtureMCPs  = [4]Point3D{
		{X: 0.55, Y: 0.68},
		{X: 0.50, Y: 0.68},
		{X: 0.45, Y: 0.68},
		{X: 0.40, Y: 0.70},
	}
	fixtureLean = [4]float64{0.03, 0, -0.03, -0.06}
)

// thumb holds the thumb chain from CMC to tip.
type thumb [4]Point3D

var (
	thumbSide = thumb{
		{X: 0.55, Y: 0.75, Z: 0.02},
		{X: 0.62, Y: 0.70, Z: 0.03},
		{X: 0.68, Y: 0.65, Z: 0.03},
		{X: 0.73, Y: 0.58, Z: 0.03},
	}
	thumbTucked = thumb{
		{X: 0.55, Y: 0.76},
		{X: 0.58, Y: 0.72},
		{X: 0.58, Y: 0.70},
		{X: 0.60, Y: 0.70},
	}
	thumbUp = thumb{
		{X: 0.55, Y: 0.75},
		{X: 0.58, Y: 0.65},
		{X: 0.58, Y: 0.50},
		{X: 0.58, Y: 0.35},
	}
	thumbDown = thumb{
		{X: 0.55, Y: 0.78},
		{X: 0.58, Y: 0.82},
		{X: 0.58, Y: 0.88},
		{X: 0.58, Y: 0.98},
	}
)

// buildHand lays out a right hand with the given non-thumb fingers extended
// (index, middle, ring, pinky) and the given thumb chain.
func buildHand(extended [4]bool, t thumb) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = fixtureWrist
	copy(h.Points[ThumbCMC:ThumbTip+1], t[:])

	for f := 0; f < 4; f++ {
		mcp := fixtureMCPs[f]
		base := IndexMCP + f*4
		h.Points[base] = mcp
		if extended[f] {
			lean := fixtureLean[f]
			h.Points[base+1] = Point3D{X: mcp.X + lean*0.4, Y: 0.55}
			h.Points[base+2] = Point3D{X: mcp.X + lean*0.7, Y: 0.45}
			h.Points[base+3] = Point3D{X: mcp.X + lean, Y: 0.35}
		} else {
			h.Points[base+1] = Point3D{X: mcp.X, Y: 0.66, Z: -0.05}
			h.Points[base+2] = Point3D{X: mcp.X - 0.03, Y: 0.68, Z: -0.04}
			h.Points[base+3] = Point3D{X: mcp.X - 0.01, Y: 0.74, Z: -0.02}
		}
	}
	return h
}

// OpenPalmLandmarks returns a preset hand with all fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return buildHand([4]bool{true, true, true, true}, thumbSide)
}

// FistLandmarks returns a preset closed fist with the thumb tucked level.
func FistLandmarks() HandLandmarks {
	return buildHand([4]bool{}, thumbTucked)
}

// ThumbsUpLandmarks returns a preset fist with the thumb pointing up.
func ThumbsUpLandmarks() HandLandmarks {
	return buildHand([4]bool{}, thumbUp)
}

// ThumbsDownLandmarks returns a preset fist with the thumb pointing down.
func ThumbsDownLandmarks() HandLandmarks {
	return buildHand([4]bool{}, thumbDown)
}

// RockLandmarks returns a preset with index and pinky extended.
func RockLandmarks() HandLandmarks {
	return buildHand([4]bool{true, false, false, true}, thumbTucked)
}

// PeaceLandmarks returns a preset with index and middle extended.
func PeaceLandmarks() HandLandmarks {
	return buildHand([4]bool{true, true, false, false}, thumbTucked)
}

// OKLandmarks returns a preset "OK" sign: index curled onto the thumb tip,
// the other three fingers extended.
func OKLandmarks() HandLandmarks {
	h := buildHand([4]bool{false, true, true, true}, thumb{
		{X: 0.55, Y: 0.75},
		{X: 0.60, Y: 0.72},
		{X: 0.62, Y: 0.68},
		{X: 0.585, Y: 0.715},
	})
	h.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.60}
	h.Points[IndexDIP] = Point3D{X: 0.59, Y: 0.66}
	h.Points[IndexTip] = Point3D{X: 0.57, Y: 0.72}
	return h
}

// PinchLandmarks returns a preset with only the index extended and the thumb
// tip placed gap units to the right of the index tip.
func PinchLandmarks(gap float64) HandLandmarks {
	h := buildHand([4]bool{true, false, false, false}, thumbSide)
	tip := h.Points[IndexTip]
	h.Points[ThumbIP] = Point3D{X: tip.X + gap + 0.05, Y: 0.45}
	h.Points[ThumbTip] = Point3D{X: tip.X + gap, Y: tip.Y}
	return h
}

// Translated returns a copy of h with every landmark shifted by (dx, dy).
func (h HandLandmarks) Translated(dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
