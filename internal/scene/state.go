package scene

import "fmt"

// Mode is the camera mode. Exactly one is active at a time.
type Mode int

const (
	ModeFreeOrbit Mode = iota
	ModeSelected
	ModeLocked
)

func (m Mode) String() string {
	switch m {
	case ModeFreeOrbit:
		return "free-orbit"
	case ModeSelected:
		return "selected"
	case ModeLocked:
		return "locked"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	for _, mode := range []Mode{ModeFreeOrbit, ModeSelected, ModeLocked} {
		if mode.String() == string(text) {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q", text)
}

// BodyState is a rendered snapshot of one body.
type BodyState struct {
	Name     string      `json:"name"`
	Size     float64     `json:"size"`
	Position Vec3        `json:"position"`
	Moons    []MoonState `json:"moons,omitempty"`
}

// MoonState is a rendered snapshot of one moon.
type MoonState struct {
	Name     string  `json:"name"`
	Size     float64 `json:"size"`
	Position Vec3    `json:"position"`
}

// State is a consistent snapshot of the controller for observers.
type State struct {
	Mode            Mode        `json:"mode"`
	TargetRotationX float64     `json:"targetRotationX"`
	TargetRotationY float64     `json:"targetRotationY"`
	RotationX       float64     `json:"rotationX"`
	RotationY       float64     `json:"rotationY"`
	TargetZoom      float64     `json:"targetZoom"`
	Zoom            float64     `json:"zoom"`
	TimeScale       float64     `json:"timeScale"`
	Paused          bool        `json:"paused"`
	Locked          bool        `json:"locked"`
	LockedEntity    *int        `json:"lockedEntity"`
	ActiveEntity    int         `json:"activeEntity"`
	ActiveName      string      `json:"activeName,omitempty"`
	HelpVisible     bool        `json:"helpVisible"`
	Camera          Camera      `json:"camera"`
	Bodies          []BodyState `json:"bodies"`
	Comets          []Comet     `json:"comets"`
	Ticks           uint64      `json:"ticks"`
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Mode:            c.mode(),
		TargetRotationX: c.targetRotX,
		TargetRotationY: c.targetRotY,
		RotationX:       c.currentRotX,
		RotationY:       c.currentRotY,
		TargetZoom:      c.targetZoom,
		Zoom:            c.currentZoom,
		TimeScale:       c.timeScale,
		Paused:          c.paused,
		Locked:          c.locked,
		ActiveEntity:    c.activeIndex,
		HelpVisible:     c.helpVisible,
		Camera:          c.camera,
		Bodies:          make([]BodyState, len(c.bodies)),
		Comets:          make([]Comet, len(c.comets)),
		Ticks:           c.ticks,
	}
	if c.locked {
		idx := c.lockedIndex
		s.LockedEntity = &idx
	}
	if c.activeIndex >= 0 {
		s.ActiveName = c.bodies[c.activeIndex].Name
	}

	for i := range c.bodies {
		b := &c.bodies[i]
		pos := worldPosition(b.local(), c.currentRotX, c.currentRotY)
		bs := BodyState{Name: b.Name, Size: b.Size, Position: pos}
		for j := range b.Moons {
			m := &b.Moons[j]
			bs.Moons = append(bs.Moons, MoonState{
				Name:     m.Name,
				Size:     m.Size,
				Position: worldPosition(b.local().Add(m.offset()), c.currentRotX, c.currentRotY),
			})
		}
		s.Bodies[i] = bs
	}
	for i, comet := range c.comets {
		s.Comets[i] = comet.clone()
	}
	return s
}
