package scene

// Comet lifecycle constants.
const (
	CometLife     = 200
	CometTrailLen = 20
	CometStartZ   = -100
)

// Comet is a transient entity that flies through the scene and expires.
type Comet struct {
	ID       int    `json:"id"`
	Position Vec3   `json:"position"`
	Velocity Vec3   `json:"velocity"`
	Life     int    `json:"life"`
	Trail    []Vec3 `json:"trail"`
}

// step advances the comet one tick and reports whether it is still alive.
func (c *Comet) step() bool {
	c.Position = c.Position.Add(c.Velocity)
	c.Trail = append(c.Trail, c.Position)
	if len(c.Trail) > CometTrailLen {
		c.Trail = append(c.Trail[:0], c.Trail[1:]...)
	}
	c.Life--
	return c.Life > 0
}

func (c *Comet) clone() Comet {
	out := *c
	out.Trail = append([]Vec3(nil), c.Trail...)
	return out
}
