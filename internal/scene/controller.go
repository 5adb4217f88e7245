// Package scene owns the orbit viewer's control state and eases it every tick.
package scene

import (
	"math"
	"math/rand/v2"
	"sync"
)

// Control constants.
const (
	DefaultZoom      = 40.0
	MinZoom          = 10.0
	MaxZoom          = 120.0
	DefaultTimeScale = 1.0
	// Damping is the fraction of the remaining distance covered per tick.
	Damping = 0.05
	// DragSensitivity converts drag deltas into radians of group rotation.
	DragSensitivity = 0.02
	// DefaultLockIndex is the body locked onto when nothing is selected.
	DefaultLockIndex = 2
)

// Camera offsets from the followed body, before the size term.
var (
	lockedOffset   = Vec3{Y: 5, Z: 10}
	selectedOffset = Vec3{Y: 2, Z: 8}
)

// Camera is the eased viewpoint.
type Camera struct {
	Position Vec3 `json:"position"`
	LookAt   Vec3 `json:"lookAt"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source used for comet spawns.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

// Controller holds target state written by gesture actions and current state
// advanced by Tick. All methods are safe for concurrent use; the inference
// and render loops each take the lock for the duration of one call.
type Controller struct {
	mu sync.Mutex

	bodies []Body
	comets []*Comet
	rng    *rand.Rand
	nextID int

	targetRotX, targetRotY   float64
	currentRotX, currentRotY float64
	targetZoom, currentZoom  float64
	timeScale                float64

	paused      bool
	locked      bool
	lockedIndex int
	activeIndex int
	helpVisible bool

	camera Camera
	ticks  uint64
}

// NewController creates a controller in FreeOrbit mode over the given bodies.
// The bodies slice is copied.
func NewController(bodies []Body, opts ...Option) *Controller {
	c := &Controller{
		bodies:      cloneBodies(bodies),
		targetZoom:  DefaultZoom,
		currentZoom: DefaultZoom,
		timeScale:   DefaultTimeScale,
		lockedIndex: -1,
		activeIndex: -1,
		camera:      Camera{Position: Vec3{Z: DefaultZoom}},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// Mode returns the active camera mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode()
}

func (c *Controller) mode() Mode {
	switch {
	case c.locked:
		return ModeLocked
	case c.activeIndex >= 0:
		return ModeSelected
	default:
		return ModeFreeOrbit
	}
}

// SelectNextEntity advances the selection, wrapping around, and pauses orbits.
func (c *Controller) SelectNextEntity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectStep(1)
}

// SelectPreviousEntity retreats the selection, wrapping around, and pauses orbits.
func (c *Controller) SelectPreviousEntity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectStep(-1)
}

func (c *Controller) selectStep(dir int) {
	n := len(c.bodies)
	if n == 0 {
		return
	}
	c.locked = false
	c.lockedIndex = -1

	switch {
	case c.activeIndex < 0 && dir > 0:
		c.activeIndex = 0
	case c.activeIndex < 0:
		c.activeIndex = n - 1
	default:
		c.activeIndex = ((c.activeIndex+dir)%n + n) % n
	}
	c.paused = true
}

// ToggleLock locks the camera onto the selected body, or onto the default
// body when nothing is selected. Called while locked, it releases the lock and
// leaves the selection as it was.
func (c *Controller) ToggleLock() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locked {
		c.locked = false
		c.lockedIndex = -1
		return
	}
	if len(c.bodies) == 0 {
		return
	}

	idx := c.activeIndex
	if idx < 0 {
		idx = DefaultLockIndex
		if idx >= len(c.bodies) {
			idx = len(c.bodies) - 1
		}
	}
	c.locked = true
	c.lockedIndex = idx
	c.activeIndex = idx
	c.paused = true
}

// ResumeOrbit returns to FreeOrbit and resets every target to its default.
func (c *Controller) ResumeOrbit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.paused = false
	c.locked = false
	c.lockedIndex = -1
	c.timeScale = DefaultTimeScale
	c.activeIndex = -1
	c.targetRotX = 0
	c.targetRotY = 0
	c.targetZoom = DefaultZoom
}

// HandleDrag rotates the orbit group target. Ignored while locked.
func (c *Controller) HandleDrag(dx, dy float64) {
	if math.IsNaN(dx) || math.IsNaN(dy) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locked {
		return
	}
	c.targetRotY -= dx * DragSensitivity
	c.targetRotX -= dy * DragSensitivity
}

// SetZoom sets the camera distance target to DefaultZoom/scale, clamped to
// [MinZoom, MaxZoom]. Non-positive scales are ignored.
func (c *Controller) SetZoom(scale float64) {
	if !(scale > 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.targetZoom = clamp(DefaultZoom/scale, MinZoom, MaxZoom)
}

// SetTimeScale stores the orbit speed multiplier applied from the next tick.
func (c *Controller) SetTimeScale(scale float64) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeScale = scale
}

// ToggleHelp flips the help overlay flag.
func (c *Controller) ToggleHelp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.helpVisible = !c.helpVisible
}

// SpawnComet adds a comet at a random point on the far plane with a random
// velocity heading into the scene, and returns its ID.
func (c *Controller) SpawnComet() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos := Vec3{
		X: c.rng.Float64()*100 - 50,
		Y: c.rng.Float64()*50 - 25,
		Z: CometStartZ,
	}
	vel := Vec3{
		X: c.rng.Float64()*0.5 - 0.25,
		Y: c.rng.Float64()*0.2 - 0.1,
		Z: 0.5 + c.rng.Float64()*0.5,
	}
	return c.addComet(pos, vel)
}

// SpawnCometAt adds a comet with an explicit start and velocity.
func (c *Controller) SpawnCometAt(pos, vel Vec3) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addComet(pos, vel)
}

func (c *Controller) addComet(pos, vel Vec3) int {
	c.nextID++
	c.comets = append(c.comets, &Comet{
		ID:       c.nextID,
		Position: pos,
		Velocity: vel,
		Life:     CometLife,
	})
	return c.nextID
}

// Tick advances one render frame: orbits, comets, then the camera.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ticks++

	if !c.paused {
		for i := range c.bodies {
			c.bodies[i].advance(c.timeScale)
		}
	}

	alive := c.comets[:0]
	for _, comet := range c.comets {
		if comet.step() {
			alive = append(alive, comet)
		}
	}
	for i := len(alive); i < len(c.comets); i++ {
		c.comets[i] = nil
	}
	c.comets = alive

	c.currentRotX = ease(c.currentRotX, c.targetRotX)
	c.currentRotY = ease(c.currentRotY, c.targetRotY)
	c.currentZoom = ease(c.currentZoom, c.targetZoom)

	pos, lookAt := c.cameraTarget()
	c.camera.Position = easeVec(c.camera.Position, pos)
	c.camera.LookAt = easeVec(c.camera.LookAt, lookAt)
}

// cameraTarget returns where the camera should sit and look for the current
// mode. The free-orbit distance is the zoom target, so the camera eases toward
// it in one step and in lockstep with currentZoom.
func (c *Controller) cameraTarget() (pos, lookAt Vec3) {
	switch c.mode() {
	case ModeLocked:
		return c.followTarget(c.lockedIndex, lockedOffset)
	case ModeSelected:
		return c.followTarget(c.activeIndex, selectedOffset)
	default:
		return Vec3{Z: c.targetZoom}, Vec3{}
	}
}

func (c *Controller) followTarget(idx int, offset Vec3) (pos, lookAt Vec3) {
	b := &c.bodies[idx]
	p := worldPosition(b.local(), c.currentRotX, c.currentRotY)
	offset.Z += b.Size * 5
	return p.Add(offset), p
}

// Comets returns copies of the live comets.
func (c *Controller) Comets() []Comet {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Comet, len(c.comets))
	for i, comet := range c.comets {
		out[i] = comet.clone()
	}
	return out
}

// Bodies returns copies of the orbiting bodies.
func (c *Controller) Bodies() []Body {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneBodies(c.bodies)
}

func cloneBodies(bodies []Body) []Body {
	out := make([]Body, len(bodies))
	for i, b := range bodies {
		out[i] = b
		out[i].Moons = append([]Moon(nil), b.Moons...)
	}
	return out
}
