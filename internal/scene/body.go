package scene

import "math"

// Moon orbits its parent body.
type Moon struct {
	Name     string
	Size     float64
	Distance float64
	Speed    float64 // radians per tick at time scale 1
	Angle    float64
}

// Body is an orbiting entity attached to a pivot at the scene origin.
type Body struct {
	Name     string
	Size     float64
	Distance float64
	Speed    float64 // radians per tick at time scale 1
	Angle    float64
	Moons    []Moon
}

// advance moves the pivot and every moon by their speed times scale.
func (b *Body) advance(scale float64) {
	b.Angle += b.Speed * scale
	for i := range b.Moons {
		b.Moons[i].Angle += b.Moons[i].Speed * scale
	}
}

// local returns the body's position in the orbit group's frame.
func (b *Body) local() Vec3 {
	s, c := math.Sincos(b.Angle)
	return Vec3{X: b.Distance * c, Z: -b.Distance * s}
}

// worldPosition applies the orbit group rotation to the local position.
func worldPosition(local Vec3, rotX, rotY float64) Vec3 {
	return local.RotateY(rotY).RotateX(rotX)
}

func (m *Moon) offset() Vec3 {
	s, c := math.Sincos(m.Angle)
	return Vec3{X: m.Distance * c, Z: -m.Distance * s}
}

// DefaultSystem returns the eight-planet system used by the viewer.
// Index 2 is Earth, the default lock-on target.
func DefaultSystem() []Body {
	bodies := []Body{
		{Name: "Mercury", Size: 0.4, Distance: 8, Speed: 0.04},
		{Name: "Venus", Size: 0.9, Distance: 11, Speed: 0.015},
		{Name: "Earth", Size: 1.0, Distance: 15, Speed: 0.01, Moons: []Moon{
			{Name: "Moon", Size: 0.27, Distance: 2, Speed: 0.05},
		}},
		{Name: "Mars", Size: 0.5, Distance: 19, Speed: 0.008, Moons: []Moon{
			{Name: "Phobos", Size: 0.1, Distance: 1, Speed: 0.1},
			{Name: "Deimos", Size: 0.08, Distance: 1.5, Speed: 0.06},
		}},
		{Name: "Jupiter", Size: 3.0, Distance: 26, Speed: 0.002, Moons: []Moon{
			{Name: "Io", Size: 0.3, Distance: 4, Speed: 0.08},
			{Name: "Europa", Size: 0.25, Distance: 5, Speed: 0.06},
			{Name: "Ganymede", Size: 0.4, Distance: 6, Speed: 0.04},
			{Name: "Callisto", Size: 0.35, Distance: 7.5, Speed: 0.02},
		}},
		{Name: "Saturn", Size: 2.5, Distance: 34, Speed: 0.0009, Moons: []Moon{
			{Name: "Titan", Size: 0.4, Distance: 5, Speed: 0.03},
		}},
		{Name: "Uranus", Size: 1.8, Distance: 40, Speed: 0.0004},
		{Name: "Neptune", Size: 1.7, Distance: 46, Speed: 0.0001},
	}
	for i := range bodies {
		bodies[i].Angle = float64(i) * 0.8
	}
	return bodies
}
