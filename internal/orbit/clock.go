package orbit

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Clock accumulates simulation time. Total is in simulated seconds and
// SizeScale converts km to scene units.
type Clock struct {
	Total          float64
	SizeScale      float64
	RotationPeriod float64
}

func NewClock(sizeScale, rotationPeriod float64) *Clock {
	return &Clock{SizeScale: sizeScale, RotationPeriod: rotationPeriod}
}

// Advance adds dt real seconds scaled by speed.
func (c *Clock) Advance(dt, speed float64) {
	c.Total += dt * speed
}

func (c *Clock) EarthRotation() float64 {
	return EarthRotation(c.Total, c.RotationPeriod)
}

// ToScene maps an inertial km position to scene units. The scene is y-up
// with the inertial polar axis along y.
func ToScene(eci mgl64.Vec3, scale float64) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(eci.Y() * scale),
		float32(eci.Z() * scale),
		float32(eci.X() * scale),
	}
}

// Propagate recomputes the position of every visible satellite at the
// clock's current time. Hidden satellites keep their last position. It
// returns the number of satellites updated.
func Propagate(sats []*Satellite, clock *Clock) int {
	n := 0
	for _, s := range sats {
		if !s.Visible {
			continue
		}
		s.Position = ToScene(s.ModelOrKepler().Position(clock.Total), clock.SizeScale)
		n++
	}
	return n
}
