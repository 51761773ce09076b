// Package camera is a free-fly perspective camera with ray picking.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// KeyState is the set of movement keys held this frame.
type KeyState struct {
	Forward, Back      bool // W S
	Left, Right        bool // A D
	Rise, Sink         bool // E Q
	PitchUp, PitchDown bool // Up Down
	YawLeft, YawRight  bool // Left Right
}

// Camera keeps Direction and Up orthonormal. The right axis is never
// stored; it is derived from the two on every update.
type Camera struct {
	Eye       mgl32.Vec3
	Up        mgl32.Vec3
	Direction mgl32.Vec3

	FOV    float32 // vertical, degrees
	Near   float32
	Far    float32
	Width  int
	Height int
}

// New returns a camera at eye looking at target.
func New(eye, target, up mgl32.Vec3, fov, near, far float32, width, height int) *Camera {
	c := &Camera{
		Eye:       eye,
		Up:        up,
		Direction: target.Sub(eye),
		FOV:       fov,
		Near:      near,
		Far:       far,
		Width:     width,
		Height:    height,
	}
	c.orthonormalize()
	return c
}

func (c *Camera) right() mgl32.Vec3 {
	return c.Direction.Cross(c.Up).Normalize()
}

func (c *Camera) orthonormalize() {
	c.Direction = c.Direction.Normalize()
	right := c.right()
	c.Up = right.Cross(c.Direction).Normalize()
}

// Move applies one frame of keyboard input. Translation is scaled by
// translationSpeed*dt and rotation angles by rotationSpeed*dt radians.
func (c *Camera) Move(keys KeyState, dt, translationSpeed, rotationSpeed float32) {
	step := translationSpeed * dt
	side := c.Up.Cross(c.Direction)

	if keys.Forward {
		c.Eye = c.Eye.Add(c.Direction.Mul(step))
	}
	if keys.Back {
		c.Eye = c.Eye.Sub(c.Direction.Mul(step))
	}
	if keys.Left {
		c.Eye = c.Eye.Add(side.Mul(step))
	}
	if keys.Right {
		c.Eye = c.Eye.Sub(side.Mul(step))
	}
	if keys.Rise {
		c.Eye = c.Eye.Add(c.Up.Mul(step))
	}
	if keys.Sink {
		c.Eye = c.Eye.Sub(c.Up.Mul(step))
	}

	angle := rotationSpeed * dt
	if keys.PitchUp {
		c.rotate(c.right(), angle)
	}
	if keys.PitchDown {
		c.rotate(c.right(), -angle)
	}
	if keys.YawLeft {
		c.rotate(c.Up, angle)
	}
	if keys.YawRight {
		c.rotate(c.Up, -angle)
	}
}

func (c *Camera) rotate(axis mgl32.Vec3, angle float32) {
	q := mgl32.QuatRotate(angle, axis)
	c.Direction = q.Rotate(c.Direction)
	c.Up = q.Rotate(c.Up)
	c.orthonormalize()
}

func (c *Camera) Resize(width, height int) {
	c.Width, c.Height = width, height
}

func (c *Camera) aspect() float32 {
	if c.Height <= 0 {
		return 1
	}
	return float32(c.Width) / float32(c.Height)
}

// View looks from Eye along Direction.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Eye.Add(c.Direction), c.Up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.aspect(), c.Near, c.Far)
}

// Ray returns the unit world-space direction from Eye through the screen
// point (x, y), with y growing downwards.
func (c *Camera) Ray(x, y float32) mgl32.Vec3 {
	ndcX := 2*x/float32(c.Width) - 1
	ndcY := 1 - 2*y/float32(c.Height)

	inv := c.Projection().Mul4(c.View()).Inv()
	near := unproject(inv, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(inv, mgl32.Vec4{ndcX, ndcY, 1, 1})
	return far.Sub(near).Normalize()
}

func unproject(inv mgl32.Mat4, ndc mgl32.Vec4) mgl32.Vec3 {
	p := inv.Mul4x1(ndc)
	if p.W() != 0 {
		p = p.Mul(1 / p.W())
	}
	return p.Vec3()
}
