package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"satviz/internal/orbit"
)

// PointRayDistance is the distance from p to the ray origin+λ·dir and the
// λ of the closest point. dir must be unit length.
func PointRayDistance(p, origin, dir mgl32.Vec3) (distance, lambda float32) {
	lambda = p.Sub(origin).Dot(dir)
	closest := origin.Add(dir.Mul(lambda))
	return p.Sub(closest).Len(), lambda
}

// Pick selects the visible satellite nearest to the ray through the screen
// point (x, y) and deselects every other one. Only satellites in front of
// the camera count. maxDistance limits how far from the ray a hit may lie;
// zero or less means the nearest satellite always wins. It returns the
// index of the selected satellite or -1.
func (c *Camera) Pick(x, y float32, sats []*orbit.Satellite, maxDistance float32) int {
	dir := c.Ray(x, y)

	best := -1
	bestDistance := float32(math.MaxFloat32)
	for i, s := range sats {
		if !s.Visible {
			continue
		}
		d, lambda := PointRayDistance(s.Position, c.Eye, dir)
		if lambda <= 0 {
			continue
		}
		if maxDistance > 0 && d > maxDistance {
			continue
		}
		if d < bestDistance {
			best, bestDistance = i, d
		}
	}

	for i, s := range sats {
		s.Selected = i == best
	}
	return best
}
