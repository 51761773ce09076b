package orbit

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/joshuaferrara/go-satellite"
)

// SGP4 propagates a two-line element set. Simulation time zero is Epoch.
type SGP4 struct {
	sat   satellite.Satellite
	Epoch time.Time
}

// NewSGP4 parses a two-line element set. The lines must already have been
// validated because go-satellite does not report malformed input.
func NewSGP4(line1, line2 string, epoch time.Time) *SGP4 {
	return &SGP4{
		sat:   satellite.TLEToSat(line1, line2, satellite.GravityWGS72),
		Epoch: epoch.UTC(),
	}
}

func (s *SGP4) Position(t float64) mgl64.Vec3 {
	at := s.Epoch.Add(time.Duration(t * float64(time.Second)))
	year, month, day := at.Date()
	hour, min, sec := at.Clock()

	pos, _ := satellite.Propagate(s.sat, year, int(month), day, hour, min, sec)
	return mgl64.Vec3{pos.X, pos.Y, pos.Z}
}
