package orbit

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	EarthRadius   = 6371.0 // km
	EarthDiameter = 2 * EarthRadius

	// DefaultRotationPeriod is one solar day in seconds.
	DefaultRotationPeriod = 86400.0
)

// Model yields an Earth-centered inertial position in km for a simulation
// time in seconds.
type Model interface {
	Position(t float64) mgl64.Vec3
}

// Elements are the static Keplerian elements of an orbit. Angles are in
// radians, distances in km and the period in seconds.
type Elements struct {
	Apogee        float64
	Perigee       float64
	Eccentricity  float64
	SemiMajorAxis float64

	Inclination         float64
	AscendingNode       float64 // Ω
	ArgumentOfPeriapsis float64 // ω
	Period              float64
}

// NewElements derives the semi-major axis from the apsis altitudes and seeds
// Ω and ω from rng, since catalogs do not carry them.
func NewElements(apogee, perigee, eccentricity, inclinationDeg, periodMinutes float64, rng *rand.Rand) Elements {
	return Elements{
		Apogee:              apogee,
		Perigee:             perigee,
		Eccentricity:        eccentricity,
		SemiMajorAxis:       (apogee + perigee + EarthDiameter) / 2,
		Inclination:         mgl64.DegToRad(inclinationDeg),
		AscendingNode:       rng.Float64() * 2 * math.Pi,
		ArgumentOfPeriapsis: rng.Float64() * 2 * math.Pi,
		Period:              periodMinutes * 60,
	}
}

// MeanAnomaly is ω + 2πt/T reduced to [0, 2π).
func (e Elements) MeanAnomaly(t float64) float64 {
	m := e.ArgumentOfPeriapsis
	if e.Period > 0 {
		m += 2 * math.Pi * t / e.Period
	}
	m = math.Mod(m, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	return m
}

// TrueAnomaly approximates ν with the second order equation of center.
func (e Elements) TrueAnomaly(t float64) float64 {
	m := e.MeanAnomaly(t)
	ecc := e.Eccentricity
	return m + 2*ecc*math.Sin(m) + 1.25*ecc*ecc*math.Sin(2*m)
}

// Distance is the orbital radius at true anomaly nu.
func (e Elements) Distance(nu float64) float64 {
	ecc := e.Eccentricity
	return e.SemiMajorAxis * (1 - ecc*ecc) / (1 + ecc*math.Cos(nu))
}

// Position places the satellite in the orbital plane, tilts that plane by
// the inclination about the line of nodes (x) and then turns it about the
// polar axis (z) by the ascending node longitude.
func (e Elements) Position(t float64) mgl64.Vec3 {
	nu := e.TrueAnomaly(t)
	r := e.Distance(nu)
	p := mgl64.Vec3{r * math.Cos(nu), r * math.Sin(nu), 0}

	rot := mgl64.Rotate3DZ(e.AscendingNode).Mul3(mgl64.Rotate3DX(e.Inclination))
	return rot.Mul3x1(p)
}

// EarthRotation is the globe's spin angle in radians at time t.
func EarthRotation(t, period float64) float64 {
	if period <= 0 {
		period = DefaultRotationPeriod
	}
	return 2 * math.Pi * math.Mod(t, period) / period
}
