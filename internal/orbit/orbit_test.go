package orbit

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

func TestPosition_QuarterPeriod(t *testing.T) {
	el := Elements{SemiMajorAxis: 10000, Eccentricity: 0, Period: 3600}

	assert.InDelta(t, math.Pi/2, el.MeanAnomaly(900), tol)
	assert.InDelta(t, math.Pi/2, el.TrueAnomaly(900), tol)

	p := el.Position(900)
	assert.InDelta(t, 0, p.X(), tol)
	assert.InDelta(t, 10000, p.Y(), tol)
	assert.InDelta(t, 0, p.Z(), tol)
}

func TestPosition_Periodic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	el := NewElements(35786, 500, 0.72, 63.4, 718, rng)

	for _, ts := range []float64{0, 17.5, 1234, 40000, 1e6} {
		a := el.Position(ts)
		b := el.Position(ts + el.Period)
		assert.InDeltaSlice(t, a[:], b[:], 1e-3, "t=%v", ts)
	}
}

func TestPosition_CircularDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	el := NewElements(550, 550, 0, 53, 95.6, rng)

	for ts := 0.0; ts < el.Period; ts += 311 {
		assert.InDelta(t, el.SemiMajorAxis, el.Distance(el.TrueAnomaly(ts)), tol)
		assert.InDelta(t, el.SemiMajorAxis, el.Position(ts).Len(), 1e-6*el.SemiMajorAxis)
	}
}

func TestPosition_Inclination(t *testing.T) {
	el := Elements{SemiMajorAxis: 7000, Period: 6000, Inclination: math.Pi / 2}

	p := el.Position(1500)
	assert.InDelta(t, 0, p.X(), tol)
	assert.InDelta(t, 0, p.Y(), tol)
	assert.InDelta(t, 7000, p.Z(), tol)

	el.AscendingNode = math.Pi / 2
	p = el.Position(0)
	assert.InDelta(t, 0, p.X(), tol)
	assert.InDelta(t, 7000, p.Y(), tol)
}

func TestNewElements(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	el := NewElements(800, 600, 0.01, 90, 100, rng)

	assert.InDelta(t, (800+600+EarthDiameter)/2, el.SemiMajorAxis, tol)
	assert.InDelta(t, math.Pi/2, el.Inclination, tol)
	assert.Equal(t, 6000.0, el.Period)
	assert.GreaterOrEqual(t, el.AscendingNode, 0.0)
	assert.Less(t, el.AscendingNode, 2*math.Pi)
	assert.GreaterOrEqual(t, el.ArgumentOfPeriapsis, 0.0)
	assert.Less(t, el.ArgumentOfPeriapsis, 2*math.Pi)

	again := NewElements(800, 600, 0.01, 90, 100, rand.New(rand.NewSource(42)))
	assert.Equal(t, el, again, "same seed, same elements")
}

func TestEarthRotation(t *testing.T) {
	assert.InDelta(t, 0, EarthRotation(0, 86400), tol)
	assert.InDelta(t, math.Pi, EarthRotation(43200, 86400), tol)
	assert.InDelta(t, math.Pi/2, EarthRotation(86400+21600, 86400), tol)
	assert.InDelta(t, math.Pi, EarthRotation(43200, 0), tol, "default period")
}

func TestClock(t *testing.T) {
	c := NewClock(0.001, DefaultRotationPeriod)
	c.Advance(0.5, 2.5)
	c.Advance(0.5, 0)
	assert.InDelta(t, 1.25, c.Total, tol)
}

func TestPropagate_SkipsHidden(t *testing.T) {
	el := Elements{SemiMajorAxis: 10000, Period: 3600}
	visible := &Satellite{Name: "a", Elements: el, Visible: true}
	hidden := &Satellite{Name: "b", Elements: el}
	hidden.Position[0] = 42

	clock := &Clock{Total: 900, SizeScale: 0.001}
	n := Propagate([]*Satellite{visible, hidden}, clock)

	assert.Equal(t, 1, n)
	assert.InDelta(t, 10, visible.Position.X(), 1e-4, "eci y maps to scene x")
	assert.InDelta(t, 0, visible.Position.Y(), 1e-4)
	assert.InDelta(t, 0, visible.Position.Z(), 1e-4)
	assert.Equal(t, float32(42), hidden.Position.X(), "stale")
}

type fixedModel mgl64.Vec3

func (f fixedModel) Position(float64) mgl64.Vec3 { return mgl64.Vec3(f) }

func TestPropagate_ModelOverride(t *testing.T) {
	s := &Satellite{Visible: true, Model: fixedModel{1000, 2000, 3000}}
	Propagate([]*Satellite{s}, &Clock{SizeScale: 0.001})
	assert.InDelta(t, 2, s.Position.X(), 1e-6)
	assert.InDelta(t, 3, s.Position.Y(), 1e-6)
	assert.InDelta(t, 1, s.Position.Z(), 1e-6)
}

func TestSGP4(t *testing.T) {
	const (
		line1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
		line2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
	)
	epoch := time.Date(2008, 9, 20, 12, 25, 40, 0, time.UTC)
	m := NewSGP4(line1, line2, epoch)

	for _, ts := range []float64{0, 600, 3000} {
		r := m.Position(ts).Len()
		assert.Greater(t, r, EarthRadius+200, "t=%v", ts)
		assert.Less(t, r, EarthRadius+500, "t=%v", ts)
	}
}

func TestParseEnums(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Civil", Civil},
		{"military", Military},
		{" Government ", Government},
		{"Commercial", Commercial},
		{"Government/Commercial", Mixed},
		{"Military/Civil", Mixed},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := ParseCategory("Amateur")
	assert.Error(t, err)

	for in, want := range map[string]Class{"LEO": LEO, "meo": MEO, "GEO": GEO, "Elliptical": Elliptical} {
		got, err := ParseClass(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err = ParseClass("HEO")
	assert.Error(t, err)

	assert.Equal(t, "geo", GEO.String())
	assert.Equal(t, "mixed", Mixed.String())
}
