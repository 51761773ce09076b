package control

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satviz/internal/orbit"
)

func testSatellites() []*orbit.Satellite {
	return []*orbit.Satellite{
		{Name: "IRIDIUM 102", Users: orbit.Commercial, Class: orbit.LEO},
		{Name: "GPS IIR-10", Users: orbit.Military, Class: orbit.MEO},
		{Name: "GOES 16", Users: orbit.Government, Class: orbit.GEO, Selected: true},
		{Name: "Molniya 1-93", Users: orbit.Civil, Class: orbit.Elliptical},
		{Name: "Sentinel", Users: orbit.Mixed, Class: orbit.LEO},
	}
}

func visibleNames(sats []*orbit.Satellite) []string {
	var names []string
	for _, s := range sats {
		if s.Visible {
			names = append(names, s.Name)
		}
	}
	return names
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		filter Filter
		want   []string
	}{
		{ShowAll, []string{"IRIDIUM 102", "GPS IIR-10", "GOES 16", "Molniya 1-93", "Sentinel"}},
		{ShowNone, nil},
		{ShowSelected, []string{"GOES 16"}},
		{ShowIridium, []string{"IRIDIUM 102"}},
		{ShowCivil, []string{"Molniya 1-93"}},
		{ShowCommercial, []string{"IRIDIUM 102"}},
		{ShowMilitary, []string{"GPS IIR-10"}},
		{ShowGovernment, []string{"GOES 16"}},
		{ShowGEO, []string{"GOES 16"}},
		{ShowMEO, []string{"GPS IIR-10"}},
		{ShowLEO, []string{"IRIDIUM 102", "Sentinel"}},
		{ShowElliptical, []string{"Molniya 1-93"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			sats := testSatellites()
			n := tt.filter.Apply(sats)
			assert.Equal(t, tt.want, visibleNames(sats))
			assert.Equal(t, len(tt.want), n)
		})
	}
}

func TestParse(t *testing.T) {
	for _, f := range Filters() {
		got, err := ParseFilter(" " + string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFilter("everything")
	assert.Error(t, err)

	m, err := ParseColorMode("Users")
	require.NoError(t, err)
	assert.Equal(t, ColorUsers, m)
	_, err = ParseColorMode("rainbow")
	assert.Error(t, err)
}

func TestControls_Take(t *testing.T) {
	c := New(1, ColorNone)

	s := c.Take()
	assert.False(t, s.HasFilter)
	assert.Equal(t, 1.0, s.Speed)

	c.RequestFilter(ShowGEO)
	c.RequestFilter(ShowLEO)
	c.SetSpeed(2.5)
	c.SetColorMode(ColorOrbit)

	s = c.Take()
	assert.True(t, s.HasFilter)
	assert.Equal(t, ShowLEO, s.Filter)
	assert.Equal(t, 2.5, s.Speed)
	assert.Equal(t, ColorOrbit, s.ColorMode)

	assert.False(t, c.Take().HasFilter, "filter is consumed once")
}

func TestControls_Concurrent(t *testing.T) {
	c := New(1, ColorNone)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.SetSpeed(float64(i))
				c.RequestFilter(ShowAll)
				_ = c.Take()
			}
		}(i)
	}
	wg.Wait()
	assert.GreaterOrEqual(t, c.Speed(), 0.0)
}
