// Package control holds the state shared between the console goroutine and
// the render loop. The console writes; the loop reads once per frame.
package control

import (
	"strings"
	"sync"

	"github.com/pkg/errors"

	"satviz/internal/orbit"
)

// ColorMode picks how satellite textures are coded.
type ColorMode int

const (
	ColorNone ColorMode = iota
	ColorUsers
	ColorOrbit
)

func (m ColorMode) String() string {
	switch m {
	case ColorUsers:
		return "users"
	case ColorOrbit:
		return "orbit"
	default:
		return "none"
	}
}

func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return ColorNone, nil
	case "users":
		return ColorUsers, nil
	case "orbit":
		return ColorOrbit, nil
	}
	return 0, errors.Errorf("unknown color mode %q", s)
}

// Filter is a visibility selection.
type Filter string

const (
	ShowAll        Filter = "all"
	ShowNone       Filter = "none"
	ShowSelected   Filter = "sel"
	ShowIridium    Filter = "iridium"
	ShowCivil      Filter = "civ"
	ShowCommercial Filter = "com"
	ShowMilitary   Filter = "mil"
	ShowGovernment Filter = "gov"
	ShowGEO        Filter = "geo"
	ShowMEO        Filter = "meo"
	ShowLEO        Filter = "leo"
	ShowElliptical Filter = "elp"
)

var filters = []Filter{
	ShowAll, ShowNone, ShowSelected, ShowIridium,
	ShowCivil, ShowCommercial, ShowMilitary, ShowGovernment,
	ShowGEO, ShowMEO, ShowLEO, ShowElliptical,
}

// Filters lists every accepted filter name.
func Filters() []Filter {
	return append([]Filter(nil), filters...)
}

func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range filters {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Errorf("unknown filter %q", s)
}

// Match reports whether s passes f.
func (f Filter) Match(s *orbit.Satellite) bool {
	switch f {
	case ShowAll:
		return true
	case ShowSelected:
		return s.Selected
	case ShowIridium:
		return strings.Contains(strings.ToLower(s.Name), "iridium")
	case ShowCivil:
		return s.Users == orbit.Civil
	case ShowCommercial:
		return s.Users == orbit.Commercial
	case ShowMilitary:
		return s.Users == orbit.Military
	case ShowGovernment:
		return s.Users == orbit.Government
	case ShowGEO:
		return s.Class == orbit.GEO
	case ShowMEO:
		return s.Class == orbit.MEO
	case ShowLEO:
		return s.Class == orbit.LEO
	case ShowElliptical:
		return s.Class == orbit.Elliptical
	}
	return false
}

// Apply sets the visibility flag of every satellite.
func (f Filter) Apply(sats []*orbit.Satellite) int {
	n := 0
	for _, s := range sats {
		s.Visible = f.Match(s)
		if s.Visible {
			n++
		}
	}
	return n
}

// Controls is safe for concurrent use.
type Controls struct {
	mu      sync.Mutex
	speed   float64
	color   ColorMode
	pending *Filter
}

func New(speed float64, color ColorMode) *Controls {
	return &Controls{speed: speed, color: color}
}

func (c *Controls) SetSpeed(v float64) {
	c.mu.Lock()
	c.speed = v
	c.mu.Unlock()
}

func (c *Controls) SetColorMode(m ColorMode) {
	c.mu.Lock()
	c.color = m
	c.mu.Unlock()
}

// RequestFilter queues f for the next frame. A later request replaces an
// earlier one that has not been taken yet.
func (c *Controls) RequestFilter(f Filter) {
	c.mu.Lock()
	c.pending = &f
	c.mu.Unlock()
}

// Snapshot is the state the loop reads at the top of a frame.
type Snapshot struct {
	Speed     float64
	ColorMode ColorMode
	Filter    Filter
	HasFilter bool
}

// Take returns the current state and clears the pending filter.
func (c *Controls) Take() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{Speed: c.speed, ColorMode: c.color}
	if c.pending != nil {
		s.Filter, s.HasFilter = *c.pending, true
		c.pending = nil
	}
	return s
}

func (c *Controls) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

func (c *Controls) ColorMode() ColorMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.color
}
