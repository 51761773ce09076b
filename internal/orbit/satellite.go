// Package orbit propagates satellite positions from static orbital elements.
// Positions are a pure function of simulation time: nothing is integrated
// between frames.
package orbit

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Category is the operator group a satellite serves.
type Category int

const (
	Civil Category = iota
	Military
	Government
	Commercial
	Mixed
)

var categoryNames = map[Category]string{
	Civil:      "civil",
	Military:   "military",
	Government: "government",
	Commercial: "commercial",
	Mixed:      "mixed",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "unknown"
}

// ParseCategory reads a catalog users column. Combined values such as
// "Government/Commercial" are Mixed.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.ContainsAny(s, "/,") {
		return Mixed, nil
	}
	for c, name := range categoryNames {
		if s == name {
			return c, nil
		}
	}
	return 0, errors.Errorf("unknown user category %q", s)
}

// Class is the orbit regime.
type Class int

const (
	LEO Class = iota
	MEO
	GEO
	Elliptical
)

var classNames = map[Class]string{
	LEO:        "leo",
	MEO:        "meo",
	GEO:        "geo",
	Elliptical: "elliptical",
}

func (c Class) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return "unknown"
}

func ParseClass(s string) (Class, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range classNames {
		if s == name {
			return c, nil
		}
	}
	return 0, errors.Errorf("unknown orbit class %q", s)
}

// Satellite is one catalog entry and its per-frame state.
type Satellite struct {
	Name     string
	Users    Category
	Class    Class
	Elements Elements

	// Model overrides the Keplerian approximation when set.
	Model Model

	Position mgl32.Vec3
	Visible  bool
	Selected bool
}

// ModelOrKepler returns the propagation model used for s.
func (s *Satellite) ModelOrKepler() Model {
	if s.Model != nil {
		return s.Model
	}
	return s.Elements
}
