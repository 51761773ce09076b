package scene

import (
	"satviz/internal/assets"
	"satviz/internal/control"
	"satviz/internal/orbit"
)

// SatelliteTextures maps satellites to color-coded textures.
type SatelliteTextures struct {
	Default  *assets.ImageAsset
	Selected *assets.ImageAsset
	Normal   *assets.ImageAsset
	Users    map[orbit.Category]*assets.ImageAsset
	Orbits   map[orbit.Class]*assets.ImageAsset
}

// For returns the texture coding s under mode, falling back to Default.
// Selection is handled by the caller.
func (t *SatelliteTextures) For(s *orbit.Satellite, mode control.ColorMode) *assets.ImageAsset {
	switch mode {
	case control.ColorUsers:
		if img, ok := t.Users[s.Users]; ok {
			return img
		}
	case control.ColorOrbit:
		if img, ok := t.Orbits[s.Class]; ok {
			return img
		}
	}
	return t.Default
}

// All lists every texture once, for loading and unloading.
func (t *SatelliteTextures) All() []*assets.ImageAsset {
	seen := map[*assets.ImageAsset]bool{}
	var out []*assets.ImageAsset
	add := func(img *assets.ImageAsset) {
		if img != nil && !seen[img] {
			seen[img] = true
			out = append(out, img)
		}
	}
	add(t.Default)
	add(t.Selected)
	add(t.Normal)
	for _, c := range []orbit.Category{orbit.Civil, orbit.Military, orbit.Government, orbit.Commercial, orbit.Mixed} {
		add(t.Users[c])
	}
	for _, c := range []orbit.Class{orbit.LEO, orbit.MEO, orbit.GEO, orbit.Elliptical} {
		add(t.Orbits[c])
	}
	return out
}
