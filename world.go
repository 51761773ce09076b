package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"satviz/internal/assets"
	"satviz/internal/catalog"
	"satviz/internal/config"
	"satviz/internal/orbit"
	"satviz/internal/scene"
	"satviz/internal/wavefront"
)

// Asset names, relative to the resource directory.
const (
	earthMeshName     = "meshes/sphere.obj"
	satelliteMeshName = "meshes/satellite.obj"
	earthTextureName  = "textures/earth.png"
	normalTextureName = "textures/empty_normal.png"
	fontName          = "fonts/ShareTechMono-Regular.ttf"

	markerScale = 0.08
)

var fetchTimeout = 30 * time.Second

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// loadSatellites reads the catalog, refreshing it first when a download URL
// is configured. In SGP4 mode satellites with a matching TLE get an SGP4
// model whose epoch is now.
func loadSatellites(ctx context.Context, cfg *config.Config, log zerolog.Logger) ([]*orbit.Satellite, error) {
	if cfg.CatalogURL != "" {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		if _, err := catalog.Fetch(ctx, http.DefaultClient, cfg.CatalogURL, cfg.Catalog, log); err != nil {
			if _, statErr := os.Stat(cfg.Catalog); statErr != nil {
				return nil, err
			}
			log.Warn().Err(err).Msg("catalog refresh failed, using the stale copy")
		}
	}

	f, err := os.Open(cfg.Catalog)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog")
	}
	defer f.Close()

	records, err := catalog.Parse(f)
	if err != nil {
		return nil, err
	}

	rng := newRand(cfg.Seed)
	sats := make([]*orbit.Satellite, 0, len(records))
	for _, r := range records {
		sats = append(sats, r.Satellite(rng))
	}
	log.Info().Int("satellites", len(sats)).Str("file", cfg.Catalog).Msg("catalog loaded")

	if cfg.Propagation == config.SGP4 {
		tles, err := catalog.LoadTLEFile(cfg.TLEFile)
		if err != nil {
			return nil, err
		}
		n := attachSGP4(sats, tles, time.Now(), log)
		log.Info().Int("sgp4", n).Int("kepler", len(sats)-n).Msg("propagation models assigned")
	}
	return sats, nil
}

// attachSGP4 gives every satellite with a valid element set an SGP4 model.
// Invalid sets are skipped so go-satellite never sees them.
func attachSGP4(sats []*orbit.Satellite, tles map[string]catalog.TLE, epoch time.Time, log zerolog.Logger) int {
	n := 0
	for _, s := range sats {
		tle, ok := tles[s.Name]
		if !ok {
			continue
		}
		if err := catalog.ValidateTLE(tle[0], tle[1]); err != nil {
			log.Warn().Err(err).Str("satellite", s.Name).Msg("ignoring element set")
			continue
		}
		s.Model = orbit.NewSGP4(tle[0], tle[1], epoch)
		n++
	}
	return n
}

func satelliteTextures() *scene.SatelliteTextures {
	t := &scene.SatelliteTextures{
		Default:  &assets.ImageAsset{Name: "textures/satellite.png"},
		Selected: &assets.ImageAsset{Name: "textures/selected.png"},
		Normal:   &assets.ImageAsset{Name: normalTextureName},
		Users:    map[orbit.Category]*assets.ImageAsset{},
		Orbits:   map[orbit.Class]*assets.ImageAsset{},
	}
	for _, c := range []orbit.Category{orbit.Civil, orbit.Military, orbit.Government, orbit.Commercial, orbit.Mixed} {
		t.Users[c] = &assets.ImageAsset{Name: "textures/users_" + c.String() + ".png"}
	}
	for _, c := range []orbit.Class{orbit.LEO, orbit.MEO, orbit.GEO, orbit.Elliptical} {
		t.Orbits[c] = &assets.ImageAsset{Name: "textures/orbit_" + c.String() + ".png"}
	}
	return t
}

// loadTextures uploads the Earth texture and every satellite texture. The
// Earth, normal, default and selection textures are required. A missing
// color-coding texture is dropped so those satellites use Default.
func loadTextures(m *assets.Manager, tex *scene.SatelliteTextures, earth *assets.ImageAsset, log zerolog.Logger) error {
	for _, img := range []*assets.ImageAsset{earth, tex.Normal, tex.Default, tex.Selected} {
		if err := m.LoadImage(img); err != nil {
			return err
		}
	}
	for c, img := range tex.Users {
		if err := m.LoadImage(img); err != nil {
			log.Warn().Err(err).Stringer("users", c).Msg("texture not loaded, using the default")
			delete(tex.Users, c)
		}
	}
	for c, img := range tex.Orbits {
		if err := m.LoadImage(img); err != nil {
			log.Warn().Err(err).Stringer("orbit", c).Msg("texture not loaded, using the default")
			delete(tex.Orbits, c)
		}
	}
	return nil
}

// buildMarkers places one marker per vertex of a unit sphere placement
// file on a globe of the given radius. A vertex without a matching normal
// points away from the center.
func buildMarkers(plain *wavefront.PlainData, shape *assets.MeshAsset, mat scene.Material, radius, scale float32) []*scene.Marker {
	markers := make([]*scene.Marker, 0, len(plain.Vertices))
	for i, v := range plain.Vertices {
		normal := v
		if i < len(plain.Normals) {
			normal = plain.Normals[i]
		}
		if normal.Len() == 0 {
			normal = mgl32.Vec3{0, 1, 0}
		}
		markers = append(markers, &scene.Marker{
			Position: v.Mul(radius),
			Normal:   normal.Normalize(),
			Shape:    shape,
			Mat:      mat,
			Scale:    scale,
		})
	}
	return markers
}
