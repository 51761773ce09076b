package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satviz/internal/assets"
	"satviz/internal/catalog"
	"satviz/internal/config"
	"satviz/internal/control"
	"satviz/internal/orbit"
	"satviz/internal/scene"
	"satviz/internal/wavefront"
)

const (
	testCatalog = "# name\tusers\tclass\tapogee\tperigee\te\ti\tperiod\n" +
		"ISS (ZARYA)\tGovernment/Commercial\tLEO\t422\t418\t0.0003\t51.64\t92.9\n" +
		"GOES 16\tGovernment\tGEO\t35,800\t35,776\t0.0002\t0.05\t1436.1\n"

	issLine1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	issLine2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestLoadSatellites_Kepler(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog = writeFile(t, t.TempDir(), "satellites.txt", testCatalog)
	cfg.Seed = 7

	sats, err := loadSatellites(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, sats, 2)

	assert.Equal(t, "ISS (ZARYA)", sats[0].Name)
	assert.Equal(t, orbit.Mixed, sats[0].Users)
	assert.Equal(t, orbit.GEO, sats[1].Class)
	for _, s := range sats {
		assert.True(t, s.Visible)
		assert.Nil(t, s.Model)
	}

	again, err := loadSatellites(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, sats[0].Elements, again[0].Elements, "same seed, same elements")
}

func TestLoadSatellites_SGP4(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Catalog = writeFile(t, dir, "satellites.txt", testCatalog)
	cfg.TLEFile = writeFile(t, dir, "active.txt", "ISS (ZARYA)\n"+issLine1+"\n"+issLine2+"\n")
	cfg.Propagation = config.SGP4

	sats, err := loadSatellites(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, sats, 2)

	assert.IsType(t, &orbit.SGP4{}, sats[0].Model)
	assert.Nil(t, sats[1].Model, "no element set, Keplerian fallback")
}

func TestLoadSatellites_Errors(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog = filepath.Join(t.TempDir(), "missing.txt")
	_, err := loadSatellites(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)

	cfg.Catalog = writeFile(t, t.TempDir(), "bad.txt", "X\tCivil\tLEO\n")
	_, err = loadSatellites(context.Background(), cfg, zerolog.Nop())
	assert.ErrorIs(t, err, catalog.ErrMalformedRecord)
}

func TestLoadSatellites_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testCatalog))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Catalog = filepath.Join(t.TempDir(), "satellites.txt")
	cfg.CatalogURL = srv.URL

	sats, err := loadSatellites(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, sats, 2)
	assert.FileExists(t, cfg.Catalog)
}

func TestLoadSatellites_StaleCopyOnFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := config.Default()
	cfg.Catalog = writeFile(t, t.TempDir(), "satellites.txt", testCatalog)
	cfg.CatalogURL = srv.URL

	sats, err := loadSatellites(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, sats, 2)

	cfg.Catalog = filepath.Join(t.TempDir(), "never-downloaded.txt")
	_, err = loadSatellites(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestAttachSGP4_SkipsInvalidSets(t *testing.T) {
	sats := []*orbit.Satellite{{Name: "ISS (ZARYA)"}, {Name: "BROKEN"}, {Name: "UNKNOWN"}}
	tles := map[string]catalog.TLE{
		"ISS (ZARYA)": {issLine1, issLine2},
		"BROKEN":      {issLine1[:60], issLine2},
	}

	n := attachSGP4(sats, tles, time.Date(2008, 9, 20, 12, 0, 0, 0, time.UTC), zerolog.Nop())

	assert.Equal(t, 1, n)
	assert.NotNil(t, sats[0].Model)
	assert.Nil(t, sats[1].Model)
	assert.Nil(t, sats[2].Model)
}

func TestSatelliteTextures(t *testing.T) {
	tex := satelliteTextures()

	all := tex.All()
	assert.Len(t, all, 3+5+4)
	assert.Equal(t, "textures/users_government.png", tex.Users[orbit.Government].Name)
	assert.Equal(t, "textures/orbit_elliptical.png", tex.Orbits[orbit.Elliptical].Name)

	for _, img := range all {
		assert.FileExists(t, filepath.Join("res", img.Name))
	}
}

// textureDevice only uploads textures.
type textureDevice struct {
	assets.Device
	next    uint32
	deleted int
}

func (d *textureDevice) CreateTexture(width, height int, bgra []byte) (uint32, error) {
	d.next++
	return d.next, nil
}

func (d *textureDevice) DeleteTexture(uint32) { d.deleted++ }

type pixelDecoder struct{}

func (pixelDecoder) Decode(string, []byte) (assets.Pixels, error) {
	return assets.Pixels{Width: 1, Height: 1, RGBA: []byte{1, 2, 3, 4}}, nil
}

func textureFS(tex *scene.SatelliteTextures, skip ...string) fstest.MapFS {
	fsys := fstest.MapFS{earthTextureName: {Data: []byte("png")}}
	for _, img := range tex.All() {
		fsys[img.Name] = &fstest.MapFile{Data: []byte("png")}
	}
	for _, name := range skip {
		delete(fsys, name)
	}
	return fsys
}

func TestLoadTextures(t *testing.T) {
	tex := satelliteTextures()
	earth := &assets.ImageAsset{Name: earthTextureName}
	fsys := textureFS(tex, "textures/users_military.png", "textures/orbit_geo.png")
	m := assets.NewManager(assets.FSProvider{FS: fsys}, &textureDevice{}, pixelDecoder{}, zerolog.Nop())

	require.NoError(t, loadTextures(m, tex, earth, zerolog.Nop()))

	assert.True(t, earth.IsLoaded)
	assert.NotContains(t, tex.Users, orbit.Military)
	assert.NotContains(t, tex.Orbits, orbit.GEO)
	assert.Len(t, tex.Users, 4)
	assert.Len(t, tex.Orbits, 3)
	for _, img := range tex.All() {
		assert.True(t, img.IsLoaded, img.Name)
	}

	s := &orbit.Satellite{Users: orbit.Military, Class: orbit.GEO}
	assert.Same(t, tex.Default, tex.For(s, control.ColorUsers))
	assert.Same(t, tex.Default, tex.For(s, control.ColorOrbit))
}

func TestLoadTextures_RequiredMissing(t *testing.T) {
	for _, name := range []string{earthTextureName, normalTextureName, "textures/satellite.png", "textures/selected.png"} {
		t.Run(name, func(t *testing.T) {
			tex := satelliteTextures()
			earth := &assets.ImageAsset{Name: earthTextureName}
			m := assets.NewManager(assets.FSProvider{FS: textureFS(tex, name)}, &textureDevice{}, pixelDecoder{}, zerolog.Nop())

			err := loadTextures(m, tex, earth, zerolog.Nop())
			assert.ErrorIs(t, err, assets.ErrAssetNotFound)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestBuildMarkers(t *testing.T) {
	plain := &wavefront.PlainData{
		Vertices: []mgl32.Vec3{{0, 1, 0}, {1, 0, 0}, {0, 0, 0}},
		Normals:  []mgl32.Vec3{{0, 2, 0}},
	}
	shape := &assets.MeshAsset{Name: "meshes/satellite.obj"}

	markers := buildMarkers(plain, shape, scene.Material{}, 6.371, 0.5)
	require.Len(t, markers, 3)

	assert.InDelta(t, 6.371, markers[0].Position.Y(), 1e-6)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, markers[0].Normal, "normalized")
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, markers[1].Normal, "falls back to the radial direction")
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, markers[2].Normal, "degenerate vertex")
	assert.Same(t, shape, markers[2].Shape)
	assert.Equal(t, float32(0.5), markers[1].Scale)
}

func TestBundledResources(t *testing.T) {
	cfg, err := config.Load("res/config.ini")
	require.NoError(t, err)
	assert.Equal(t, "1EFF3CFF", cfg.AccentColor, "the bundled value survives ini comment parsing")

	sats, err := loadSatellites(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.NotEmpty(t, sats)

	f, err := os.Open("res/meshes/sphere.obj")
	require.NoError(t, err)
	defer f.Close()
	sphere, err := wavefront.Parse(f)
	require.NoError(t, err)
	b := sphere.Bounds()
	assert.InDelta(t, 1, b.Max.X(), 1e-4)
	assert.InDelta(t, -1, b.Min.Y(), 1e-4)

	stations, err := os.ReadFile(filepath.Join("res", cfg.Markers))
	require.NoError(t, err)
	assert.Contains(t, string(stations), "vn ")
}
