package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"satviz/internal/control"
)

func TestFromFile_Defaults(t *testing.T) {
	file := ini.Empty()
	cfg, err := FromFile(file)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(`
[Tracker]
resources = assets
catalog = ucs.txt
tle_file = active.txt
propagation = SGP4
seed = 99
simulation_speed = 60
fov = 45
pick_radius_factor = 3
color_mode = orbit
log_level = debug
accent_color = FF000080
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "assets", cfg.Resources)
	assert.Equal(t, "ucs.txt", cfg.Catalog)
	assert.Equal(t, SGP4, cfg.Propagation)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 60.0, cfg.SimulationSpeed)
	assert.Equal(t, float32(45), cfg.FOV)
	assert.Equal(t, float32(3), cfg.PickRadiusFactor)
	assert.Equal(t, control.ColorOrbit, cfg.ColorMode)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "FF000080", cfg.AccentColor)
	assert.Equal(t, 0.001, cfg.SizeScale, "default kept")
}

func TestFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"color mode", "color_mode = rainbow", "color_mode"},
		{"propagation", "propagation = nbody", "propagation"},
		{"log level", "log_level = loud", "log_level"},
		{"clip planes", "near = 10\nfar = 1", "clip planes"},
		{"fov", "fov = 200", "fov"},
		{"sgp4 without tles", "propagation = sgp4", "tle_file"},
		{"accent color", "accent_color = green", "accent_color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ini.Load([]byte("[Tracker]\n" + tt.body + "\n"))
			require.NoError(t, err)
			_, err = FromFile(file)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	assert.Error(t, err)
}
