// Package config loads the [Tracker] section of an ini file.
package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/ini.v1"

	"satviz/internal/control"
)

const Section = "Tracker"

// Propagation selects the orbit model.
type Propagation string

const (
	Kepler Propagation = "kepler"
	SGP4   Propagation = "sgp4"
)

type Config struct {
	Resources  string
	Catalog    string
	CatalogURL string
	TLEFile    string
	Markers    string

	Propagation         Propagation
	Seed                int64
	SimulationSpeed     float64
	SizeScale           float64
	SatelliteScale      float64
	EarthRotationPeriod float64

	FOV              float32
	Near             float32
	Far              float32
	TranslationSpeed float32
	RotationSpeed    float32
	PickRadiusFactor float32

	ColorMode control.ColorMode
	Width     int
	Height    int
	// AccentColor is the HUD color as RRGGBBAA hex, with or without '#'.
	AccentColor string

	LogLevel    zerolog.Level
	MetricsAddr string
}

func Default() *Config {
	return &Config{
		Resources:           "res",
		Catalog:             "satellites.txt",
		Propagation:         Kepler,
		SimulationSpeed:     1,
		SizeScale:           0.001,
		SatelliteScale:      0.05,
		EarthRotationPeriod: 86400,
		FOV:                 60,
		Near:                0.1,
		Far:                 1000,
		TranslationSpeed:    6,
		RotationSpeed:       1,
		ColorMode:           control.ColorNone,
		Width:               1280,
		Height:              720,
		AccentColor:         "#1EFF3CFF",
		LogLevel:            zerolog.InfoLevel,
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	cfg, err := FromFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// FromFile reads the [Tracker] section. Missing keys keep their defaults.
func FromFile(file *ini.File) (*Config, error) {
	cfg := Default()
	sec := file.Section(Section)

	cfg.Resources = sec.Key("resources").MustString(cfg.Resources)
	cfg.Catalog = sec.Key("catalog").MustString(cfg.Catalog)
	cfg.CatalogURL = sec.Key("catalog_url").String()
	cfg.TLEFile = sec.Key("tle_file").String()
	cfg.Markers = sec.Key("markers").String()
	cfg.MetricsAddr = sec.Key("metrics_addr").String()

	cfg.Seed = sec.Key("seed").MustInt64(0)
	cfg.SimulationSpeed = sec.Key("simulation_speed").MustFloat64(cfg.SimulationSpeed)
	cfg.SizeScale = sec.Key("size_scale").MustFloat64(cfg.SizeScale)
	cfg.SatelliteScale = sec.Key("satellite_scale").MustFloat64(cfg.SatelliteScale)
	cfg.EarthRotationPeriod = sec.Key("earth_rotation_period").MustFloat64(cfg.EarthRotationPeriod)

	cfg.FOV = float32(sec.Key("fov").MustFloat64(float64(cfg.FOV)))
	cfg.Near = float32(sec.Key("near").MustFloat64(float64(cfg.Near)))
	cfg.Far = float32(sec.Key("far").MustFloat64(float64(cfg.Far)))
	cfg.TranslationSpeed = float32(sec.Key("translation_speed").MustFloat64(float64(cfg.TranslationSpeed)))
	cfg.RotationSpeed = float32(sec.Key("rotation_speed").MustFloat64(float64(cfg.RotationSpeed)))
	cfg.PickRadiusFactor = float32(sec.Key("pick_radius_factor").MustFloat64(0))

	cfg.Width = sec.Key("width").MustInt(cfg.Width)
	cfg.Height = sec.Key("height").MustInt(cfg.Height)
	cfg.AccentColor = sec.Key("accent_color").MustString(cfg.AccentColor)

	if v := sec.Key("propagation").String(); v != "" {
		switch p := Propagation(strings.ToLower(v)); p {
		case Kepler, SGP4:
			cfg.Propagation = p
		default:
			return nil, errors.Errorf("propagation: unknown model %q", v)
		}
	}
	if v := sec.Key("color_mode").String(); v != "" {
		m, err := control.ParseColorMode(v)
		if err != nil {
			return nil, errors.Wrap(err, "color_mode")
		}
		cfg.ColorMode = m
	}
	if v := sec.Key("log_level").String(); v != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return nil, errors.Wrap(err, "log_level")
		}
		cfg.LogLevel = lvl
	}

	return cfg, cfg.Validate()
}

// Validate rejects values the renderer cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.SizeScale <= 0:
		return errors.New("size_scale must be positive")
	case c.SatelliteScale <= 0:
		return errors.New("satellite_scale must be positive")
	case c.FOV <= 0 || c.FOV >= 180:
		return errors.Errorf("fov %v outside (0, 180)", c.FOV)
	case c.Near <= 0 || c.Far <= c.Near:
		return errors.Errorf("clip planes near=%v far=%v", c.Near, c.Far)
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("window size %dx%d", c.Width, c.Height)
	case !isHexColor(c.AccentColor):
		return errors.Errorf("accent_color %q is not RRGGBBAA", c.AccentColor)
	case c.Propagation == SGP4 && c.TLEFile == "":
		return errors.New("propagation=sgp4 needs tle_file")
	}
	return nil
}

func isHexColor(s string) bool {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 8 {
		return false
	}
	_, err := strconv.ParseUint(s, 16, 32)
	return err == nil
}

// MarshalZerologObject logs the effective configuration.
func (c *Config) MarshalZerologObject(e *zerolog.Event) {
	e.Str("resources", c.Resources).
		Str("catalog", c.Catalog).
		Str("propagation", string(c.Propagation)).
		Float64("simulation_speed", c.SimulationSpeed).
		Float64("size_scale", c.SizeScale).
		Stringer("color_mode", c.ColorMode).
		Float32("pick_radius_factor", c.PickRadiusFactor).
		Int("width", c.Width).
		Int("height", c.Height).
		Str("accent_color", c.AccentColor)
}
