// Package config loads portalvis settings from TOML.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/taigrr/portalvis/pkg/vis"
)

type Config struct {
	Visibility VisibilityConfig `toml:"visibility"`
	View       ViewConfig       `toml:"view"`
	Logging    LoggingConfig    `toml:"logging"`
	Bench      BenchConfig      `toml:"bench"`
}

type VisibilityConfig struct {
	MaxPortalDepth  int    `toml:"max_portal_depth"`
	SmallLevelAreas int    `toml:"small_level_areas"`
	PoolBlockSize   int    `toml:"pool_block_size"`
	LinkMode        string `toml:"link_mode"` // "auto", "bounds" or "bsp"
	ScalarCulling   bool   `toml:"scalar_culling"`
}

// ViewConfig sets up the camera. Width and Height are the debug image size
// in pixels.
type ViewConfig struct {
	FOVDegrees float64 `toml:"fov_degrees"` // vertical
	Near       float64 `toml:"near"`
	Far        float64 `toml:"far"`
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type BenchConfig struct {
	Workers int    `toml:"workers"`
	Rays    int    `toml:"rays"`
	Seed    uint64 `toml:"seed"`
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the settings used when no config file is given.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Visibility: VisibilityConfig{
			MaxPortalDepth:  vis.DefaultMaxPortalDepth,
			SmallLevelAreas: vis.DefaultSmallLevelAreas,
			PoolBlockSize:   vis.DefaultPoolBlockSize,
			LinkMode:        "auto",
		},
		View: ViewConfig{
			FOVDegrees: 60,
			Near:       0.1,
			Far:        1000,
			Width:      640,
			Height:     360,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Bench: BenchConfig{
			Workers: 4,
			Rays:    100000,
			Seed:    1,
		},
	}
}

func (c *Config) validate() error {
	if _, err := parseLinkMode(c.Visibility.LinkMode); err != nil {
		return err
	}
	if c.View.FOVDegrees <= 0 || c.View.FOVDegrees >= 180 {
		return fmt.Errorf("view.fov_degrees %v out of range (0, 180)", c.View.FOVDegrees)
	}
	if c.View.Near <= 0 || c.View.Far <= c.View.Near {
		return fmt.Errorf("view near %v / far %v: need 0 < near < far", c.View.Near, c.View.Far)
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		return fmt.Errorf("view size %dx%d must be positive", c.View.Width, c.View.Height)
	}
	if c.Bench.Workers <= 0 {
		return fmt.Errorf("bench.workers %d must be positive", c.Bench.Workers)
	}
	return nil
}

func parseLinkMode(s string) (vis.LinkMode, error) {
	switch s {
	case "", "auto":
		return vis.LinkAuto, nil
	case "bounds":
		return vis.LinkBounds, nil
	case "bsp":
		return vis.LinkBSP, nil
	}
	return 0, fmt.Errorf("unknown visibility.link_mode %q", s)
}

// Options converts the visibility section for vis.NewSystem.
func (c VisibilityConfig) Options(log *zap.Logger) vis.Options {
	mode, _ := parseLinkMode(c.LinkMode)
	return vis.Options{
		MaxPortalDepth:  c.MaxPortalDepth,
		LinkMode:        mode,
		SmallLevelAreas: c.SmallLevelAreas,
		PoolBlockSize:   c.PoolBlockSize,
		ScalarCulling:   c.ScalarCulling,
		Logger:          log,
	}
}

// FOV returns the vertical field of view in radians.
func (c ViewConfig) FOV() float64 {
	return c.FOVDegrees * math.Pi / 180
}

// Aspect returns width / height.
func (c ViewConfig) Aspect() float64 {
	return float64(c.Width) / float64(c.Height)
}
