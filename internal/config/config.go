package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Duration is a JSON-friendly wrapper around time.Duration that accepts human
// readable strings such as "150ms" in configuration files while still
// allowing numeric representations when necessary.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		if s == "" {
			*d = 0
			return nil
		}
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("duration: parse %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// Config captures the tunable parameters for one generation run.
type Config struct {
	Grid       GridConfig       `json:"grid"`
	Start      StartConfig      `json:"start"`
	Boundary   BoundaryConfig   `json:"boundary"`
	Generation GenerationConfig `json:"generation"`
	Pacing     PacingConfig     `json:"pacing"`
	Log        LogConfig        `json:"log"`
}

type GridConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Depth  int `json:"depth"`
}

// StartConfig selects the seed cell for the frontier. When Centered is true
// the explicit coordinate is ignored and generation begins at the ground
// level center of the grid.
type StartConfig struct {
	Centered bool `json:"centered"`
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Z        int  `json:"z"`
}

// BoundaryConfig describes the forced edge region. Thickness counts cells
// measured inward from each enabled face.
type BoundaryConfig struct {
	EnableX      bool   `json:"enableX"`
	EnableZ      bool   `json:"enableZ"`
	EnableBottom bool   `json:"enableBottom"`
	EnableTop    bool   `json:"enableTop"`
	Thickness    int    `json:"thickness"`
	TileID       string `json:"tileId"`
}

type GenerationConfig struct {
	Seed           int64          `json:"seed"` // 0 derives a seed from the clock
	FallbackTileID string         `json:"fallbackTileId"`
	UsageCaps      map[string]int `json:"usageCaps"` // overrides catalog max_uses
}

// PacingConfig is advisory: the driver sleeps StepDelay between collapse
// steps when Enabled, purely so external observers can watch the grid fill.
type PacingConfig struct {
	Enabled   bool     `json:"enabled"`
	StepDelay Duration `json:"stepDelay"`
}

type LogConfig struct {
	FilePath   string `json:"filePath"` // empty keeps logging on stderr
	MaxSizeMB  int    `json:"maxSizeMb"`
	MaxBackups int    `json:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays"`
}

// Load reads configuration from a JSON file if provided. An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Width:  16,
			Height: 4,
			Depth:  16,
		},
		Start: StartConfig{
			Centered: true,
		},
		Boundary: BoundaryConfig{
			Thickness: 1,
		},
		Generation: GenerationConfig{
			Seed:      0,
			UsageCaps: map[string]int{},
		},
		Pacing: PacingConfig{
			Enabled:   false,
			StepDelay: Duration(25 * time.Millisecond),
		},
		Log: LogConfig{
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 || c.Grid.Depth <= 0 {
		return errors.New("grid dimensions must be positive")
	}
	if !c.Start.Centered {
		if c.Start.X < 0 || c.Start.X >= c.Grid.Width ||
			c.Start.Y < 0 || c.Start.Y >= c.Grid.Height ||
			c.Start.Z < 0 || c.Start.Z >= c.Grid.Depth {
			return errors.New("start coordinate outside grid bounds")
		}
	}
	boundaryEnabled := c.Boundary.EnableX || c.Boundary.EnableZ ||
		c.Boundary.EnableBottom || c.Boundary.EnableTop
	if boundaryEnabled && c.Boundary.Thickness <= 0 {
		return errors.New("boundary.thickness must be positive when any edge is enabled")
	}
	for id, cap := range c.Generation.UsageCaps {
		if cap < 0 {
			return fmt.Errorf("generation.usageCaps[%s] cannot be negative", id)
		}
	}
	if c.Pacing.Enabled && c.Pacing.StepDelay < 0 {
		return errors.New("pacing.stepDelay cannot be negative")
	}
	return nil
}
