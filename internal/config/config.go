// Package config holds the settings of a coalesce run and loads them from
// TOML files.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/maax3v3/coalesce/internal/aggregation"
	"github.com/maax3v3/coalesce/internal/color"
)

// Config holds every tunable of a run. Zero values are not defaults; start
// from Default.
type Config struct {
	InPath  string `toml:"-"`
	OutPath string `toml:"-"`

	// Deviation is the baseline color distance tolerance of the merge.
	Deviation float64 `toml:"deviation"`
	// MinSize is the baseline area, in pixels, of a region worth keeping.
	MinSize int `toml:"min_size"`
	// Tolerance is the segmentation tolerance percentage (0-100).
	Tolerance float64 `toml:"tolerance"`
	// MaxColors caps the output palette; 0 keeps every region color.
	MaxColors int `toml:"max_colors"`
	// Outline is a hex color for region boundaries; empty draws none.
	Outline string `toml:"outline"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	p := aggregation.DefaultParams()
	return Config{
		Deviation: p.Deviation,
		MinSize:   p.MinSize,
		Tolerance: 0,
		MaxColors: 0,
	}
}

// Load reads a TOML file on top of Default. Keys missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("reading config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Validate checks that every value is in range.
func (c Config) Validate() error {
	if c.Deviation <= 0 {
		return fmt.Errorf("deviation must be > 0, got %g", c.Deviation)
	}
	if c.MinSize <= 0 {
		return fmt.Errorf("min_size must be > 0, got %d", c.MinSize)
	}
	if c.Tolerance < 0 || c.Tolerance > 100 {
		return fmt.Errorf("tolerance must be between 0 and 100, got %g", c.Tolerance)
	}
	if c.MaxColors < 0 {
		return fmt.Errorf("max_colors must be >= 0, got %d", c.MaxColors)
	}
	if c.Outline != "" {
		if _, err := color.ParseHex(c.Outline); err != nil {
			return fmt.Errorf("outline: %w", err)
		}
	}
	return nil
}

// Params returns the merge thresholds of the configuration.
func (c Config) Params() aggregation.Params {
	return aggregation.Params{
		Deviation: c.Deviation,
		MinSize:   c.MinSize,
	}
}

// OutlineColor returns the parsed outline color and whether outlining is on.
// It assumes Validate has passed.
func (c Config) OutlineColor() (color.RGBA, bool) {
	if c.Outline == "" {
		return color.RGBA{}, false
	}
	col, err := color.ParseHex(c.Outline)
	if err != nil {
		return color.RGBA{}, false
	}
	return col, true
}
