package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors AppConfig with pointer fields so that keys absent from
// the TOML document leave the corresponding setting untouched.
type fileConfig struct {
	Width           *int     `toml:"width"`
	Height          *int     `toml:"height"`
	Frames          *int     `toml:"frames"`
	FPS             *int     `toml:"fps"`
	MaxIterations   *int     `toml:"max_iter"`
	ZoomStart       *float64 `toml:"zoom_start"`
	ZoomEnd         *float64 `toml:"zoom_end"`
	OutDir          *string  `toml:"out_dir"`
	GuardBits       *int     `toml:"guard_bits"`
	GlitchTolerance *float64 `toml:"glitch_tolerance"`
	FrameWorkers    *int     `toml:"frame_workers"`
	PixelWorkers    *int     `toml:"pixel_workers"`
	Timeout         *string  `toml:"timeout"`
	MetricsAddr     *string  `toml:"metrics_addr"`
	NoColor         *bool    `toml:"no_color"`
	Quiet           *bool    `toml:"quiet"`
	Debug           *bool    `toml:"debug"`
}

// applyFileOverrides loads a TOML configuration file and applies its values
// to settings the command line did not set explicitly.
func applyFileOverrides(config *AppConfig, fs *flag.FlagSet, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %q: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %q: %w", path, err)
	}

	explicit := explicitFlags(fs)

	applyIntField(&config.Width, fc.Width, "width", explicit)
	applyIntField(&config.Height, fc.Height, "height", explicit)
	applyIntField(&config.FrameCount, fc.Frames, "frames", explicit)
	applyIntField(&config.FPS, fc.FPS, "fps", explicit)
	applyIntField(&config.MaxIterations, fc.MaxIterations, "max-iter", explicit)
	applyFloatField(&config.ZoomStart, fc.ZoomStart, "zoom-start", explicit)
	applyFloatField(&config.ZoomEnd, fc.ZoomEnd, "zoom-end", explicit)
	applyStringField(&config.OutDir, fc.OutDir, "out-dir", explicit)
	applyIntField(&config.GuardBits, fc.GuardBits, "guard-bits", explicit)
	applyFloatField(&config.GlitchTolerance, fc.GlitchTolerance, "glitch-tolerance", explicit)
	applyIntField(&config.FrameWorkers, fc.FrameWorkers, "frame-workers", explicit)
	applyIntField(&config.PixelWorkers, fc.PixelWorkers, "pixel-workers", explicit)
	applyStringField(&config.MetricsAddr, fc.MetricsAddr, "metrics-addr", explicit)
	applyBoolField(&config.NoColor, fc.NoColor, "no-color", explicit)
	applyBoolField(&config.Quiet, fc.Quiet, "quiet", explicit)
	applyBoolField(&config.Debug, fc.Debug, "debug", explicit)

	if fc.Timeout != nil && !explicit["timeout"] {
		parsed, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout in config file %q: %w", path, err)
		}
		config.Timeout = parsed
	}
	return nil
}

func applyIntField(target *int, value *int, flagName string, explicit map[string]bool) {
	if value != nil && !explicit[flagName] {
		*target = *value
	}
}

func applyFloatField(target *float64, value *float64, flagName string, explicit map[string]bool) {
	if value != nil && !explicit[flagName] {
		*target = *value
	}
}

func applyStringField(target *string, value *string, flagName string, explicit map[string]bool) {
	if value != nil && !explicit[flagName] {
		*target = *value
	}
}

func applyBoolField(target *bool, value *bool, flagName string, explicit map[string]bool) {
	if value != nil && !explicit[flagName] {
		*target = *value
	}
}
