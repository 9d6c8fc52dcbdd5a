// Package config provides the configuration management for the mandelzoom
// renderer. It defines the configuration structure, handles command-line
// flags with environment and TOML-file overrides, and validates the values
// before any rendering begins.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	apperrors "github.com/maya0513/mandelbrot-animation/internal/errors"
	"github.com/maya0513/mandelbrot-animation/internal/mandel"
	"github.com/maya0513/mandelbrot-animation/internal/zoom"
)

// EnvPrefix is the prefix for all environment variables used by mandelzoom.
// Environment variables provide an alternative to CLI flags for
// configuration, following the 12-Factor App methodology.
const EnvPrefix = "MANDELZOOM_"

// Default configuration values. These match the reference animation: a
// 1080p, 300-frame, 30 fps zoom from magnification 1 down to 1e-6.
const (
	DefaultWidth         = 1920
	DefaultHeight        = 1080
	DefaultFrameCount    = 300
	DefaultFPS           = 30
	DefaultMaxIterations = 2000
	DefaultZoomStart     = 1.0
	DefaultZoomEnd       = 1e-6
	DefaultOutDir        = "out/frames"
	// DefaultFrameWorkers renders frames one at a time; the pixel workers
	// already saturate the cores, so inter-frame parallelism is opt-in for
	// machines with memory to spare.
	DefaultFrameWorkers = 1
)

// AppConfig aggregates the renderer's configuration parameters.
type AppConfig struct {
	// Width and Height are the frame dimensions in pixels.
	Width  int
	Height int
	// FrameCount is the number of frames in the zoom sequence.
	FrameCount int
	// FPS is the frame rate passed through to the encoder hint; it does not
	// affect rendering.
	FPS int
	// MaxIterations is the per-pixel iteration budget.
	MaxIterations int
	// ZoomStart and ZoomEnd bound the geometric magnification schedule.
	// ZoomStart must exceed ZoomEnd; both must be positive.
	ZoomStart float64
	ZoomEnd   float64
	// OutDir is the directory receiving the numbered frame files.
	OutDir string
	// GuardBits is the precision guard added on top of the bits needed to
	// resolve the current magnification.
	GuardBits int
	// GlitchTolerance overrides the evaluator's glitch predicate threshold
	// when positive.
	GlitchTolerance float64
	// FrameWorkers is the number of frames rendered concurrently.
	FrameWorkers int
	// PixelWorkers is the number of row workers per frame; 0 means one per
	// available CPU.
	PixelWorkers int
	// Timeout bounds the whole run; 0 disables the limit.
	Timeout time.Duration
	// MetricsAddr, when set, exposes prometheus metrics on that address.
	MetricsAddr string
	// NoColor disables colored terminal output (NO_COLOR is also honored).
	NoColor bool
	// Quiet suppresses the spinner/progress display for scripting.
	Quiet bool
	// Debug enables debug-level logging.
	Debug bool
	// ConfigFile is an optional TOML file applied beneath flags and env.
	ConfigFile string
}

// ToSchedule converts the configuration into the zoom schedule.
func (c AppConfig) ToSchedule() zoom.Schedule {
	return zoom.Schedule{
		StartMagnification: c.ZoomStart,
		EndMagnification:   c.ZoomEnd,
		FrameCount:         c.FrameCount,
	}
}

// ToEvaluatorOptions converts the configuration into mandel.Options for the
// per-pixel evaluators.
func (c AppConfig) ToEvaluatorOptions() mandel.Options {
	return mandel.Options{
		MaxIterations:   c.MaxIterations,
		GlitchTolerance: c.GlitchTolerance,
	}
}

// Validate checks the semantic consistency of the configuration. All
// violations are ConfigError values, reported before any frame is computed.
func (c AppConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return apperrors.NewConfigError("frame dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FrameCount <= 0 {
		return apperrors.NewConfigError("frame count must be positive, got %d", c.FrameCount)
	}
	if c.FPS <= 0 {
		return apperrors.NewConfigError("fps must be positive, got %d", c.FPS)
	}
	if c.MaxIterations <= 0 {
		return apperrors.NewConfigError("max iterations must be positive, got %d", c.MaxIterations)
	}
	if c.ZoomEnd <= 0 {
		return apperrors.NewConfigError("zoom end must be positive, got %g", c.ZoomEnd)
	}
	if c.ZoomStart <= c.ZoomEnd {
		return apperrors.NewConfigError("zoom start (%g) must exceed zoom end (%g): the animation zooms in", c.ZoomStart, c.ZoomEnd)
	}
	if c.GuardBits < 0 {
		return apperrors.NewConfigError("guard bits cannot be negative: %d", c.GuardBits)
	}
	if c.FrameWorkers <= 0 {
		return apperrors.NewConfigError("frame workers must be positive, got %d", c.FrameWorkers)
	}
	if c.PixelWorkers < 0 {
		return apperrors.NewConfigError("pixel workers cannot be negative: %d", c.PixelWorkers)
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("timeout cannot be negative: %s", c.Timeout)
	}
	if c.OutDir == "" {
		return apperrors.NewConfigError("output directory must not be empty")
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig.
// Precedence, lowest to highest: defaults, TOML config file, environment
// variables, explicit flags. After resolution the configuration is validated.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.IntVar(&config.Width, "width", DefaultWidth, "Frame width in pixels.")
	fs.IntVar(&config.Height, "height", DefaultHeight, "Frame height in pixels.")
	fs.IntVar(&config.FrameCount, "frames", DefaultFrameCount, "Number of frames in the zoom sequence.")
	fs.IntVar(&config.FPS, "fps", DefaultFPS, "Frame rate for the encoder hint (does not affect rendering).")
	fs.IntVar(&config.MaxIterations, "max-iter", DefaultMaxIterations, "Per-pixel iteration budget.")
	fs.Float64Var(&config.ZoomStart, "zoom-start", DefaultZoomStart, "Starting magnification (half-height of the viewport in plane units).")
	fs.Float64Var(&config.ZoomEnd, "zoom-end", DefaultZoomEnd, "Final magnification; must be below zoom-start.")
	fs.StringVar(&config.OutDir, "out-dir", DefaultOutDir, "Directory receiving the numbered frame files.")
	fs.IntVar(&config.GuardBits, "guard-bits", zoom.DefaultGuardBits, "Extra precision bits beyond the magnification requirement.")
	fs.Float64Var(&config.GlitchTolerance, "glitch-tolerance", 0, "Relative threshold of the perturbation glitch predicate (0 uses the built-in default).")
	fs.IntVar(&config.FrameWorkers, "frame-workers", DefaultFrameWorkers, "Number of frames rendered concurrently.")
	fs.IntVar(&config.PixelWorkers, "pixel-workers", 0, "Row workers per frame (0 = one per CPU).")
	fs.DurationVar(&config.Timeout, "timeout", 0, "Maximum duration for the whole run (0 = unlimited).")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Expose prometheus metrics on this address (e.g. :9090); empty disables.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - no spinner or progress display.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Debug, "debug", false, "Enable debug-level logging.")
	fs.StringVar(&config.ConfigFile, "config", "", "Optional TOML configuration file.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Layer the TOML file beneath env and flags: file values only land on
	// settings the command line left untouched.
	if config.ConfigFile != "" {
		if err := applyFileOverrides(&config, fs, config.ConfigFile); err != nil {
			fmt.Fprintln(errorWriter, "Configuration error:", err)
			return AppConfig{}, errors.New("invalid configuration")
		}
	}

	// Environment variables override file values but never explicit flags.
	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
