package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// applyEnvOverrides applies MANDELZOOM_* environment variables to the
// configuration. Explicit command-line flags always win; an environment
// variable only takes effect when the corresponding flag was not set.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	explicit := explicitFlags(fs)

	overrideInt(&config.Width, "WIDTH", "width", explicit)
	overrideInt(&config.Height, "HEIGHT", "height", explicit)
	overrideInt(&config.FrameCount, "FRAMES", "frames", explicit)
	overrideInt(&config.FPS, "FPS", "fps", explicit)
	overrideInt(&config.MaxIterations, "MAX_ITER", "max-iter", explicit)
	overrideFloat(&config.ZoomStart, "ZOOM_START", "zoom-start", explicit)
	overrideFloat(&config.ZoomEnd, "ZOOM_END", "zoom-end", explicit)
	overrideString(&config.OutDir, "OUT_DIR", "out-dir", explicit)
	overrideInt(&config.GuardBits, "GUARD_BITS", "guard-bits", explicit)
	overrideFloat(&config.GlitchTolerance, "GLITCH_TOLERANCE", "glitch-tolerance", explicit)
	overrideInt(&config.FrameWorkers, "FRAME_WORKERS", "frame-workers", explicit)
	overrideInt(&config.PixelWorkers, "PIXEL_WORKERS", "pixel-workers", explicit)
	overrideDuration(&config.Timeout, "TIMEOUT", "timeout", explicit)
	overrideString(&config.MetricsAddr, "METRICS_ADDR", "metrics-addr", explicit)
	overrideBool(&config.NoColor, "NO_COLOR", "no-color", explicit)
	overrideBool(&config.Quiet, "QUIET", "quiet", explicit)
	overrideBool(&config.Debug, "DEBUG", "debug", explicit)
}

// explicitFlags returns the set of flag names provided on the command line.
func explicitFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

func lookupEnv(suffix string) (string, bool) {
	value, ok := os.LookupEnv(EnvPrefix + suffix)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func overrideInt(target *int, suffix, flagName string, explicit map[string]bool) {
	if explicit[flagName] {
		return
	}
	if value, ok := lookupEnv(suffix); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideFloat(target *float64, suffix, flagName string, explicit map[string]bool) {
	if explicit[flagName] {
		return
	}
	if value, ok := lookupEnv(suffix); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func overrideString(target *string, suffix, flagName string, explicit map[string]bool) {
	if explicit[flagName] {
		return
	}
	if value, ok := lookupEnv(suffix); ok {
		*target = value
	}
}

func overrideBool(target *bool, suffix, flagName string, explicit map[string]bool) {
	if explicit[flagName] {
		return
	}
	if value, ok := lookupEnv(suffix); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideDuration(target *time.Duration, suffix, flagName string, explicit map[string]bool) {
	if explicit[flagName] {
		return
	}
	if value, ok := lookupEnv(suffix); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			*target = parsed
		}
	}
}
