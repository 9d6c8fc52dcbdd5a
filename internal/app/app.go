package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/maya0513/mandelbrot-animation/internal/cli"
	"github.com/maya0513/mandelbrot-animation/internal/config"
	apperrors "github.com/maya0513/mandelbrot-animation/internal/errors"
	"github.com/maya0513/mandelbrot-animation/internal/logging"
	"github.com/maya0513/mandelbrot-animation/internal/output"
	"github.com/maya0513/mandelbrot-animation/internal/render"
	"github.com/maya0513/mandelbrot-animation/internal/ui"
)

// Application represents the mandelzoom application instance. It encapsulates
// the parsed configuration and drives one full render of the zoom sequence.
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or
// validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	// args[0] is program name, args[1:] are the actual arguments
	programName := "mandelzoom"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		ErrWriter: errWriter,
	}, nil
}

// IsHelpError checks if the error is a help flag error (--help was used), so
// main can exit with success after the usage text.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// themeColors adapts the active UI theme to the error reporter.
type themeColors struct{}

func (themeColors) Yellow() string { return ui.ColorYellow() }
func (themeColors) Reset() string  { return ui.ColorReset() }

// Run renders the configured frame sequence and returns the process exit
// code. It owns the run lifecycle: theme and logger setup, timeout and signal
// contexts, the optional metrics endpoint, the render itself, and the final
// summary.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Initialize CLI theme (respects --no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	var logger logging.Logger = logging.NewLogger(a.ErrWriter, "render")
	if a.Config.Quiet && !a.Config.Debug {
		logger = logging.Nop{}
	}

	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	stopMetrics := a.serveMetrics(logger)
	defer stopMetrics()

	if err := output.EnsureDir(a.Config.OutDir); err != nil {
		fmt.Fprintf(a.ErrWriter, "Output directory error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.Quiet {
		a.printRunHeader(out)
	}

	start := time.Now()
	outcomes, err := render.ExecuteRun(ctx, a.Config, out, logger)
	duration := time.Since(start)

	if err != nil {
		return apperrors.HandleRunError(err, duration, a.ErrWriter, themeColors{})
	}
	return a.analyzeOutcomes(outcomes, duration, out)
}

// serveMetrics exposes the prometheus registry over HTTP when a metrics
// address is configured. The returned function shuts the listener down.
func (a *Application) serveMetrics(logger logging.Logger) func() {
	if a.Config.MetricsAddr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              a.Config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics endpoint listening", logging.String("addr", a.Config.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics endpoint failed", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

func (a *Application) printRunHeader(out io.Writer) {
	cfg := a.Config
	fmt.Fprintf(out, "%sMandelbrot zoom render%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "  Resolution:  %s%dx%d%s\n", ui.ColorCyan(), cfg.Width, cfg.Height, ui.ColorReset())
	fmt.Fprintf(out, "  Frames:      %s%d%s @ %d fps\n", ui.ColorCyan(), cfg.FrameCount, ui.ColorReset(), cfg.FPS)
	fmt.Fprintf(out, "  Zoom:        %s%g -> %g%s\n", ui.ColorCyan(), cfg.ZoomStart, cfg.ZoomEnd, ui.ColorReset())
	fmt.Fprintf(out, "  Iterations:  %s%d%s\n", ui.ColorCyan(), cfg.MaxIterations, ui.ColorReset())
	fmt.Fprintf(out, "  Output:      %s%s%s\n\n", ui.ColorCyan(), cfg.OutDir, ui.ColorReset())
}

// analyzeOutcomes prints the run summary and derives the exit code from the
// per-frame results: any missing frame makes the sequence unencodable, so it
// fails the run even when the others rendered fine.
func (a *Application) analyzeOutcomes(outcomes []render.FrameOutcome, duration time.Duration, out io.Writer) int {
	failed := render.FailedFrames(outcomes)

	var glitched, exhausted int64
	for _, o := range outcomes {
		glitched += o.Stats.GlitchedPixels
		exhausted += o.Stats.OrbitExhaustedPixels
	}

	if len(failed) > 0 {
		fmt.Fprintf(a.ErrWriter, "%sStatus: Failure.%s %d of %d frames failed: %v\n",
			ui.ColorRed(), ui.ColorReset(), len(failed), len(outcomes), failed)
		for _, idx := range failed {
			fmt.Fprintf(a.ErrWriter, "  frame %06d: %v\n", idx, outcomes[idx].Err)
		}
		return apperrors.ExitErrorRender
	}

	if !a.Config.Quiet {
		fmt.Fprintf(out, "\n%sStatus: Success.%s Rendered %d frames in %s%s%s.\n",
			ui.ColorGreen(), ui.ColorReset(), len(outcomes),
			ui.ColorYellow(), cli.FormatExecutionDuration(duration), ui.ColorReset())
		if glitched > 0 || exhausted > 0 {
			fmt.Fprintf(out, "  Fallback pixels: %d glitched, %d orbit-exhausted (re-rendered exactly).\n",
				glitched, exhausted)
		}
		fmt.Fprintf(out, "\nEncode with:\n  %s%s%s\n",
			ui.ColorCyan(), output.FFmpegHint(a.Config.FPS, a.Config.OutDir), ui.ColorReset())
	}
	return apperrors.ExitSuccess
}
