package render

import (
	"context"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maya0513/mandelbrot-animation/internal/cli"
	"github.com/maya0513/mandelbrot-animation/internal/config"
	apperrors "github.com/maya0513/mandelbrot-animation/internal/errors"
	"github.com/maya0513/mandelbrot-animation/internal/logging"
	"github.com/maya0513/mandelbrot-animation/internal/mandel"
	"github.com/maya0513/mandelbrot-animation/internal/output"
	"github.com/maya0513/mandelbrot-animation/internal/palette"
	"github.com/maya0513/mandelbrot-animation/internal/zoom"
)

// FrameOutcome records how one frame of the sequence ended up: where it was
// written, how long it took, the evaluation diagnostics, and the error if it
// failed. The orchestrator returns one outcome per scheduled frame so the
// caller can report every gap in the sequence.
type FrameOutcome struct {
	Index    int
	Path     string
	Duration time.Duration
	Stats    mandel.FrameStats
	Err      error
}

// ExecuteRun renders the full zoom sequence described by the configuration.
// Frames are distributed over a bounded worker group; each worker derives its
// frame spec, renders it, and writes the image atomically into the output
// directory. A failed frame is recorded in its outcome and does not stop the
// remaining frames; only context cancellation aborts the run.
//
// The returned slice always has cfg.FrameCount entries, indexed by frame.
func ExecuteRun(ctx context.Context, cfg config.AppConfig, out io.Writer, logger logging.Logger) ([]FrameOutcome, error) {
	schedule := cfg.ToSchedule()
	path := zoom.DefaultPath()
	pal := palette.Default()

	outcomes := make([]FrameOutcome, cfg.FrameCount)

	progressChan := make(chan mandel.ProgressUpdate, cfg.FrameCount)
	var displayWG sync.WaitGroup
	if !cfg.Quiet {
		displayWG.Add(1)
		go cli.DisplayProgress(&displayWG, progressChan, cfg.FrameCount, out)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.FrameWorkers)

	for i := 0; i < cfg.FrameCount; i++ {
		frameIndex := i
		g.Go(func() error {
			spec := schedule.FrameSpec(frameIndex, path, cfg.GuardBits)

			reporter := func(progress float64) {
				update := mandel.ProgressUpdate{FrameIndex: frameIndex, Value: progress}
				// Never block a worker on the display; a dropped update
				// only makes the progress bar lag.
				select {
				case progressChan <- update:
				default:
				}
			}

			start := time.Now()
			img, stats, err := RenderFrame(gctx, spec, FrameOptions{
				Width:      cfg.Width,
				Height:     cfg.Height,
				Evaluation: cfg.ToEvaluatorOptions(),
				Palette:    pal,
				Workers:    cfg.PixelWorkers,
				Progress:   reporter,
			})
			if err != nil {
				outcomes[frameIndex] = FrameOutcome{
					Index:    frameIndex,
					Duration: time.Since(start),
					Err:      apperrors.RenderError{Frame: frameIndex, Cause: err},
				}
				if apperrors.IsContextError(err) {
					return err
				}
				logger.Error("frame render failed", err, logging.Int("frame", frameIndex))
				return nil
			}

			framePath, err := output.WriteFrame(cfg.OutDir, frameIndex, img)
			outcome := FrameOutcome{
				Index:    frameIndex,
				Path:     framePath,
				Duration: time.Since(start),
				Stats:    stats,
				Err:      err,
			}
			outcomes[frameIndex] = outcome
			if err != nil {
				logger.Error("frame write failed", err, logging.Int("frame", frameIndex))
				return nil
			}

			logger.Info("frame rendered",
				logging.Int("frame", frameIndex+1),
				logging.Int("of", cfg.FrameCount),
				logging.String("path", framePath),
				logging.Float64("magnification", spec.Magnification),
				logging.Uint("precision_bits", spec.PrecisionBits),
				logging.Int64("glitched_pixels", stats.GlitchedPixels),
				logging.Dur("duration", outcome.Duration),
			)
			return nil
		})
	}

	err := g.Wait()
	close(progressChan)
	displayWG.Wait()
	return outcomes, err
}

// FailedFrames extracts the indices of frames that did not produce a file.
func FailedFrames(outcomes []FrameOutcome) []int {
	var failed []int
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o.Index)
		}
	}
	return failed
}
