// Package render turns frame specifications into finished images. It owns
// the per-frame pipeline (reference orbit, parallel pixel evaluation,
// coloring) and the run orchestrator that walks the whole zoom sequence.
package render

import (
	"context"
	"image"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/maya0513/mandelbrot-animation/internal/errors"
	"github.com/maya0513/mandelbrot-animation/internal/mandel"
	"github.com/maya0513/mandelbrot-animation/internal/palette"
	"github.com/maya0513/mandelbrot-animation/internal/parallel"
	"github.com/maya0513/mandelbrot-animation/internal/zoom"
)

var (
	framesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mandelzoom_frames_total",
			Help: "The total number of frames rendered, by outcome",
		},
		[]string{"status"},
	)
	frameRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mandelzoom_frame_render_seconds",
			Help:    "Wall-clock duration of frame rendering in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
	)
)

// FrameOptions configures the rendering of a single frame.
type FrameOptions struct {
	// Width and Height are the image dimensions in pixels.
	Width  int
	Height int
	// Evaluation carries the iteration budget and glitch tolerance.
	Evaluation mandel.Options
	// Palette maps escape values to colors.
	Palette palette.Config
	// Workers is the number of row workers; 0 means one per available CPU.
	Workers int
	// Progress, when non-nil, receives the frame's normalized progress.
	Progress mandel.ProgressReporter
}

func (o FrameOptions) workerCount() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// RenderFrame computes the complete image for one frame. It computes the
// frame's reference orbit once, evaluates every pixel against it with a pool
// of row workers, and colors the escape field through the palette.
//
// Rendering a given spec with the same options is deterministic: worker
// scheduling only decides who computes a row, never what its pixels are, and
// each pixel is written to its own pre-allocated slot.
func RenderFrame(ctx context.Context, spec zoom.FrameSpec, opts FrameOptions) (img *image.RGBA, stats mandel.FrameStats, err error) {
	tracer := otel.Tracer("render")
	ctx, span := tracer.Start(ctx, "RenderFrame")
	span.SetAttributes(
		attribute.Int("frame.index", spec.Index),
		attribute.Float64("frame.magnification", spec.Magnification),
		attribute.Int("frame.precision_bits", int(spec.PrecisionBits)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		framesTotal.WithLabelValues(status).Inc()
		frameRenderDuration.Observe(time.Since(start).Seconds())
	}()

	orbit, err := mandel.ComputeOrbit(ctx, spec.Center, opts.Evaluation.MaxIterations, spec.PrecisionBits)
	if err != nil {
		return nil, mandel.FrameStats{}, apperrors.WrapError(err, "computing reference orbit for frame %d", spec.Index)
	}

	evaluator := mandel.NewEvaluator(orbit, opts.Evaluation)

	width, height := opts.Width, opts.Height
	// Magnification is the viewport half-extent along the shorter axis, so
	// the zoom target stays framed identically in portrait and landscape.
	halfExtent := float64(min(width, height)) / 2
	scale := spec.Magnification / halfExtent
	halfW, halfH := float64(width)/2, float64(height)/2

	results := make([]mandel.PixelResult, width*height)

	rows := make(chan int)
	var collector parallel.ErrorCollector
	var rowsDone atomic.Int64

	reportRow := func() {
		if opts.Progress == nil {
			return
		}
		opts.Progress(float64(rowsDone.Add(1)) / float64(height))
	}

	var wg sync.WaitGroup
	for w := 0; w < opts.workerCount(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range rows {
				if ctx.Err() != nil {
					collector.Record(ctx.Err())
					continue
				}
				im := (float64(row) - halfH) * scale
				base := row * width
				for col := 0; col < width; col++ {
					re := (float64(col) - halfW) * scale
					results[base+col] = evaluator.Evaluate(complex(re, im))
				}
				reportRow()
			}
		}()
	}

	for row := 0; row < height; row++ {
		rows <- row
	}
	close(rows)
	wg.Wait()

	if cerr := collector.Err(); cerr != nil {
		return nil, mandel.FrameStats{}, apperrors.WrapError(cerr, "rendering frame %d interrupted", spec.Index)
	}

	img = image.NewRGBA(image.Rect(0, 0, width, height))
	for row := 0; row < height; row++ {
		base := row * width
		for col := 0; col < width; col++ {
			img.SetRGBA(col, row, opts.Palette.Map(results[base+col], opts.Evaluation.MaxIterations))
		}
	}
	return img, evaluator.Stats(), nil
}
