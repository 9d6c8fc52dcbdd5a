package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/maya0513/mandelbrot-animation/internal/bigcomplex"
	"github.com/maya0513/mandelbrot-animation/internal/mandel"
	"github.com/maya0513/mandelbrot-animation/internal/palette"
	"github.com/maya0513/mandelbrot-animation/internal/zoom"
)

func testSpec() zoom.FrameSpec {
	return zoom.FrameSpec{
		Index:         0,
		Magnification: 1.0,
		Center:        bigcomplex.FromComplex128(complex(-0.5, 0), 64),
		PrecisionBits: 64,
	}
}

func testOptions() FrameOptions {
	return FrameOptions{
		Width:      64,
		Height:     64,
		Evaluation: mandel.Options{MaxIterations: 500},
		Palette:    palette.Default(),
	}
}

// A 64x64 view centered on -0.5 at magnification 1 contains the main
// cardioid in the middle and escaped exterior at the corners.
func TestRenderFrameKnownView(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	img, stats, err := RenderFrame(context.Background(), testSpec(), opts)
	if err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}

	interior := opts.Palette.Interior
	if got := img.RGBAAt(32, 32); got != interior {
		t.Errorf("center pixel = %v, want interior color %v", got, interior)
	}
	if stats.InteriorPixels == 0 {
		t.Error("expected interior pixels in a view containing the main cardioid")
	}

	corners := [][2]int{{0, 0}, {63, 0}, {0, 63}, {63, 63}}
	for _, c := range corners {
		if got := img.RGBAAt(c[0], c[1]); got == interior {
			t.Errorf("corner pixel (%d,%d) colored as interior; all corners lie outside the set", c[0], c[1])
		}
	}
}

// The corner escape values themselves, checked through the evaluator the
// renderer uses: at magnification 1 all four corners leave the set within a
// handful of iterations.
func TestCornerEscapeValues(t *testing.T) {
	t.Parallel()

	spec := testSpec()
	opts := testOptions()
	orbit, err := mandel.ComputeOrbit(context.Background(), spec.Center, opts.Evaluation.MaxIterations, spec.PrecisionBits)
	if err != nil {
		t.Fatalf("ComputeOrbit failed: %v", err)
	}
	ev := mandel.NewEvaluator(orbit, opts.Evaluation)

	scale := spec.Magnification / 32.0
	for _, c := range [][2]int{{0, 0}, {63, 0}, {0, 63}, {63, 63}} {
		delta := complex((float64(c[0])-32)*scale, (float64(c[1])-32)*scale)
		res := ev.Evaluate(delta)
		if !res.Escaped {
			t.Errorf("corner (%d,%d) did not escape", c[0], c[1])
			continue
		}
		if res.Value >= 10 {
			t.Errorf("corner (%d,%d) escape value = %v, want < 10", c[0], c[1], res.Value)
		}
	}
}

func TestRenderFrameDeterministic(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.Workers = 4

	first, _, err := RenderFrame(context.Background(), testSpec(), opts)
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	second, _, err := RenderFrame(context.Background(), testSpec(), opts)
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("two renders of the same spec produced different pixels")
	}
}

func TestRenderFrameWorkerCountInvariant(t *testing.T) {
	t.Parallel()

	serial := testOptions()
	serial.Workers = 1
	parallelOpts := testOptions()
	parallelOpts.Workers = 8

	a, _, err := RenderFrame(context.Background(), testSpec(), serial)
	if err != nil {
		t.Fatalf("serial render failed: %v", err)
	}
	b, _, err := RenderFrame(context.Background(), testSpec(), parallelOpts)
	if err != nil {
		t.Fatalf("parallel render failed: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("pixel data depends on the worker count")
	}
}

func TestRenderFrameCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := RenderFrame(ctx, testSpec(), testOptions())
	if err == nil {
		t.Fatal("RenderFrame succeeded with a canceled context")
	}
}

func TestRenderFrameProgressReachesOne(t *testing.T) {
	t.Parallel()

	var last float64
	var count int
	opts := testOptions()
	opts.Workers = 1 // keep the reporter single-threaded for the assertion
	opts.Progress = func(p float64) {
		last = p
		count++
	}

	if _, _, err := RenderFrame(context.Background(), testSpec(), opts); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	if count != opts.Height {
		t.Errorf("progress reported %d times, want once per row (%d)", count, opts.Height)
	}
	if last != 1.0 {
		t.Errorf("final progress = %v, want 1.0", last)
	}
}
