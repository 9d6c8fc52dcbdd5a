package palette

import (
	"image/color"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/maya0513/mandelbrot-animation/internal/mandel"
)

const testMaxIterations = 2000

func TestInteriorSentinel(t *testing.T) {
	t.Parallel()
	cfg := Default()
	got := cfg.Map(mandel.PixelResult{Escaped: false}, testMaxIterations)
	if got != cfg.Interior {
		t.Errorf("interior pixel mapped to %v, want %v", got, cfg.Interior)
	}
	// Contrast against an escaping pixel: the sentinel boundary is the one
	// permitted discontinuity.
	escaped := cfg.Map(mandel.PixelResult{Value: testMaxIterations - 1, Escaped: true}, testMaxIterations)
	if escaped == cfg.Interior {
		t.Error("late-escaping pixel mapped to the interior color")
	}
}

func channelDist(a, b color.RGBA) int {
	abs := func(x int) int {
		if x < 0 {
			return -x
		}
		return x
	}
	return abs(int(a.R)-int(b.R)) + abs(int(a.G)-int(b.G)) + abs(int(a.B)-int(b.B))
}

func TestContinuity(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	cfg := Default()

	properties.Property("close escape values map to close colors", prop.ForAll(
		func(value float64, eps float64) bool {
			a := cfg.Map(mandel.PixelResult{Value: value, Escaped: true}, testMaxIterations)
			b := cfg.Map(mandel.PixelResult{Value: value + eps, Escaped: true}, testMaxIterations)
			// eps spans at most 1e-3 of the normalized range; the hue cycle
			// covers 2.2 turns, so the per-channel step stays in single digits.
			return channelDist(a, b) <= 16
		},
		gen.Float64Range(0, testMaxIterations),
		gen.Float64Range(0, 2.0),
	))

	properties.TestingRun(t)
}

func TestMapClampsOutOfRangeValues(t *testing.T) {
	t.Parallel()
	cfg := Default()
	over := cfg.Map(mandel.PixelResult{Value: 10 * testMaxIterations, Escaped: true}, testMaxIterations)
	top := cfg.Map(mandel.PixelResult{Value: testMaxIterations, Escaped: true}, testMaxIterations)
	if over != top {
		t.Errorf("value beyond budget not clamped: %v vs %v", over, top)
	}
	neg := cfg.Map(mandel.PixelResult{Value: -5, Escaped: true}, testMaxIterations)
	zero := cfg.Map(mandel.PixelResult{Value: 0, Escaped: true}, testMaxIterations)
	if neg != zero {
		t.Errorf("negative value not clamped: %v vs %v", neg, zero)
	}
}

func TestHSVConversionAnchors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		h, s, v float64
		want    color.RGBA
	}{
		{"red", 0, 1, 1, color.RGBA{R: 255, A: 255}},
		{"green", 120, 1, 1, color.RGBA{G: 255, A: 255}},
		{"blue", 240, 1, 1, color.RGBA{B: 255, A: 255}},
		{"white", 0, 0, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"black", 180, 1, 0, color.RGBA{A: 255}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := hsvToRGB(tc.h, tc.s, tc.v); got != tc.want {
				t.Errorf("hsvToRGB(%v,%v,%v) = %v, want %v", tc.h, tc.s, tc.v, got, tc.want)
			}
		})
	}
}

func TestHueWrapIsSeamless(t *testing.T) {
	t.Parallel()
	a := hsvToRGB(359.999, 0.95, 0.8)
	b := hsvToRGB(0.001, 0.95, 0.8)
	if channelDist(a, b) > 2 {
		t.Errorf("hue wrap discontinuity: %v vs %v", a, b)
	}
	if math.Abs(float64(channelDist(hsvToRGB(-60, 1, 1), hsvToRGB(300, 1, 1)))) > 0 {
		t.Error("negative hue not normalized onto the same color")
	}
}
