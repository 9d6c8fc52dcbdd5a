// Package palette converts escape-time results into RGB colors. The mapping
// is a pure function of the escape value, continuous everywhere except at the
// interior sentinel, so adjacent pixels with close iteration counts never
// show banding.
package palette

import (
	"image/color"
	"math"

	"github.com/maya0513/mandelbrot-animation/internal/mandel"
)

// Config holds the palette constants. They are passed in explicitly rather
// than hardcoded at the call sites so alternative palettes can be tested and
// swapped without touching the mapper.
type Config struct {
	// HueBase is the hue (as a fraction of a full turn) at escape value 0.
	HueBase float64
	// HueSweep is how many turns the hue cycles across the normalized range.
	HueSweep float64
	// Saturation applies uniformly to all escaping pixels.
	Saturation float64
	// ValueFloor is the brightness at escape value 0.
	ValueFloor float64
	// ValueRange is the brightness gained toward the top of the range.
	ValueRange float64
	// Interior is the fixed color for pixels that never escape.
	Interior color.RGBA
}

// Default returns the palette used by the zoom animation: a blue-violet HSV
// cycle brightening toward late escapes, black interior.
func Default() Config {
	return Config{
		HueBase:    0.65,
		HueSweep:   2.2,
		Saturation: 0.95,
		ValueFloor: 0.25,
		ValueRange: 0.85,
		Interior:   color.RGBA{A: 0xff},
	}
}

// Map converts one escape result into a color. The escape value is normalized
// by the iteration budget and clamped to [0, 1] before indexing the gradient.
func (c Config) Map(res mandel.PixelResult, maxIterations int) color.RGBA {
	if !res.Escaped {
		return c.Interior
	}
	t := 0.0
	if maxIterations > 0 {
		t = clamp01(res.Value / float64(maxIterations))
	}
	hue := math.Mod(360*(c.HueBase+c.HueSweep*t), 360)
	val := clamp01(c.ValueFloor + c.ValueRange*t)
	return hsvToRGB(hue, c.Saturation, val)
}

// hsvToRGB converts hue [0,360), saturation and value in [0,1] to 8-bit RGB.
func hsvToRGB(h, s, v float64) color.RGBA {
	h = math.Mod(math.Mod(h, 360)+360, 360)
	chroma := v * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - chroma

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = chroma, x, 0
	case h < 120:
		r, g, b = x, chroma, 0
	case h < 180:
		r, g, b = 0, chroma, x
	case h < 240:
		r, g, b = 0, x, chroma
	case h < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}

	return color.RGBA{
		R: channel(r + m),
		G: channel(g + m),
		B: channel(b + m),
		A: 0xff,
	}
}

func channel(v float64) uint8 {
	return uint8(clamp01(v) * 255)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
