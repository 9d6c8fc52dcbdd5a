package mandel

import (
	"math"
	"math/big"
	"sync/atomic"

	"github.com/maya0513/mandelbrot-animation/internal/bigcomplex"
)

// PixelResult is the escape-time outcome for one pixel.
type PixelResult struct {
	// Value is the smooth (fractional) iteration count at escape. It is only
	// meaningful when Escaped is true.
	Value float64
	// Escaped is false for points that stayed bounded within the iteration
	// budget; such pixels map to the interior color.
	Escaped bool
	// Glitched reports that the fast perturbation path broke down and the
	// result came from the exact high-precision fallback.
	Glitched bool
}

// Options configures pixel evaluation.
type Options struct {
	// MaxIterations is the per-pixel iteration budget.
	MaxIterations int
	// GlitchTolerance overrides DefaultGlitchTolerance when positive.
	GlitchTolerance float64
}

// normalizeOptions fills in defaults for zero values so every evaluation
// sees the same effective settings.
func normalizeOptions(opts Options) Options {
	if opts.GlitchTolerance <= 0 {
		opts.GlitchTolerance = DefaultGlitchTolerance
	}
	return opts
}

// FrameStats aggregates per-frame evaluation diagnostics. Counts accumulate
// atomically so the parallel pixel workers can share one instance.
type FrameStats struct {
	// GlitchedPixels counts fallbacks triggered by the relative-magnitude
	// glitch predicate.
	GlitchedPixels int64
	// OrbitExhaustedPixels counts fallbacks triggered by a reference orbit
	// shorter than the pixel's iteration need.
	OrbitExhaustedPixels int64
	// InteriorPixels counts pixels that never escaped.
	InteriorPixels int64
}

// Evaluator computes escape times for the pixels of one frame against a
// shared, read-only reference orbit. It is safe for concurrent use; the only
// mutable state is the atomic diagnostics counters.
type Evaluator struct {
	orbit *ReferenceOrbit
	opts  Options

	glitched       atomic.Int64
	orbitExhausted atomic.Int64
	interior       atomic.Int64
}

// NewEvaluator returns an evaluator for the given orbit and options.
func NewEvaluator(orbit *ReferenceOrbit, opts Options) *Evaluator {
	return &Evaluator{orbit: orbit, opts: normalizeOptions(opts)}
}

// Stats returns a snapshot of the diagnostics counters.
func (e *Evaluator) Stats() FrameStats {
	return FrameStats{
		GlitchedPixels:       e.glitched.Load(),
		OrbitExhaustedPixels: e.orbitExhausted.Load(),
		InteriorPixels:       e.interior.Load(),
	}
}

// Evaluate returns the escape result for the pixel at offset delta0 from the
// orbit's center.
//
// The fast path runs the perturbation recurrence
//
//	δ' = 2·z_ref·δ + δ² + δ₀
//
// entirely in complex128, reading z_ref from the precomputed orbit. Two
// conditions invalidate the fast path: the full value z_ref+δ collapsing
// relative to z_ref (catastrophic cancellation, the classic perturbation
// glitch) and the pixel outliving the stored orbit. Both are recovered by
// re-iterating just this pixel exactly in extended precision; correctness
// over speed for the minority of affected pixels.
func (e *Evaluator) Evaluate(delta0 complex128) PixelResult {
	// δ_0 = 0: the pixel and the reference both start their orbits at zero.
	// The coordinate offset delta0 enters only through the recurrence, which
	// keeps the loop index n aligned with the exact iteration count.
	delta := complex(0, 0)
	tol := e.opts.GlitchTolerance

	for n := 0; n < e.opts.MaxIterations; n++ {
		if n >= len(e.orbit.Points) {
			e.orbitExhausted.Add(1)
			recordFallback(fallbackReasonOrbitExhausted)
			return e.fallback(delta0)
		}

		zRef := e.orbit.Points[n]
		full := zRef + delta
		fullAbsSq := real(full)*real(full) + imag(full)*imag(full)

		if fullAbsSq > escapeRadiusSq {
			return PixelResult{Value: smoothEscape(n, fullAbsSq), Escaped: true}
		}

		refAbsSq := real(zRef)*real(zRef) + imag(zRef)*imag(zRef)
		if fullAbsSq < tol*refAbsSq {
			e.glitched.Add(1)
			recordFallback(fallbackReasonGlitch)
			return e.fallback(delta0)
		}

		delta = 2*zRef*delta + delta*delta + delta0
	}

	e.interior.Add(1)
	return PixelResult{}
}

// fallback recomputes a pixel exactly: the full coordinate is rebuilt in
// extended precision from the orbit center and the orbit-free iteration runs
// in big.Float at the orbit's precision.
func (e *Evaluator) fallback(delta0 complex128) PixelResult {
	prec := e.orbit.PrecisionBits()
	c := bigcomplex.New(prec)
	c.Add(e.orbit.Center, bigcomplex.FromComplex128(delta0, prec))

	res := iterateExact(c, e.opts.MaxIterations)
	res.Glitched = true
	if !res.Escaped {
		e.interior.Add(1)
	}
	return res
}

// EvaluateDirect computes the pixel at offset delta0 without the perturbation
// shortcut, always in extended precision. It exists so tests can cross-check
// the fast path and the glitch recovery against ground truth.
func (e *Evaluator) EvaluateDirect(delta0 complex128) PixelResult {
	prec := e.orbit.PrecisionBits()
	c := bigcomplex.New(prec)
	c.Add(e.orbit.Center, bigcomplex.FromComplex128(delta0, prec))
	return iterateExact(c, e.opts.MaxIterations)
}

// iterateExact is the plain Mandelbrot recurrence in big.Float arithmetic.
func iterateExact(c bigcomplex.Complex, maxIterations int) PixelResult {
	prec := c.Prec()
	z := bigcomplex.New(prec)
	absSq := new(big.Float).SetPrec(prec)
	bailoutSq := new(big.Float).SetPrec(prec).SetFloat64(escapeRadiusSq)

	for n := 0; n < maxIterations; n++ {
		if z.AbsSq(absSq).Cmp(bailoutSq) > 0 {
			fAbsSq, _ := absSq.Float64()
			return PixelResult{Value: smoothEscape(n, fAbsSq), Escaped: true}
		}
		z.Square(z)
		z.Add(z, c)
	}
	return PixelResult{}
}

// smoothEscape converts a discrete escape iteration and the squared magnitude
// at escape into the standard continuous iteration count
//
//	n + 1 - log₂(ln|z|)
//
// which removes the integer banding between adjacent iteration counts.
func smoothEscape(n int, absSq float64) float64 {
	lnAbs := 0.5 * math.Log(absSq)
	return float64(n) + 1 - math.Log(lnAbs)/math.Ln2
}
