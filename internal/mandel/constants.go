// Package mandel implements the per-frame fractal field computation: the
// high-precision reference orbit, the fast perturbation escape-time evaluator,
// and the glitch-recovery fallback that keeps deep frames numerically valid.
// This file centralizes the numeric constants shared by those pieces.
package mandel

const (
	// EscapeRadius is the per-pixel bailout radius. Once |z| exceeds it the
	// orbit is guaranteed to diverge (any radius >= 2 suffices for z²+c).
	EscapeRadius = 2.0

	// escapeRadiusSq is the squared bailout used in the hot loops, avoiding a
	// square root per iteration.
	escapeRadiusSq = EscapeRadius * EscapeRadius

	// ReferenceEscapeRadius is the bailout for the reference orbit. It is far
	// beyond the pixel bailout so that reference values stay usable for
	// perturbation deltas of pixels that escape slightly later than the
	// reference point itself.
	ReferenceEscapeRadius = 1e10

	// DefaultGlitchTolerance is the relative-magnitude threshold for the
	// glitch predicate. When |z_ref + δ|² falls below tolerance·|z_ref|², the
	// perturbation has lost its significant bits to cancellation and the
	// pixel must be recomputed exactly.
	DefaultGlitchTolerance = 1e-6

	// orbitCancelCheckInterval is how many reference iterations run between
	// context checks. Orbit computation is the longest uninterruptible
	// stretch of big.Float work, so it polls cancellation itself.
	orbitCancelCheckInterval = 256
)
