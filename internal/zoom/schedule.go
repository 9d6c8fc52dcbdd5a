// Package zoom maps frame indices to magnifications, magnifications to
// arithmetic precision, and zoom progress to center coordinates. Everything
// here is a pure function of its inputs, which is what makes frames
// independently computable and the whole run reproducible.
package zoom

import (
	"math"

	"github.com/maya0513/mandelbrot-animation/internal/bigcomplex"
)

// Default schedule parameters. These can be overridden via configuration.
const (
	// DefaultGuardBits is the number of extra mantissa bits kept beyond the
	// bits needed to resolve one magnification unit. The guard absorbs the
	// accumulated rounding of a long reference orbit so that escaping and
	// bounded points near the set boundary remain distinguishable.
	DefaultGuardBits = 24

	// MinPrecisionBits is the float64 mantissa width. Shallow frames never
	// need less, and using a stable floor keeps frame output independent of
	// neighboring magnifications.
	MinPrecisionBits = 53
)

// Schedule describes a geometric zoom from StartMagnification down to
// EndMagnification over FrameCount frames. The invariant
// StartMagnification > EndMagnification > 0 is enforced by config validation
// before a Schedule is constructed.
type Schedule struct {
	// StartMagnification is the magnification of frame 0.
	StartMagnification float64
	// EndMagnification is the magnification of the final frame.
	EndMagnification float64
	// FrameCount is the total number of frames in the run.
	FrameCount int
}

// MagnificationFor returns the magnification of the given frame index using
// geometric (log-linear) interpolation:
//
//	mag(i) = start * (end/start)^(i/(frameCount-1))
//
// Linear-in-log-space interpolation keeps the perceived zoom speed constant;
// a linear-in-magnification schedule would appear to stall almost immediately
// because zoom depth grows exponentially.
//
// A single-frame schedule yields StartMagnification.
func (s Schedule) MagnificationFor(index int) float64 {
	if s.FrameCount <= 1 || index <= 0 {
		return s.StartMagnification
	}
	if index >= s.FrameCount-1 {
		// Return the endpoint exactly rather than through Pow, so the final
		// frame's magnification is bit-identical to the configured value.
		return s.EndMagnification
	}
	t := float64(index) / float64(s.FrameCount-1)
	return s.StartMagnification * math.Pow(s.EndMagnification/s.StartMagnification, t)
}

// Progress returns the normalized position of index within the schedule,
// in [0, 1]. A single-frame schedule is always at progress 0.
func (s Schedule) Progress(index int) float64 {
	if s.FrameCount <= 1 {
		return 0
	}
	t := float64(index) / float64(s.FrameCount-1)
	return math.Min(math.Max(t, 0), 1)
}

// PrecisionBits returns the mantissa width required for reference-orbit and
// fallback arithmetic at the given magnification:
//
//	max(MinPrecisionBits, ceil(log2(1/magnification)) + guardBits)
//
// At magnification 1e-6 this is still the float64 floor; around 1e-16 the
// requirement starts exceeding 53 bits and the big.Float path becomes the
// only correct one.
func PrecisionBits(magnification float64, guardBits int) uint {
	if magnification <= 0 || math.IsInf(magnification, 0) || math.IsNaN(magnification) {
		return MinPrecisionBits + uint(guardBits)
	}
	need := int(math.Ceil(-math.Log2(magnification))) + guardBits
	if need < MinPrecisionBits {
		return MinPrecisionBits
	}
	return uint(need)
}

// FrameSpec fully determines one frame's fractal field: which point of the
// plane it is centered on, how deep it is zoomed, and how many bits the
// extended arithmetic must carry. It is derived deterministically from the
// schedule and never mutated afterwards.
type FrameSpec struct {
	// Index is the frame's position in [0, FrameCount).
	Index int
	// Magnification is the half-height of the viewport in plane units.
	Magnification float64
	// Center is the high-precision coordinate the frame is centered on.
	Center bigcomplex.Complex
	// PrecisionBits is the mantissa width for extended arithmetic.
	PrecisionBits uint
}

// FrameSpec derives the immutable spec for one frame from the schedule, the
// center path and the precision guard.
func (s Schedule) FrameSpec(index int, path Path, guardBits int) FrameSpec {
	mag := s.MagnificationFor(index)
	t := s.Progress(index)
	prec := PrecisionBits(mag, guardBits)
	center := path.CenterFor(t, mag, s.StartMagnification)
	return FrameSpec{
		Index:         index,
		Magnification: mag,
		Center:        bigcomplex.FromComplex128(center, prec),
		PrecisionBits: prec,
	}
}
