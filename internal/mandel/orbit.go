package mandel

import (
	"context"
	"math/big"

	"github.com/maya0513/mandelbrot-animation/internal/bigcomplex"
)

// ReferenceOrbit is the high-precision iteration of one frame's center point,
// downconverted step by step to complex128 for the fast perturbation path.
// It is computed once per frame, shared read-only by every pixel evaluation
// of that frame, and discarded when the frame completes.
type ReferenceOrbit struct {
	// Center is the high-precision coordinate the orbit was iterated from.
	// It is retained for the per-pixel fallback path, which re-derives exact
	// pixel coordinates as Center + delta.
	Center bigcomplex.Complex

	// Points holds z_0, z_1, ... downconverted to complex128. Points[0] is
	// always 0. The slice is shorter than the iteration budget when the
	// reference point itself escapes.
	Points []complex128

	// Escaped reports whether the reference point left the reference bailout
	// radius before the iteration budget was exhausted.
	Escaped bool
}

// Len returns the number of stored reference iterates.
func (o *ReferenceOrbit) Len() int { return len(o.Points) }

// PrecisionBits returns the mantissa width the orbit was computed at.
func (o *ReferenceOrbit) PrecisionBits() uint { return o.Center.Prec() }

// ComputeOrbit iterates z' = z² + center from z=0 in extended precision,
// recording each iterate. It stops after maxIterations points, when the
// orbit escapes the reference bailout, or when ctx is canceled.
//
// An orbit shorter than maxIterations is not an error: it means the center
// itself escapes, and pixels needing more iterations than the orbit holds
// are recovered through the evaluator's direct fallback.
func ComputeOrbit(ctx context.Context, center bigcomplex.Complex, maxIterations int, precisionBits uint) (*ReferenceOrbit, error) {
	prec := precisionBits
	if prec < zoomMinPrec {
		prec = zoomMinPrec
	}

	c := center.Copy()
	c.SetPrec(prec)

	orbit := &ReferenceOrbit{
		Center: c,
		Points: make([]complex128, 0, maxIterations),
	}

	z := bigcomplex.New(prec)
	absSq := new(big.Float).SetPrec(prec)
	bailoutSq := new(big.Float).SetPrec(prec).SetFloat64(ReferenceEscapeRadius * ReferenceEscapeRadius)

	for n := 0; n < maxIterations; n++ {
		if n%orbitCancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		orbit.Points = append(orbit.Points, z.Complex128())

		z.Square(z)
		z.Add(z, c)

		if z.AbsSq(absSq).Cmp(bailoutSq) > 0 {
			orbit.Escaped = true
			break
		}
	}

	return orbit, nil
}

// zoomMinPrec mirrors zoom.MinPrecisionBits without importing the package;
// an orbit below float64 precision would be strictly worse than no orbit.
const zoomMinPrec = 53
