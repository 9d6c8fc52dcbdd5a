package mandel

import (
	"context"
	"testing"

	"github.com/maya0513/mandelbrot-animation/internal/bigcomplex"
)

func TestComputeOrbitOriginIsBounded(t *testing.T) {
	t.Parallel()
	// c=0 iterates 0 -> 0 forever: the canonical bounded point.
	center := bigcomplex.FromFloat64(0, 0, 64)
	orbit, err := ComputeOrbit(context.Background(), center, 1000, 64)
	if err != nil {
		t.Fatalf("ComputeOrbit: %v", err)
	}
	if orbit.Escaped {
		t.Fatal("orbit of c=0 reported as escaped")
	}
	if orbit.Len() != 1000 {
		t.Fatalf("orbit length = %d, want full budget 1000", orbit.Len())
	}
	for n, z := range orbit.Points {
		if z != 0 {
			t.Fatalf("Points[%d] = %v, want 0", n, z)
		}
	}
}

func TestComputeOrbitMatchesStandardIteration(t *testing.T) {
	t.Parallel()
	// For a shallow center the downconverted orbit must match plain
	// complex128 iteration closely.
	c := complex(-0.5, 0.25)
	center := bigcomplex.FromComplex128(c, 64)
	orbit, err := ComputeOrbit(context.Background(), center, 50, 64)
	if err != nil {
		t.Fatalf("ComputeOrbit: %v", err)
	}

	z := complex(0, 0)
	for n := 0; n < orbit.Len(); n++ {
		got := orbit.Points[n]
		if d := got - z; real(d)*real(d)+imag(d)*imag(d) > 1e-24 {
			t.Fatalf("Points[%d] = %v, want %v", n, got, z)
		}
		z = z*z + c
	}
}

func TestComputeOrbitEscapingCenterTerminatesEarly(t *testing.T) {
	t.Parallel()
	center := bigcomplex.FromFloat64(2, 2, 64)
	orbit, err := ComputeOrbit(context.Background(), center, 10000, 64)
	if err != nil {
		t.Fatalf("ComputeOrbit: %v", err)
	}
	if !orbit.Escaped {
		t.Fatal("orbit of c=2+2i did not escape")
	}
	if orbit.Len() >= 10000 {
		t.Fatalf("escaping orbit stored %d points, expected early termination", orbit.Len())
	}
}

func TestComputeOrbitHonorsCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	center := bigcomplex.FromFloat64(-0.5, 0, 64)
	if _, err := ComputeOrbit(ctx, center, 100000, 64); err == nil {
		t.Fatal("ComputeOrbit ignored a canceled context")
	}
}

func TestComputeOrbitDeterminism(t *testing.T) {
	t.Parallel()
	center := bigcomplex.FromFloat64(-0.743643887037151, 0.13182590420533, 96)
	a, err := ComputeOrbit(context.Background(), center, 2000, 96)
	if err != nil {
		t.Fatalf("first orbit: %v", err)
	}
	b, err := ComputeOrbit(context.Background(), center, 2000, 96)
	if err != nil {
		t.Fatalf("second orbit: %v", err)
	}
	if a.Len() != b.Len() {
		t.Fatalf("orbit lengths differ: %d vs %d", a.Len(), b.Len())
	}
	for n := range a.Points {
		if a.Points[n] != b.Points[n] {
			t.Fatalf("Points[%d] differ between identical computations", n)
		}
	}
}
