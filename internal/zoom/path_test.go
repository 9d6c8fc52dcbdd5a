package zoom

import (
	"math/cmplx"
	"testing"
)

func TestPathPositionEndpoints(t *testing.T) {
	t.Parallel()
	p := DefaultPath()

	if got := p.Position(0); got != p.Waypoints[0] {
		t.Errorf("Position(0) = %v, want first waypoint %v", got, p.Waypoints[0])
	}
	last := p.Waypoints[len(p.Waypoints)-1]
	if got := p.Position(1); cmplx.Abs(got-last) > 1e-9 {
		t.Errorf("Position(1) = %v, want last waypoint %v", got, last)
	}
}

func TestPathPositionClampsProgress(t *testing.T) {
	t.Parallel()
	p := DefaultPath()
	if got := p.Position(-5); got != p.Waypoints[0] {
		t.Errorf("Position(-5) = %v, want first waypoint", got)
	}
	last := p.Waypoints[len(p.Waypoints)-1]
	if got := p.Position(7); cmplx.Abs(got-last) > 1e-9 {
		t.Errorf("Position(7) = %v, want last waypoint", got)
	}
}

func TestPathSinglePoint(t *testing.T) {
	t.Parallel()
	p := Path{Waypoints: []complex128{complex(-0.5, 0)}}
	for _, progress := range []float64{0, 0.3, 1} {
		if got := p.Position(progress); got != complex(-0.5, 0) {
			t.Errorf("Position(%v) = %v, want constant center", progress, got)
		}
	}
}

func TestCenterDampening(t *testing.T) {
	t.Parallel()
	p := DefaultPath()
	base := p.Waypoints[0]

	// At full zoom depth the ratio collapses and the center locks to the
	// first waypoint no matter where the raw path has wandered.
	deep := p.CenterFor(1, 1e-6, 1.0)
	if cmplx.Abs(deep-base) > 1e-6 {
		t.Errorf("deep center %v strayed from locked waypoint %v", deep, base)
	}

	// At frame zero the raw path is itself at the first waypoint.
	start := p.CenterFor(0, 1.0, 1.0)
	if start != base {
		t.Errorf("start center = %v, want %v", start, base)
	}
}

func TestCenterForZeroStartMagnification(t *testing.T) {
	t.Parallel()
	// Degenerate startMag must not divide by zero; the undampened path
	// position is used instead.
	p := DefaultPath()
	got := p.CenterFor(1, 0.5, 0)
	want := p.Position(1)
	if cmplx.Abs(got-want) > 1e-12 {
		t.Errorf("CenterFor with startMag=0: got %v, want raw path position %v", got, want)
	}
}
