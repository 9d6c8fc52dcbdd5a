package zoom

import "math"

// Path is the fixed trajectory the zoom center follows, given as waypoints in
// the complex plane. The renderer interpolates linearly between consecutive
// waypoints as the run progresses, then dampens the drift so the camera locks
// onto the first waypoint as the zoom deepens (deep frames cover so little of
// the plane that any residual drift would fling the target off-screen).
type Path struct {
	Waypoints []complex128
}

// DefaultPath returns the built-in deep-zoom trajectory. The waypoints sit on
// the seahorse-valley spiral near -0.7436+0.1318i, ordered from the precise
// deep target outward.
func DefaultPath() Path {
	return Path{Waypoints: []complex128{
		complex(-0.743643887037151, 0.13182590420533),
		complex(-0.743643135, 0.13182733),
		complex(-0.743642, 0.131829),
		complex(-0.74364085, 0.1318309),
	}}
}

// Position returns the piecewise-linear interpolation of the waypoints at
// progress t in [0, 1]. A single-waypoint path is constant.
func (p Path) Position(t float64) complex128 {
	if len(p.Waypoints) == 0 {
		return 0
	}
	if len(p.Waypoints) == 1 {
		return p.Waypoints[0]
	}
	segments := float64(len(p.Waypoints) - 1)
	scaled := math.Min(math.Max(t, 0)*segments, segments-1e-9)
	seg := int(math.Floor(scaled))
	frac := scaled - float64(seg)
	a := p.Waypoints[seg]
	b := p.Waypoints[seg+1]
	return a + complex(frac, 0)*(b-a)
}

// CenterFor returns the frame center at progress t, magnification mag.
// The raw path position is pulled back toward the first waypoint by the
// ratio mag/startMag, so the drift is only visible while the zoom is still
// shallow and fades out as magnification collapses.
func (p Path) CenterFor(t, mag, startMag float64) complex128 {
	if len(p.Waypoints) == 0 {
		return 0
	}
	base := p.Waypoints[0]
	target := p.Position(t)
	ratio := 1.0
	if startMag > 0 {
		ratio = math.Min(math.Max(mag/startMag, 0), 1)
	}
	return base + complex(ratio, 0)*(target-base)
}
