package mandel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Glitch recovery is invisible in the output by design, so the counters are
// the only way to see how hard the fallback path is working at a given depth.
var fallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mandelzoom_pixel_fallbacks_total",
		Help: "Pixels recomputed in extended precision after the perturbation fast path broke down",
	},
	[]string{"reason"},
)

const (
	fallbackReasonGlitch         = "glitch"
	fallbackReasonOrbitExhausted = "orbit_exhausted"
)

// recordFallback feeds the process-wide counters; the per-frame atomics in
// Evaluator stay separate so frame logs can report their own totals.
func recordFallback(reason string) {
	fallbacksTotal.WithLabelValues(reason).Inc()
}
