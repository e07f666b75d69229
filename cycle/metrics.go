package cycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// transitionsTotal counts applied transitions.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cyclekit_transitions_total",
		Help: "Total number of applied state transitions by cycle, from_state and to_state",
	}, []string{"cycle", "from_state", "to_state"})

	// staleCallbacksTotal counts deferred callbacks that were discarded.
	staleCallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cyclekit_stale_callbacks_total",
		Help: "Total number of deferred transitions discarded by cycle and reason (superseded, cancelled, destroyed)",
	}, []string{"cycle", "reason"})

	// stateDwellSeconds tracks how long each state stayed current.
	stateDwellSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cyclekit_state_dwell_seconds",
		Help:    "Time a state remained current before the next transition, by cycle and state",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"cycle", "state"})

	// activeTransitioners tracks transitioners registered across all registries.
	activeTransitioners = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cyclekit_active_transitioners",
		Help: "Number of transitioners currently registered",
	})
)

func sanitizeCycle(name string) string {
	if name == "" {
		return "unnamed"
	}

	return name
}
