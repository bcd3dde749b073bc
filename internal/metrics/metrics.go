// Package metrics exposes Prometheus instrumentation for the poll loop and
// the cloud relay.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the collectors registered for this process.
type Metrics struct {
	// PollCycles counts completed poll cycles, labeled by resulting status
	// (live, stale, no_file).
	PollCycles *prometheus.CounterVec

	// ParseDiscards counts candidate lines that yielded no reading, labeled
	// by sensor kind.
	ParseDiscards *prometheus.CounterVec

	// FileAge is the telemetry file's age in seconds at the last cycle.
	FileAge prometheus.Gauge

	// RelayPushes counts cloud relay attempts, labeled ok/error.
	RelayPushes *prometheus.CounterVec
}

// New creates and registers the collectors on the given registerer.
// Pass prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PollCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "groundstation_poll_cycles_total",
			Help: "Completed telemetry poll cycles by resulting file status.",
		}, []string{"status"}),
		ParseDiscards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "groundstation_parse_discards_total",
			Help: "Candidate lines that produced no reading, by sensor kind.",
		}, []string{"sensor"}),
		FileAge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "groundstation_telem_file_age_seconds",
			Help: "Age of the telemetry file at the last poll cycle.",
		}),
		RelayPushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "groundstation_relay_pushes_total",
			Help: "Cloud relay push attempts by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.PollCycles, m.ParseDiscards, m.FileAge, m.RelayPushes)
	return m
}
