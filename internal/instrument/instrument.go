// Package instrument exports the Prometheus series a running system.System
// publishes: refresh-pass counts, how many containers were dirty going into
// the last pass, how many data-graph blocks got garbage collected, and how
// many async requests are currently in flight.
package instrument

import "github.com/prometheus/client_golang/prometheus"

// Metrics is a bundle of collectors registered against a single registry.
// Callers own the registry; NewMetrics only creates and registers the
// collectors, it never reaches for the global default registry itself.
type Metrics struct {
	RefreshPasses      prometheus.Counter
	DirtyContainers    prometheus.Gauge
	BlocksCollected    prometheus.Counter
	AsyncInFlight      prometheus.Gauge
	OrderingViolations prometheus.Counter
	DispatchPanics     prometheus.Counter
}

// NewMetrics creates the collector set and registers each one against reg.
// Registering the same collector twice against the same registry panics, so
// callers should build one Metrics per registry (the harness builds exactly
// one, at startup).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RefreshPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "alia",
			Name:      "refresh_passes_total",
			Help:      "Number of refresh passes the system loop has run.",
		}),
		DirtyContainers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "alia",
			Name:      "dirty_containers",
			Help:      "Number of containers marked dirty at the start of the most recent pass.",
		}),
		BlocksCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "alia",
			Name:      "blocks_collected_total",
			Help:      "Number of data-graph blocks garbage collected across all passes.",
		}),
		AsyncInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "alia",
			Name:      "async_in_flight",
			Help:      "Number of timing.Async operations currently running.",
		}),
		OrderingViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "alia",
			Name:      "ordering_violations_total",
			Help:      "Number of named-block ordering violations detected on non-refresh passes.",
		}),
		DispatchPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "alia",
			Name:      "dispatch_panics_total",
			Help:      "Number of panics routed through IsolateErrors during dispatch.",
		}),
	}

	reg.MustRegister(
		m.RefreshPasses,
		m.DirtyContainers,
		m.BlocksCollected,
		m.AsyncInFlight,
		m.OrderingViolations,
		m.DispatchPanics,
	)
	return m
}
