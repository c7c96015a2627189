package sim

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Structs

// Metrics collects the counters the simulation maintains while replicas
// exchange operations and states.
type Metrics struct {
	OpsPrepared metrics.Counter
	OpsApplied  metrics.Counter
	Duplicates  metrics.Counter
	Rejected    metrics.Counter
	Merges      metrics.Counter
	Converged   metrics.Gauge
}

// Functions

// NewMetrics returns the simulation metrics, backed by prometheus if an
// exposition address is configured and discarded otherwise.
func NewMetrics(prometheusAddr string) *Metrics {

	if prometheusAddr == "" {
		return &Metrics{
			OpsPrepared: discard.NewCounter(),
			OpsApplied:  discard.NewCounter(),
			Duplicates:  discard.NewCounter(),
			Rejected:    discard.NewCounter(),
			Merges:      discard.NewCounter(),
			Converged:   discard.NewGauge(),
		}
	}

	return &Metrics{
		OpsPrepared: prometheus.NewCounterFrom(prom.CounterOpts{
			Namespace: "lattice",
			Subsystem: "sim",
			Name:      "ops_prepared_total",
			Help:      "Number of local operations prepared and broadcast",
		}, nil),
		OpsApplied: prometheus.NewCounterFrom(prom.CounterOpts{
			Namespace: "lattice",
			Subsystem: "sim",
			Name:      "ops_applied_total",
			Help:      "Number of operations applied from the simulated transport",
		}, nil),
		Duplicates: prometheus.NewCounterFrom(prom.CounterOpts{
			Namespace: "lattice",
			Subsystem: "sim",
			Name:      "duplicates_suppressed_total",
			Help:      "Number of deliveries suppressed as already applied",
		}, nil),
		Rejected: prometheus.NewCounterFrom(prom.CounterOpts{
			Namespace: "lattice",
			Subsystem: "sim",
			Name:      "ops_rejected_total",
			Help:      "Number of deliveries rejected by field validation",
		}, nil),
		Merges: prometheus.NewCounterFrom(prom.CounterOpts{
			Namespace: "lattice",
			Subsystem: "sim",
			Name:      "merges_total",
			Help:      "Number of full state joins between replicas",
		}, nil),
		Converged: prometheus.NewGaugeFrom(prom.GaugeOpts{
			Namespace: "lattice",
			Subsystem: "sim",
			Name:      "converged",
			Help:      "1 if all replicas currently hold identical state, 0 otherwise",
		}, nil),
	}
}
