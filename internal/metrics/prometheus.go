package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "crmstore"

// Metrics holds all Prometheus metrics for the entity stores
type Metrics struct {
	// Index integrity
	InconsistenciesTotal *prometheus.CounterVec

	// Store state
	EntitiesTotal   *prometheus.GaugeVec
	TombstonesTotal *prometheus.GaugeVec
	OperationsTotal *prometheus.CounterVec
	QueryResults    *prometheus.HistogramVec

	// Consistency checks
	HealthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg.
// A nil reg leaves the metrics unregistered.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		InconsistenciesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "inconsistencies_total",
			Help:      "Total number of index entries found missing during removal",
		}, []string{"store", "index"}),

		EntitiesTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "entities",
			Help:      "Current number of live entities per store",
		}, []string{"store"}),
		TombstonesTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "tombstones",
			Help:      "Current number of soft-removed entities retained per store",
		}, []string{"store"}),
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of applied store mutations",
		}, []string{"store", "operation"}),
		QueryResults: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "query_results",
			Help:      "Histogram of entities returned per index query",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1 to 16K
		}, []string{"store", "index"}),

		HealthChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "checks_total",
			Help:      "Total number of consistency checks by resulting status",
		}, []string{"status"}),
	}
}
