// Package metrics exposes Prometheus instrumentation for the
// orchestrator. It is the observability companion spec.md's reporting
// Non-goal does not exclude: the core still emits call counts and
// latency, it just doesn't build dashboards on top of them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallet",
		Name:      "operations_total",
		Help:      "Count of orchestrator operations by name and outcome kind.",
	}, []string{"operation", "outcome"})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wallet",
		Name:      "operation_duration_seconds",
		Help:      "Latency of orchestrator operations, including lock wait time.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	TransfersInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wallet",
		Name:      "transfers_in_flight",
		Help:      "Number of transfer operations currently in progress.",
	})

	IdempotencyRecordsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wallet",
		Name:      "idempotency_records_swept_total",
		Help:      "Count of expired idempotency records deleted by the background sweeper.",
	})
)

// ObserveOperation is a small helper the orchestrator calls around each
// transfer entry point (TopUp, IssueBonus, Purchase). GetBalance and
// GetTransactions are not observed.
func ObserveOperation(operation string, outcome string, seconds float64) {
	OperationsTotal.WithLabelValues(operation, outcome).Inc()
	OperationDuration.WithLabelValues(operation).Observe(seconds)
}
