package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of remote gateway requests",
		},
		[]string{"operation", "result"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Duration of remote gateway requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	paymentOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_operations_total",
			Help: "Total number of payment operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// ObserveGatewayRequest records one remote gateway call. result is "ok" for a
// completed exchange, or a transport-level failure mode.
func ObserveGatewayRequest(operation, result string, duration time.Duration) {
	gatewayRequestsTotal.WithLabelValues(operation, result).Inc()
	gatewayRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPaymentOperation records the business outcome of an orchestration
// entry point (authorize, capture, void, refund, create_method, delete_method).
func RecordPaymentOperation(operation, outcome string) {
	paymentOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
