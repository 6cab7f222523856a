// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	MediaOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_media_operations_total",
			Help: "Media uploads and deletions by outcome",
		},
		[]string{"operation", "outcome"},
	)

	MediaOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_media_operation_duration_seconds",
			Help:    "Media operation latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	OrphansSwept = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_orphan_sweeps_total",
			Help: "Stale upload intents handled by the sweeper",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		MediaOperationsTotal,
		MediaOperationDuration,
		OrphansSwept,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records one served HTTP request.
func RecordRequest(method, route, status string, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordMedia records one media orchestration and its outcome.
func RecordMedia(operation, outcome string, duration time.Duration) {
	MediaOperationsTotal.WithLabelValues(operation, outcome).Inc()
	MediaOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
