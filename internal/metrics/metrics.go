package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Notification dispatch metrics
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_dispatch_total",
			Help: "Total number of terminal notification dispatch attempts",
		},
		[]string{"outcome"},
	)

	dispatchSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_dispatch_skipped_total",
			Help: "Total number of notification dispatches skipped before publishing",
		},
		[]string{"reason"},
	)

	dispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notify_dispatch_duration_seconds",
			Help:    "Wall-clock duration of notification publish attempts in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// HTTP server metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpserver_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "path", "status"},
	)
)

// RecordDispatchOutcome records one terminal dispatch attempt.
func RecordDispatchOutcome(outcome string, elapsed time.Duration) {
	dispatchTotal.WithLabelValues(outcome).Inc()
	dispatchDuration.Observe(elapsed.Seconds())
}

// RecordDispatchSkipped records a dispatch that never reached the transport.
func RecordDispatchSkipped(reason string) {
	dispatchSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, path string, status int) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
