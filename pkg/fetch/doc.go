// Package fetch implements the bounded worker pool that drains the shared
// work queue: pop a URL, wait on the rate limiter, claim an output slot,
// fetch and decode, record progress. A failed fetch never aborts its
// siblings — each worker runs until the queue is exhausted, or until its
// context is canceled while it waits on the limiter.
package fetch

import (
	"github.com/caschooldash/fetchclient/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var logger = logging.NewLogger("fetch-worker")

// Prometheus metrics for fetch operations.
var (
	fetchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_fetch_requests_total",
		Help: "Completed fetches by outcome",
	}, []string{"status"}) // "ok", "transport_error", "protocol_error"

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_fetch_duration_seconds",
		Help:    "Per-URL fetch duration, including retries",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	fetchRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_fetch_retries_total",
		Help: "Retry attempts by error class",
	}, []string{"error_class"})

	fetchRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_fetch_retry_exhausted_total",
		Help: "Fetches that exhausted all retries, by error class",
	}, []string{"error_class"})
)
