// Package metrics provides the shared Prometheus registry used by the fetch
// client. Metrics themselves are defined in their owning packages
// (coordinator, fetch, ratelimit, enrich) to keep modules independent; this
// package documents the resulting surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry. All metrics are
// automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - dashboard_limiter_acquires_total (Counter): Tokens acquired, by whether the fast path applied
//   - dashboard_limiter_wait_seconds (Histogram): Time spent waiting for a token
//
// Fetch Metrics (pkg/fetch, pkg/coordinator):
//   - dashboard_fetch_requests_total{status} (Counter): Completed fetches by outcome
//   - dashboard_fetch_duration_seconds (Histogram): Per-URL fetch duration
//   - dashboard_fetch_retries_total{error_class} (Counter): Retry attempts by error class
//   - dashboard_fetch_retry_exhausted_total{error_class} (Counter): Fetches that exhausted retries
//   - dashboard_pool_workers (Gauge): Active worker count for the current run
//
// Enrichment Metrics (pkg/enrich):
//   - dashboard_enrich_matched_total (Counter): Cards successfully stamped with (school, year)
//   - dashboard_enrich_unmatched_total (Counter): Non-empty cards with no metadata match
//
// Example Prometheus Queries:
//
//   # Fetch error rate
//   rate(dashboard_fetch_requests_total{status!="ok"}[5m])
//
//   # P95 fetch latency
//   histogram_quantile(0.95, rate(dashboard_fetch_duration_seconds_bucket[5m]))
//
//   # Retry exhaustion rate
//   rate(dashboard_fetch_retry_exhausted_total[5m])
