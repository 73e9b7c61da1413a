// Package coordinator owns one fetch run end to end: CA bundle discovery,
// DNS pre-resolution and the shared host-state cache, a check that the
// caller-allocated output is large enough (it is not grown here),
// work-queue fill, worker-pool spawn, and teardown. It is the only package
// that constructs pkg/fetch.Worker and pkg/ratelimit.Limiter instances.
package coordinator

import (
	"github.com/caschooldash/fetchclient/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var logger = logging.NewLogger("coordinator")

// apiHost is the single upstream host every generated URL targets; it is
// resolved once per run and injected into every worker's dial override.
const apiHost = "api.caschooldashboard.org"

var poolWorkers = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dashboard_pool_workers",
	Help: "Active worker count for the current run",
})
