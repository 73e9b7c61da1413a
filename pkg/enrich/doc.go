// Package enrich stamps each fetched SummaryCard with the school name and
// year its URL was built for. The fetch response carries only a CDS code
// and a school-year id; the caller-supplied Metadata map is what turns
// those into human-readable (school, year).
package enrich

import (
	"github.com/caschooldash/fetchclient/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var logger = logging.NewLogger("enrich")

var (
	matchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_enrich_matched_total",
		Help: "Cards successfully stamped with (school, year)",
	})

	unmatchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_enrich_unmatched_total",
		Help: "Non-empty cards with no metadata match",
	})
)
