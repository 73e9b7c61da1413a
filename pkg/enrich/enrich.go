package enrich

import (
	"context"
	"runtime"

	"github.com/caschooldash/fetchclient/pkg/indicator"
	"golang.org/x/sync/errgroup"
)

// Key identifies one (school, year) lookup: a CDS code plus the upstream
// school-year id carried in the response body.
type Key struct {
	CDSCode      string
	SchoolYearID uint64
}

// Value is what a Key resolves to.
type Value struct {
	SchoolName string
	Year       int
}

// Metadata is a read-only lookup built once by the caller from the URL
// list before Run. It is never written to concurrently with reads, so no
// locking is needed here.
type Metadata map[Key]Value

// Run partitions cards into runtime.GOMAXPROCS(0) contiguous ranges and
// stamps each non-empty card's SchoolName and Year from meta, processing
// every range in its own goroutine. Ranges are disjoint slices of the same
// backing array, so no locks are required.
func Run(ctx context.Context, cards []indicator.SummaryCard, meta Metadata) error {
	if len(cards) == 0 {
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(cards) {
		workers = len(cards)
	}
	chunk := (len(cards) + workers - 1) / workers

	g, _ := errgroup.WithContext(ctx)
	for start := 0; start < len(cards); start += chunk {
		end := start + chunk
		if end > len(cards) {
			end = len(cards)
		}
		rng := cards[start:end]
		g.Go(func() error {
			enrichRange(rng, meta)
			return nil
		})
	}
	return g.Wait()
}

func enrichRange(cards []indicator.SummaryCard, meta Metadata) {
	for i := range cards {
		card := &cards[i]
		if card.IsEmpty() {
			continue
		}

		first := card.Indicators[0]
		key := Key{CDSCode: first.CDSCode, SchoolYearID: first.SchoolYearID}

		val, ok := meta[key]
		if !ok {
			unmatchedTotal.Inc()
			logger.Debug().Str("cds_code", key.CDSCode).Uint64("school_year_id", key.SchoolYearID).
				Msg("no metadata match for card")
			continue
		}

		card.SchoolName = val.SchoolName
		card.Year = val.Year
		matchedTotal.Inc()
	}
}
