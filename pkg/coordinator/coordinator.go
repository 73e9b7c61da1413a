package coordinator

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/caschooldash/fetchclient/pkg/fetch"
	"github.com/caschooldash/fetchclient/pkg/indicator"
	"github.com/caschooldash/fetchclient/pkg/ratelimit"
	"github.com/caschooldash/fetchclient/pkg/workqueue"
	"golang.org/x/sync/errgroup"
)

// Coordinator runs one bulk fetch: it owns the shared host state, the
// worker pool's lifecycle, and the pre-sized output array workers write
// into.
type Coordinator struct {
	cfg Config
}

// New creates a Coordinator for one fetch run.
func New(cfg Config) *Coordinator {
	return &Coordinator{cfg: cfg}
}

// Run executes the eight-step startup sequence from spec.md §4.E and
// blocks until every worker has drained the queue. output must already
// have at least baseOffset+len(urls) slots; existing entries below
// baseOffset are preserved. Run returns ok=false only when there is
// nothing to fetch or the output array is too small to hold it — never
// because individual fetches failed.
func (c *Coordinator) Run(ctx context.Context, urls []string, output []indicator.SummaryCard, baseOffset int) (ok bool, err error) {
	if len(urls) == 0 {
		logger.Error().Msg("no urls to fetch")
		return false, nil
	}
	if len(output) < baseOffset+len(urls) {
		return false, fmt.Errorf("coordinator: output has %d slots, need %d", len(output), baseOffset+len(urls))
	}

	caPool := loadCABundle(c.cfg.CABundlePaths)

	dns := newDNSCache()
	resolvedIPs, resolveErr := dns.lookup(ctx, apiHost)

	var transportDial fetch.DialFunc
	if resolveErr != nil {
		logger.Warn().Err(resolveErr).Str("host", apiHost).
			Msg("api host pre-resolve failed, workers fall back to per-worker DNS")
	} else {
		logger.Info().Str("host", apiHost).Int("ip_count", len(resolvedIPs)).
			Msg("resolved api host, building dial override")
		transportDial = dialOverride(dns)
	}

	limiter := ratelimit.NewLimiter(c.cfg.MaxRequestsPerSec)

	queue := workqueue.New()
	for _, u := range urls {
		queue.Push(u)
	}
	queue.Close()

	progress := fetch.NewProgress(uint64(len(urls)))
	var nextSlot atomic.Uint64
	nextSlot.Store(uint64(baseOffset))

	poolSize := c.cfg.PoolSize
	if poolSize > len(urls) {
		poolSize = len(urls)
	}
	poolWorkers.Set(float64(poolSize))
	defer poolWorkers.Set(0)

	tlsConfig := &tls.Config{RootCAs: caPool}

	clients := make([]*http.Client, 0, poolSize)
	defer func() {
		for _, client := range clients {
			client.CloseIdleConnections()
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < poolSize; i++ {
		client := fetch.NewClient(fetch.TransportConfig{
			DialContext: transportDial,
			TLSConfig:   tlsConfig,
			Timeout:     c.cfg.Timeout,
		})
		clients = append(clients, client)
		worker := fetch.NewWorker(fetch.Config{
			ID:         i,
			Client:     client,
			Queue:      queue,
			Limiter:    limiter,
			Output:     output,
			NextSlot:   &nextSlot,
			Progress:   progress,
			MaxRetries: c.cfg.MaxRetries,
			BaseDelay:  c.cfg.BaseDelay,
		})
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}

	if waitErr := g.Wait(); waitErr != nil {
		return false, fmt.Errorf("coordinator: worker pool: %w", waitErr)
	}
	return true, nil
}
