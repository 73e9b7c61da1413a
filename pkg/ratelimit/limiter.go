// Package ratelimit implements the global token-bucket admission control
// shared by every fetch worker. It monitors nothing from the upstream
// service; it only caps how many requests the pool issues per second.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/caschooldash/fetchclient/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FastPathThreshold is the rate at or above which the limiter treats
// itself as effectively unlimited and returns immediately with no
// locking.
const FastPathThreshold = 1000.0

// Prometheus metrics for limiter operations.
var (
	limiterAcquiresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_limiter_acquires_total",
		Help: "Total number of token acquisitions, by path taken",
	}, []string{"path"}) // "fast" or "bucket"

	limiterWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_limiter_wait_seconds",
		Help:    "Time spent waiting for a token to become available",
		Buckets: []float64{0, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)

var logger = logging.NewLogger("ratelimit")

// Limiter is a capacity-R, refill-rate-R token bucket shared by all
// workers in one fetch run. Capacity equals R: one second of burst.
type Limiter struct {
	rate float64 // tokens per second; also bucket capacity

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time

	fastPath bool
}

// NewLimiter creates a limiter admitting at most rate requests per second.
// A rate at or above FastPathThreshold disables the limiter entirely.
func NewLimiter(rate float64) *Limiter {
	return &Limiter{
		rate:       rate,
		tokens:     rate,
		lastRefill: time.Now(),
		fastPath:   rate >= FastPathThreshold,
	}
}

// Acquire blocks until at least one token is available, deducts one, and
// returns. It honors context cancellation while waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l.fastPath {
		limiterAcquiresTotal.WithLabelValues("fast").Inc()
		return nil
	}

	start := time.Now()
	defer func() {
		limiterWaitSeconds.Observe(time.Since(start).Seconds())
	}()

	for {
		wait, ok := l.tryAcquire()
		if ok {
			limiterAcquiresTotal.WithLabelValues("bucket").Inc()
			return nil
		}

		logger.Debug().Dur("wait", wait).Msg("bucket empty, sleeping for refill")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAcquire refills the bucket against the monotonic clock and either
// deducts a token (ok=true) or reports how long the caller must sleep
// before trying again.
func (l *Limiter) tryAcquire() (wait time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	l.tokens += elapsed * l.rate
	if l.tokens > l.rate {
		l.tokens = l.rate
	}
	l.lastRefill = now

	if l.tokens >= 1 {
		l.tokens--
		return 0, true
	}

	remaining := 1 - l.tokens
	return time.Duration(remaining / l.rate * float64(time.Second)), false
}
