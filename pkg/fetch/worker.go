package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/caschooldash/fetchclient/pkg/indicator"
	"github.com/caschooldash/fetchclient/pkg/ratelimit"
	"github.com/caschooldash/fetchclient/pkg/workqueue"
)

// Headers are the fixed, browser-identifying request headers the upstream
// service requires; it throttles requests that don't carry them.
var Headers = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Referer":         "https://www.caschooldashboard.org/",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9",
	"Connection":      "keep-alive",
}

// Config configures one Worker. Output, NextSlot, Queue, Limiter and
// Progress are shared by every worker in a run; Client is owned
// exclusively by this worker.
type Config struct {
	ID int

	Client  *http.Client
	Queue   *workqueue.Queue
	Limiter *ratelimit.Limiter

	Output   []indicator.SummaryCard
	NextSlot *atomic.Uint64
	Progress *Progress

	MaxRetries int
	BaseDelay  time.Duration
	Headers    map[string]string
}

// Worker pops URLs off the shared queue until it closes, fetching one at a
// time into its claimed output slot.
type Worker struct {
	cfg Config
}

// NewWorker constructs a worker from cfg. Headers defaults to the package's
// fixed browser-identifying set when nil.
func NewWorker(cfg Config) *Worker {
	if cfg.Headers == nil {
		cfg.Headers = Headers
	}
	return &Worker{cfg: cfg}
}

// Run drains the queue until it is closed and empty. Individual fetch
// failures are logged and leave their slot with an empty card; they never
// make Run return an error or stop the worker from moving to the next URL.
// Run always returns nil. If ctx is canceled while the worker waits on the
// limiter, the worker exits early rather than spinning against an
// already-dead limiter.
func (w *Worker) Run(ctx context.Context) error {
	for {
		url, ok := w.cfg.Queue.PopOrClose()
		if !ok {
			return nil
		}

		if err := w.cfg.Limiter.Acquire(ctx); err != nil {
			logger.Warn().Err(err).Int("worker_id", w.cfg.ID).Str("url", url).
				Msg("limiter acquire aborted, leaving slot empty")
			w.claimSlot()
			w.cfg.Progress.Increment()
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			continue
		}

		slot := w.claimSlot()
		start := time.Now()
		err := w.fetchInto(ctx, url, &w.cfg.Output[slot])
		fetchDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			logger.Warn().Err(err).Int("worker_id", w.cfg.ID).Uint64("slot", slot).
				Str("url", url).Msg("fetch failed, slot left empty")
		}

		w.cfg.Progress.Increment()
	}
}

func (w *Worker) claimSlot() uint64 {
	return w.cfg.NextSlot.Add(1) - 1
}

// fetchInto implements the retry/validate/decode pipeline: retry on
// transport-level faults only, then validate status/body shape, then hand
// off to the indicator decoder. It never retries on HTTP status or decode
// failure.
func (w *Worker) fetchInto(ctx context.Context, url string, card *indicator.SummaryCard) error {
	var lastErr error

	for attempt := 0; attempt <= w.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			card.RawBody = nil
			delay := w.cfg.BaseDelay * time.Duration(uint64(1)<<uint(attempt-1))
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		body, status, err := w.performRequest(ctx, url)
		if err != nil {
			lastErr = &TransportError{URL: url, Err: err, Retryable: isRetryableTransportErr(err)}
			if isRetryableTransportErr(err) {
				fetchRetriesTotal.WithLabelValues("transport").Inc()
				continue
			}
			fetchRequestsTotal.WithLabelValues("transport_error").Inc()
			return lastErr
		}

		card.RawBody = body

		if status < 200 || status >= 300 {
			fetchRequestsTotal.WithLabelValues("protocol_error").Inc()
			return &ProtocolError{URL: url, Status: status, Err: ErrHTTPStatus}
		}
		if len(body) == 0 {
			fetchRequestsTotal.WithLabelValues("protocol_error").Inc()
			return &ProtocolError{URL: url, Status: status, Err: ErrEmptyResponse}
		}
		if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
			fetchRequestsTotal.WithLabelValues("protocol_error").Inc()
			return &ProtocolError{URL: url, Status: status, Err: ErrInvalidJSON}
		}

		*card = indicator.DecodeCard(body)
		fetchRequestsTotal.WithLabelValues("ok").Inc()
		return nil
	}

	fetchRetryExhaustedTotal.WithLabelValues("transport").Inc()
	fetchRequestsTotal.WithLabelValues("transport_error").Inc()
	return lastErr
}

// performRequest issues one GET and returns the full body and status code.
// A non-nil error here is always transport-level; status/body-shape
// validation happens in the caller once the round trip itself has
// succeeded.
func (w *Worker) performRequest(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	for k, v := range w.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := w.cfg.Client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
