package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/caschooldash/fetchclient/pkg/indicator"
	"github.com/caschooldash/fetchclient/pkg/ratelimit"
	"github.com/caschooldash/fetchclient/pkg/workqueue"
)

// timeoutErr is a minimal net.Error used to simulate a transient transport
// timeout without touching the network.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

// flakyTransport fails the first `failures` round trips with a retryable
// timeout error, then delegates to inner.
type flakyTransport struct {
	calls    int32
	failures int32
	inner    http.RoundTripper
}

func (t *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	n := atomic.AddInt32(&t.calls, 1)
	if n <= t.failures {
		return nil, timeoutErr{}
	}
	return t.inner.RoundTrip(req)
}

func newTestWorker(client *http.Client, output []indicator.SummaryCard) (*Worker, *workqueue.Queue, *atomic.Uint64) {
	q := workqueue.New()
	var slot atomic.Uint64
	w := NewWorker(Config{
		ID:         0,
		Client:     client,
		Queue:      q,
		Limiter:    ratelimit.NewLimiter(ratelimit.FastPathThreshold),
		Output:     output,
		NextSlot:   &slot,
		Progress:   NewProgress(uint64(len(output))),
		MaxRetries: 3,
		BaseDelay:  250 * time.Millisecond,
	})
	return w, q, &slot
}

func TestWorker_FetchInto_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"indicatorId":1,"primary":{"status":2.1,"cdsCode":"01"}}]`))
	}))
	defer srv.Close()

	output := make([]indicator.SummaryCard, 1)
	worker, _, _ := newTestWorker(srv.Client(), output)

	if err := worker.fetchInto(context.Background(), srv.URL, &output[0]); err != nil {
		t.Fatalf("fetchInto: %v", err)
	}
	if len(output[0].Indicators) != 1 {
		t.Fatalf("expected 1 indicator, got %d", len(output[0].Indicators))
	}
	if output[0].Indicators[0].CDSCode != "01" {
		t.Fatalf("cdsCode = %q, want 01", output[0].Indicators[0].CDSCode)
	}
}

// TestWorker_FetchInto_RetriesTransientThenSucceeds is boundary scenario 6:
// a stub transport fails twice with a retryable error, then succeeds. The
// worker must perform exactly three requests and wait roughly
// 250ms + 500ms between them.
func TestWorker_FetchInto_RetriesTransientThenSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	transport := &flakyTransport{failures: 2, inner: srv.Client().Transport}
	client := &http.Client{Transport: transport}

	output := make([]indicator.SummaryCard, 1)
	worker, _, _ := newTestWorker(client, output)

	start := time.Now()
	if err := worker.fetchInto(context.Background(), srv.URL, &output[0]); err != nil {
		t.Fatalf("fetchInto: %v", err)
	}
	elapsed := time.Since(start)

	if transport.calls != 3 {
		t.Fatalf("expected 3 requests, got %d", transport.calls)
	}
	if elapsed < 700*time.Millisecond {
		t.Fatalf("expected roughly 750ms of backoff (at least 700ms), elapsed %v", elapsed)
	}
}

func TestWorker_FetchInto_PermanentTransportErrorNotRetried(t *testing.T) {
	var calls int32
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errPlain{}
	})}

	output := make([]indicator.SummaryCard, 1)
	worker, _, _ := newTestWorker(client, output)

	err := worker.fetchInto(context.Background(), "http://example.invalid", &output[0])
	if err == nil {
		t.Fatal("expected an error")
	}
	if !output[0].IsEmpty() {
		t.Fatal("expected empty card on permanent transport failure")
	}
	if calls != 1 {
		t.Fatalf("permanent transport errors must never retry, got %d calls", calls)
	}
}

func TestWorker_FetchInto_HTTPStatusNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	output := make([]indicator.SummaryCard, 1)
	worker, _, _ := newTestWorker(srv.Client(), output)

	err := worker.fetchInto(context.Background(), srv.URL, &output[0])
	if err == nil {
		t.Fatal("expected a protocol error")
	}
	if calls != 1 {
		t.Fatalf("HTTP status errors must never retry, got %d calls", calls)
	}
}

func TestWorker_FetchInto_InvalidJSONPreservesRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	output := make([]indicator.SummaryCard, 1)
	worker, _, _ := newTestWorker(srv.Client(), output)

	err := worker.fetchInto(context.Background(), srv.URL, &output[0])
	if err == nil {
		t.Fatal("expected an invalid JSON error")
	}
	if len(output[0].RawBody) == 0 {
		t.Fatal("expected rawBody to be preserved on invalid JSON")
	}
	if !output[0].IsEmpty() {
		t.Fatal("expected no indicators decoded from invalid JSON")
	}
}

func TestWorker_Run_DisjointSlots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"indicatorId":1,"primary":{}}]`))
	}))
	defer srv.Close()

	const n = 50
	output := make([]indicator.SummaryCard, n)
	q := workqueue.New()
	for i := 0; i < n; i++ {
		q.Push(srv.URL)
	}
	q.Close()

	var nextSlot atomic.Uint64
	progress := NewProgress(uint64(n))
	limiter := ratelimit.NewLimiter(ratelimit.FastPathThreshold)

	const workers = 8
	done := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		w := NewWorker(Config{
			ID:         i,
			Client:     srv.Client(),
			Queue:      q,
			Limiter:    limiter,
			Output:     output,
			NextSlot:   &nextSlot,
			Progress:   progress,
			MaxRetries: 3,
			BaseDelay:  250 * time.Millisecond,
		})
		go func() {
			w.Run(context.Background())
			done <- struct{}{}
		}()
	}
	for i := 0; i < workers; i++ {
		<-done
	}

	for i, card := range output {
		if card.IsEmpty() {
			t.Errorf("slot %d was never written", i)
		}
	}
	if got := nextSlot.Load(); got != n {
		t.Fatalf("nextSlot = %d, want %d", got, n)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

type errPlain struct{}

func (errPlain) Error() string { return "boom" }
