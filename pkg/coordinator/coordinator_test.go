package coordinator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/caschooldash/fetchclient/pkg/indicator"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PoolSize = 4
	cfg.Timeout = 2 * time.Second
	cfg.BaseDelay = 10 * time.Millisecond
	cfg.CABundlePaths = nil
	return cfg
}

func TestCoordinator_Run_NoURLs(t *testing.T) {
	c := New(testConfig())
	ok, err := c.Run(context.Background(), nil, nil, 0)
	if ok || err != nil {
		t.Fatalf("ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}

func TestCoordinator_Run_OutputTooSmall(t *testing.T) {
	c := New(testConfig())
	output := make([]indicator.SummaryCard, 1)
	ok, err := c.Run(context.Background(), []string{"http://a", "http://b"}, output, 0)
	if ok || err == nil {
		t.Fatalf("ok=%v err=%v, want ok=false err!=nil", ok, err)
	}
}

// TestCoordinator_Run_DisjointSlots checks slot coverage: after Run returns
// true, every slot in [base, base+n) holds a decoded card, and the
// pre-existing prefix is untouched.
func TestCoordinator_Run_DisjointSlots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"indicatorId":1,"primary":{"cdsCode":"01","schoolYearId":2024}}]`))
	}))
	defer srv.Close()

	const base = 2
	const n = 30
	output := make([]indicator.SummaryCard, base+n)
	sentinel := indicator.SummaryCard{SchoolName: "preserved"}
	output[0] = sentinel
	output[1] = sentinel

	urls := make([]string, n)
	for i := range urls {
		urls[i] = srv.URL
	}

	c := New(testConfig())
	ok, err := c.Run(context.Background(), urls, output, base)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}

	if output[0].SchoolName != "preserved" || output[1].SchoolName != "preserved" {
		t.Fatal("base-offset prefix was overwritten")
	}
	for i := base; i < base+n; i++ {
		if output[i].IsEmpty() {
			t.Errorf("slot %d was never written", i)
		}
	}
}
