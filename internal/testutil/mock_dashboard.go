// Package testutil provides a mock Dashboard server for tests that exercise
// pkg/fetch and pkg/coordinator without hitting the real upstream.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// CardResponse configures one SummaryCard-shaped response for a path.
type CardResponse struct {
	StatusCode int
	Body       string // raw body; takes precedence over Indicators if non-empty
	Indicators []map[string]any
}

// MockDashboard is a configurable mock of the Dashboard summary-card
// endpoint.
type MockDashboard struct {
	server *httptest.Server

	mu            sync.Mutex
	handlers      map[string]func(w http.ResponseWriter, r *http.Request)
	requestCounts map[string]int
	transientFail map[string]int // remaining failures to simulate before success

	RequestCount int
}

// NewMockDashboard creates a new mock server.
func NewMockDashboard() *MockDashboard {
	mock := &MockDashboard{
		handlers:      make(map[string]func(w http.ResponseWriter, r *http.Request)),
		requestCounts: make(map[string]int),
		transientFail: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.requestCounts[r.URL.Path]++

		if remaining := mock.transientFail[r.URL.Path]; remaining > 0 {
			mock.transientFail[r.URL.Path] = remaining - 1
			mock.mu.Unlock()
			// Close the connection before responding to simulate a recv error
			// without any valid HTTP framing reaching the client.
			if hj, ok := w.(http.Hijacker); ok {
				conn, _, err := hj.Hijack()
				if err == nil {
					conn.Close()
					return
				}
			}
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}
		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server's base URL.
func (m *MockDashboard) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockDashboard) Close() {
	m.server.Close()
}

// SetResponse configures a fixed response for a path.
func (m *MockDashboard) SetResponse(path string, resp CardResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = func(w http.ResponseWriter, r *http.Request) {
		status := resp.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		if resp.Body != "" {
			w.Write([]byte(resp.Body))
			return
		}
		body, err := json.Marshal(resp.Indicators)
		if err != nil {
			panic(fmt.Sprintf("mock dashboard: marshal indicators: %v", err))
		}
		w.Write(body)
	}
}

// FailTransiently makes the next n requests to path drop the connection
// before any response is written, then serve normally.
func (m *MockDashboard) FailTransiently(path string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transientFail[path] = n
}

// RequestCountFor returns how many requests a specific path has received.
func (m *MockDashboard) RequestCountFor(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCounts[path]
}

func (m *MockDashboard) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`[{"indicatorId":1,"primary":{"cdsCode":"00000000000000","schoolYearId":2024,"status":1.0}}]`))
}
