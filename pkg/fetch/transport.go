package fetch

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// DialFunc resolves and dials one TCP connection for a given network/address
// pair. The coordinator supplies an implementation backed by its
// pre-resolved host table; workers fall back to the zero value (ordinary
// DNS) when the coordinator has none.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// TransportConfig carries everything a worker needs to build its own
// persistent *http.Client. Every field is owned and resolved once by the
// coordinator and then shared read-only across all workers.
type TransportConfig struct {
	DialContext DialFunc
	TLSConfig   *tls.Config
	Timeout     time.Duration
}

// NewClient builds one persistent HTTP client for a worker: keep-alive
// connections, HTTP/2 negotiated over ALPN with an explicit HTTP/1.1
// fallback, and a per-request timeout covering the full round trip (so each
// retry attempt gets a fresh timeout window).
func NewClient(cfg TransportConfig) *http.Client {
	dial := cfg.DialContext
	if dial == nil {
		dial = (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext
	}

	transport := &http.Transport{
		DialContext:         dial,
		TLSClientConfig:     cfg.TLSConfig,
		MaxIdleConnsPerHost: 1,
		IdleConnTimeout:     30 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	// A custom TLSClientConfig disables net/http's automatic HTTP/2
	// upgrade, so ALPN negotiation (with HTTP/1.1 fallback when the
	// server doesn't speak h2) is wired in explicitly.
	if err := http2.ConfigureTransport(transport); err != nil {
		logger.Warn().Err(err).Msg("http2 configuration failed, falling back to HTTP/1.1 only")
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
}
