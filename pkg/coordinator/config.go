package coordinator

import "time"

// Config controls one fetch run. DefaultConfig mirrors the values named in
// spec.md §4.D/§4.E/§6.
type Config struct {
	// PoolSize is the target worker count; the coordinator spawns
	// min(PoolSize, len(urls)).
	PoolSize int

	// MaxRequestsPerSec is the global token-bucket rate. At or above
	// ratelimit.FastPathThreshold the limiter is effectively disabled.
	MaxRequestsPerSec float64

	// Timeout bounds one HTTP round trip, reapplied on every retry
	// attempt.
	Timeout time.Duration

	// MaxRetries and BaseDelay parameterize pkg/fetch's exponential
	// backoff.
	MaxRetries int
	BaseDelay  time.Duration

	// CABundlePaths are probed in order; the first readable file wins.
	CABundlePaths []string
}

// DefaultConfig returns the configuration spec.md names as defaults.
func DefaultConfig() Config {
	return Config{
		PoolSize:          50,
		MaxRequestsPerSec: 1000.0,
		Timeout:           10 * time.Second,
		MaxRetries:        3,
		BaseDelay:         250 * time.Millisecond,
		CABundlePaths: []string{
			"/etc/ssl/cert.pem",
			"/etc/ssl/certs/ca-certificates.crt",
			"/etc/pki/tls/certs/ca-bundle.crt",
			"/usr/local/etc/openssl/cert.pem",
		},
	}
}
