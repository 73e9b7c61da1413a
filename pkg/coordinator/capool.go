package coordinator

import (
	"crypto/x509"
	"os"
)

// loadCABundle probes paths in order and returns a pool built from the
// first readable, parseable PEM file. It returns nil (defer to the
// library default root set) if none is found, matching spec.md §6.
func loadCABundle(paths []string) *x509.CertPool {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		pool := x509.NewCertPool()
		if pool.AppendCertsFromPEM(data) {
			logger.Info().Str("path", path).Msg("loaded CA bundle")
			return pool
		}
		logger.Warn().Str("path", path).Msg("CA bundle file unreadable as PEM, skipping")
	}

	logger.Warn().Msg("no readable CA bundle found, deferring to library default root set")
	return nil
}
