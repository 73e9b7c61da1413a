// Package intake accepts and filters candidate URLs before they reach the
// work queue.
package intake

import (
	"strings"

	"github.com/caschooldash/fetchclient/pkg/logging"
)

var logger = logging.NewLogger("intake")

// acceptedSchemes mirrors the original loadInURLs behavior: only these
// three schemes are let through.
var acceptedSchemes = []string{"http://", "https://", "ftp://"}

// LoadURLs filters out empty strings and strings that don't begin with one
// of the accepted schemes, logging each rejection, and returns the
// survivors plus whether at least one URL was accepted.
func LoadURLs(urls []string) (accepted []string, ok bool) {
	accepted = make([]string, 0, len(urls))

	for _, u := range urls {
		if u == "" {
			logger.Warn().Msg("rejected empty url")
			continue
		}
		if !hasAcceptedScheme(u) {
			logger.Warn().Str("url", u).Msg("rejected url with unsupported scheme")
			continue
		}
		accepted = append(accepted, u)
	}

	return accepted, len(accepted) > 0
}

func hasAcceptedScheme(u string) bool {
	for _, scheme := range acceptedSchemes {
		if strings.HasPrefix(u, scheme) {
			return true
		}
	}
	return false
}
