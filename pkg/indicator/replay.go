package indicator

import (
	"encoding/json"
	"fmt"
	"io"
)

// entryWire mirrors the upstream wire shape: a top-level indicatorId plus
// the verbatim primary/secondary blocks.
type entryWire struct {
	IndicatorID uint64          `json:"indicatorId"`
	Primary     json.RawMessage `json:"primary,omitempty"`
	Secondary   json.RawMessage `json:"secondary,omitempty"`
}

// EncodeIndicators re-serializes a decoded indicator slice into the
// upstream array shape, using each indicator's retained PrimaryRaw /
// SecondaryRaw verbatim. It exists for the round-trip property
// (DecodeCard(EncodeIndicators(xs)) == xs) and for diagnostic replay.
func EncodeIndicators(indicators []Indicator) ([]byte, error) {
	entries := make([]entryWire, len(indicators))
	for i, ind := range indicators {
		entries[i] = entryWire{
			IndicatorID: ind.IndicatorID,
			Primary:     ind.PrimaryRaw,
			Secondary:   ind.SecondaryRaw,
		}
	}
	return json.Marshal(entries)
}

// WriteRawBody writes the card's raw response bytes verbatim, for
// diagnostic replay of a single fetch. It does not persist anything on its
// own; callers decide whether and where to write.
func (c SummaryCard) WriteRawBody(w io.Writer) error {
	if len(c.RawBody) == 0 {
		return fmt.Errorf("summary card has no raw body to write")
	}
	_, err := w.Write(c.RawBody)
	return err
}

// DecodeCardFromReader reads the full body from r and decodes it,
// convenience wrapper for replaying a previously saved raw body.
func DecodeCardFromReader(r io.Reader) (SummaryCard, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return SummaryCard{}, fmt.Errorf("read raw body: %w", err)
	}
	return DecodeCard(body), nil
}
