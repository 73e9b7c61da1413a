package indicator

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/caschooldash/fetchclient/pkg/logging"
)

var logger = logging.NewLogger("indicator-decoder")

// DecodeCard is total: it always returns a card, even on malformed input.
// Parse failures replace the indicator list with an empty list and log a
// diagnostic instead of returning an error.
func DecodeCard(rawBody []byte) SummaryCard {
	card := SummaryCard{
		RawBody:       rawBody,
		CategoryIndex: make(map[string]Indicator),
	}

	trimmed := bytes.TrimSpace(rawBody)
	if len(trimmed) == 0 {
		logger.Warn().Msg("empty body, returning card with no indicators")
		return card
	}

	var entries []json.RawMessage
	switch trimmed[0] {
	case '{':
		entries = []json.RawMessage{json.RawMessage(trimmed)}
	case '[':
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			logger.Warn().Err(err).Msg("top-level array did not parse, returning card with no indicators")
			return card
		}
	default:
		logger.Warn().Msg("body does not start with '{' or '[', returning card with no indicators")
		return card
	}

	indicators := make([]Indicator, 0, len(entries))
	for i, raw := range entries {
		var obj map[string]json.RawMessage
		// A JSON null unmarshals into a nil map without error; it is not an
		// object either, so it is skipped too.
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			logger.Warn().Err(err).Int("entry", i).Msg("skipping non-object entry")
			continue
		}

		ind := decodeIndicator(obj)
		indicators = append(indicators, ind)
		card.CategoryIndex[ind.IndicatorCategory] = ind
	}

	card.Indicators = indicators
	return card
}

func decodeIndicator(obj map[string]json.RawMessage) Indicator {
	id := readUint64(obj, "indicatorId")
	ind := Indicator{
		IndicatorID:       id,
		IndicatorCategory: categoryName(id),
	}

	if raw, ok := obj["primary"]; ok {
		ind.PrimaryRaw = raw
	}
	if raw, ok := obj["secondary"]; ok {
		ind.SecondaryRaw = raw
	}

	primary, ok := parsePrimaryObject(ind.PrimaryRaw)
	if !ok {
		return ind
	}

	ind.CDSCode = readString(primary, "cdsCode")
	ind.Status = readFloat64(primary, "status")
	ind.Change = readFloat64(primary, "change")
	ind.ChangeID = readInt64(primary, "changeId")
	ind.StatusID = readInt64(primary, "statusId")
	ind.Performance = readInt64(primary, "performance")
	ind.TotalGroups = readUint64(primary, "totalGroups")
	ind.SchoolYearID = readUint64(primary, "schoolYearId")
	ind.Red = readInt64(primary, "red")
	ind.Orange = readInt64(primary, "orange")
	ind.Yellow = readInt64(primary, "yellow")
	ind.Green = readInt64(primary, "green")
	ind.Blue = readInt64(primary, "blue")
	ind.Count = readInt64(primary, "count")
	ind.StudentGroup = readString(primary, "studentGroup")
	ind.IsPrivateData = readBool(primary, "isPrivateData")

	return ind
}

// parsePrimaryObject decodes the `primary` field into a field map. It
// returns ok=false for a missing or null primary, and also for a primary
// that is present but not a JSON object -- in which case it logs a
// diagnostic and the caller keeps an otherwise-default indicator carrying
// only indicatorId/indicatorCategory, per the preserved original behavior.
func parsePrimaryObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		logger.Warn().Err(err).Msg("primary block present but not an object")
		return nil, false
	}
	return obj, true
}

// The following safe-field readers implement the uniform rule: missing key
// or null value yields the zero value, and numeric/bool fields never
// coerce from strings. String fields stringify non-string JSON values via
// their own JSON text rather than erroring.

func readString(m map[string]json.RawMessage, key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func readFloat64(m map[string]json.RawMessage, key string) float64 {
	raw, ok := m[key]
	if !ok {
		return 0
	}
	var f float64
	_ = json.Unmarshal(raw, &f)
	return f
}

func readInt64(m map[string]json.RawMessage, key string) int64 {
	raw, ok := m[key]
	if !ok {
		return 0
	}
	var n int64
	_ = json.Unmarshal(raw, &n)
	return n
}

func readUint64(m map[string]json.RawMessage, key string) uint64 {
	raw, ok := m[key]
	if !ok {
		return 0
	}
	var n uint64
	_ = json.Unmarshal(raw, &n)
	return n
}

func readBool(m map[string]json.RawMessage, key string) bool {
	raw, ok := m[key]
	if !ok {
		return false
	}
	var b bool
	_ = json.Unmarshal(raw, &b)
	return b
}
