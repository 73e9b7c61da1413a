package indicator

import "encoding/json"

// UnknownCategory is the category assigned when an indicator id is not in
// the known table.
const UnknownCategory = "UNKNOWN"

// categoryTable maps the closed set of known indicator ids to their
// category name. Unknown ids classify as UnknownCategory; the table is not
// distinguished from "malformed id" — see DESIGN.md.
var categoryTable = map[uint64]string{
	1: "CHRONIC_ABSENTEEISM",
	2: "SUSPENSION_RATE",
	3: "ENGLISH_LEARNER_PROGRESS",
	4: "GRADUATION_RATE",
	5: "COLLEGE_CAREER_INDICATOR",
	6: "ELA_POINTS_ABOVE_BELOW",
	7: "MATHEMATICS",
	8: "SCIENCE",
}

func categoryName(id uint64) string {
	if name, ok := categoryTable[id]; ok {
		return name
	}
	return UnknownCategory
}

// Indicator is one metric for one cohort within a SummaryCard.
type Indicator struct {
	IndicatorID       uint64
	IndicatorCategory string

	CDSCode       string
	Status        float64
	Change        float64
	ChangeID      int64
	StatusID      int64
	Performance   int64
	TotalGroups   uint64
	SchoolYearID  uint64
	Red           int64
	Orange        int64
	Yellow        int64
	Green         int64
	Blue          int64
	Count         int64
	StudentGroup  string
	IsPrivateData bool

	// PrimaryRaw and SecondaryRaw retain the `primary`/`secondary` JSON
	// verbatim for downstream diff/replay; they are never flattened.
	PrimaryRaw   json.RawMessage
	SecondaryRaw json.RawMessage
}

// SummaryCard is an ordered collection of Indicator records for one
// (school, year) fetch.
type SummaryCard struct {
	// RawBody is the raw response bytes, retained for diagnostics and
	// replay. It is never mutated after the first successful decode.
	RawBody []byte

	// Indicators mirrors the JSON array order of the decoded response.
	Indicators []Indicator

	// CategoryIndex maps category name to the last Indicator observed with
	// that category during decode.
	CategoryIndex map[string]Indicator

	// SchoolName and Year are set by the enrichment pass; they are empty
	// until then.
	SchoolName string
	Year       int
}

// IsEmpty reports whether the card carries no decoded indicators, either
// because decoding failed or the response was an empty array.
func (c SummaryCard) IsEmpty() bool {
	return len(c.Indicators) == 0
}
