package model

// ConflictKindNumericValue tags conflicts where documents disagree on a
// numeric quantity. It is the only conflict kind the detector produces.
const ConflictKindNumericValue = "numeric_value"

// NumericMatch is one "<number> <time unit>" occurrence found in a
// document's content. Value is kept as the raw matched string.
type NumericMatch struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// ConflictReport describes a disagreement between retrieved documents.
// Detected is true only when at least two documents contributed evidence
// and their first-extracted values differ.
type ConflictReport struct {
	Detected bool                      `json:"detected"`
	Kind     string                    `json:"kind,omitempty"`
	Evidence map[string][]NumericMatch `json:"evidence,omitempty"`
}
