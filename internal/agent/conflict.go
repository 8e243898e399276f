package agent

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/sells-group/policyqa/internal/model"
)

// timeUnitPatterns are scanned in order against each candidate's content.
// The fixed unit vocabulary is hours, days, and business days.
var timeUnitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*(hours?|h)`),
	regexp.MustCompile(`(?i)(\d+)\s*(days?|d)`),
	regexp.MustCompile(`(?i)(\d+)\s*(business\s+days?)`),
}

// DetectConflicts scans the retrieved candidates for numeric time
// quantities and reports a conflict when at least two documents disagree
// on the first value each mentions. Values are compared raw, without
// unit normalization: "2 days" and "48 hours" are different values here
// even though they denote the same duration.
func DetectConflicts(candidates []model.ScoredDocument) model.ConflictReport {
	evidence := make(map[string][]model.NumericMatch)
	var contributors []string

	for _, c := range candidates {
		uri := c.Document.URI
		if _, seen := evidence[uri]; seen {
			continue
		}

		var matches []model.NumericMatch
		for _, re := range timeUnitPatterns {
			for _, m := range re.FindAllStringSubmatch(c.Document.Content, -1) {
				matches = append(matches, model.NumericMatch{Value: m[1], Unit: m[2]})
			}
		}
		if len(matches) > 0 {
			evidence[uri] = matches
			contributors = append(contributors, uri)
		}
	}

	if len(contributors) < 2 {
		return model.ConflictReport{}
	}

	// Compare the first extracted value from each contributing document.
	values := make(map[int]struct{})
	for _, uri := range contributors {
		v, err := strconv.Atoi(evidence[uri][0].Value)
		if err != nil {
			continue
		}
		values[v] = struct{}{}
	}
	if len(values) <= 1 {
		return model.ConflictReport{}
	}

	return model.ConflictReport{
		Detected: true,
		Kind:     model.ConflictKindNumericValue,
		Evidence: evidence,
	}
}

// Resolve picks the authoritative document from a candidate set: the one
// with the latest effective date, with retrieval rank breaking ties. When
// no candidate carries a date the top-ranked candidate wins. Candidates
// must be non-empty.
func Resolve(candidates []model.ScoredDocument) model.Document {
	dated := make([]model.ScoredDocument, 0, len(candidates))
	for _, c := range candidates {
		if c.Document.Date != nil {
			dated = append(dated, c)
		}
	}

	if len(dated) == 0 {
		return candidates[0].Document
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Document.Date.After(*dated[j].Document.Date)
	})
	return dated[0].Document
}
