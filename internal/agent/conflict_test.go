package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/policyqa/internal/model"
)

func scored(d model.Document, score float64) model.ScoredDocument {
	return model.ScoredDocument{Document: d, Score: score}
}

func versioned(uri, content, version string) model.Document {
	return model.NewDocument(uri, content, uri, version)
}

func TestDetectConflicts_DivergentHours(t *testing.T) {
	candidates := []model.ScoredDocument{
		scored(doc("old.txt", "report incidents within 48 hours"), 0.8),
		scored(doc("new.txt", "report incidents within 24 hours"), 0.7),
	}

	report := DetectConflicts(candidates)
	require.True(t, report.Detected)
	assert.Equal(t, model.ConflictKindNumericValue, report.Kind)
	require.Contains(t, report.Evidence, "old.txt")
	require.Contains(t, report.Evidence, "new.txt")
	assert.Equal(t, model.NumericMatch{Value: "48", Unit: "hours"}, report.Evidence["old.txt"][0])
	assert.Equal(t, model.NumericMatch{Value: "24", Unit: "hours"}, report.Evidence["new.txt"][0])
}

func TestDetectConflicts_AgreeingValues(t *testing.T) {
	candidates := []model.ScoredDocument{
		scored(doc("a.txt", "respond within 48 hours"), 0.8),
		scored(doc("b.txt", "you have 48 hours to respond"), 0.7),
	}
	assert.False(t, DetectConflicts(candidates).Detected)
}

func TestDetectConflicts_SingleContributor(t *testing.T) {
	candidates := []model.ScoredDocument{
		scored(doc("a.txt", "respond within 48 hours"), 0.8),
		scored(doc("b.txt", "no deadlines mentioned here"), 0.7),
	}
	assert.False(t, DetectConflicts(candidates).Detected)
}

func TestDetectConflicts_EmptyCandidates(t *testing.T) {
	assert.False(t, DetectConflicts(nil).Detected)
}

func TestDetectConflicts_ComparesFirstMatchOnly(t *testing.T) {
	// Both documents lead with 48 hours; the later 10 days in one of them
	// does not create a conflict.
	candidates := []model.ScoredDocument{
		scored(doc("a.txt", "report within 48 hours, escalate after 10 days"), 0.8),
		scored(doc("b.txt", "report within 48 hours"), 0.7),
	}
	report := DetectConflicts(candidates)
	assert.False(t, report.Detected)
}

func TestDetectConflicts_ValueOnlyComparison(t *testing.T) {
	// 5 hours vs 5 days extract the same value, so no conflict is
	// reported even though the durations differ.
	candidates := []model.ScoredDocument{
		scored(doc("a.txt", "respond within 5 hours"), 0.8),
		scored(doc("b.txt", "respond within 5 days"), 0.7),
	}
	assert.False(t, DetectConflicts(candidates).Detected)
}

func TestDetectConflicts_BusinessDays(t *testing.T) {
	candidates := []model.ScoredDocument{
		scored(doc("a.txt", "complete onboarding within 5 business days"), 0.8),
		scored(doc("b.txt", "complete onboarding within 10 business days"), 0.7),
	}

	report := DetectConflicts(candidates)
	require.True(t, report.Detected)
	assert.Equal(t, "business days", report.Evidence["a.txt"][0].Unit)
}

func TestResolve_LatestDateWins(t *testing.T) {
	older := versioned("old.txt", "48 hours", "2023-01")
	newer := versioned("new.txt", "24 hours", "2023-12")

	// Higher retrieval score on the older version does not matter.
	got := Resolve([]model.ScoredDocument{scored(older, 0.9), scored(newer, 0.2)})
	assert.Equal(t, "new.txt", got.URI)

	got = Resolve([]model.ScoredDocument{scored(newer, 0.9), scored(older, 0.2)})
	assert.Equal(t, "new.txt", got.URI)
}

func TestResolve_DateTieKeepsRank(t *testing.T) {
	a := versioned("a.txt", "x", "2023-06")
	b := versioned("b.txt", "y", "2023-06")

	got := Resolve([]model.ScoredDocument{scored(a, 0.9), scored(b, 0.8)})
	assert.Equal(t, "a.txt", got.URI)
}

func TestResolve_UndatedFallsBackToRank(t *testing.T) {
	a := doc("a.txt", "x")
	b := doc("b.txt", "y")

	got := Resolve([]model.ScoredDocument{scored(a, 0.9), scored(b, 0.8)})
	assert.Equal(t, "a.txt", got.URI)
}

func TestResolve_DatedBeatsUndated(t *testing.T) {
	dated := versioned("dated.txt", "x", "2022-01")
	undated := doc("undated.txt", "y")

	got := Resolve([]model.ScoredDocument{scored(undated, 0.9), scored(dated, 0.1)})
	assert.Equal(t, "dated.txt", got.URI)
}
