package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/policyqa/internal/corpus"
	"github.com/sells-group/policyqa/internal/model"
)

func TestAgent_ConflictResolvedByRecency(t *testing.T) {
	docA := model.NewDocument("Incident Response Procedure", // superseded
		"All staff must report a security incident to IT within 48 hours of discovery.",
		"incident-2023-01.txt", "2023-01")
	docB := model.NewDocument("Incident Response Procedure",
		"All staff must report a security incident to IT within 24 hours of discovery.",
		"incident-2023-12.txt", "2023-12")
	a := New(corpus.New([]model.Document{docA, docB}), nil)

	result, usage, err := a.AnswerQuery(context.Background(), "How soon must I report a security incident?", 2, 0.5)
	require.NoError(t, err)

	assert.True(t, result.ConflictDetected)
	assert.Equal(t, model.ResolutionFavorRecent, result.ResolutionStrategy)
	assert.Equal(t, model.StatusOK, result.Status)
	assert.Contains(t, result.Answer, "24 hours")
	assert.Contains(t, result.Answer, "48 hours")
	assert.Contains(t, result.Answer, "2023-12")

	require.Len(t, result.Sources, 2)
	versions := []string{result.Sources[0].Version, result.Sources[1].Version}
	assert.Contains(t, versions, "2023-01")
	assert.Contains(t, versions, "2023-12")

	assert.Equal(t, "simple-embedding", usage.Model)
	assert.Equal(t, 8, usage.TokensIn)
	assert.Positive(t, usage.TokensOut)
}

func TestAgent_SingleDocumentAnswer(t *testing.T) {
	handbook := model.NewDocument("Employee Handbook",
		"New employees must complete onboarding within 5 business days",
		"handbook.txt", "")
	a := New(corpus.New([]model.Document{handbook}), nil)

	result, _, err := a.AnswerQuery(context.Background(), "How long do I have to complete onboarding?", 1, 0.3)
	require.NoError(t, err)

	assert.False(t, result.ConflictDetected)
	assert.Contains(t, result.Answer, "5 business days")
	assert.GreaterOrEqual(t, result.Confidence, 0.3)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "handbook.txt", result.Sources[0].URI)
}

func TestAgent_EmptyCorpus(t *testing.T) {
	a := New(corpus.New(nil), nil)

	result, _, err := a.AnswerQuery(context.Background(), "anything at all", 3, 0.65)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOK, result.Status)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Empty(t, result.Sources)
}

func TestAgent_RejectsMalformedParams(t *testing.T) {
	a := New(corpus.New(nil), nil)
	ctx := context.Background()

	_, _, err := a.AnswerQuery(ctx, "q", 0, 0.5)
	assert.Error(t, err)

	_, _, err = a.AnswerQuery(ctx, "q", -3, 0.5)
	assert.Error(t, err)

	_, _, err = a.AnswerQuery(ctx, "q", 3, -0.1)
	assert.Error(t, err)

	_, _, err = a.AnswerQuery(ctx, "q", 3, 1.5)
	assert.Error(t, err)
}

func TestAgent_ConcurrentQueries(t *testing.T) {
	docA := model.NewDocument("Policy", "report a security incident within 24 hours", "a.txt", "2023-12")
	a := New(corpus.New([]model.Document{docA}), nil)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_, _, err := a.AnswerQuery(context.Background(), "how do I report a security incident", 3, 0.2)
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
