package agent

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/policyqa/internal/corpus"
	"github.com/sells-group/policyqa/internal/model"
)

// modelTag names the retrieval backend in usage accounting. The lexical
// scorer stands in for an embedding model, hence the label.
const modelTag = "simple-embedding"

// Agent answers questions against an immutable policy corpus. It is
// constructed once at startup and is safe for concurrent use: queries
// are pure computation over the read-only corpus.
type Agent struct {
	corpus *corpus.Corpus
	topics *Registry
}

// New builds an Agent over the given corpus and topic registry. A nil
// registry falls back to the built-in topics.
func New(c *corpus.Corpus, topics *Registry) *Agent {
	if topics == nil {
		topics = DefaultRegistry()
	}
	return &Agent{corpus: c, topics: topics}
}

// Topics exposes the agent's topic registry.
func (a *Agent) Topics() *Registry {
	return a.topics
}

// DocumentCount reports the corpus size, for health reporting.
func (a *Agent) DocumentCount() int {
	return a.corpus.Len()
}

// Documents exposes the read-only corpus sequence, for inventory
// listings.
func (a *Agent) Documents() []model.Document {
	return a.corpus.Documents()
}

// AnswerQuery runs the retrieve, detect, compose sequence for one
// question and reports usage alongside the result. Malformed parameters
// are contract violations and return an error; everything else degrades
// to an answered QueryResult, never an error.
func (a *Agent) AnswerQuery(ctx context.Context, question string, topK int, minConfidence float64) (*model.QueryResult, model.Usage, error) {
	if topK < 1 {
		return nil, model.Usage{}, eris.Errorf("agent: top_k must be positive, got %d", topK)
	}
	if minConfidence < 0 || minConfidence > 1 {
		return nil, model.Usage{}, eris.Errorf("agent: min_confidence must be in [0,1], got %g", minConfidence)
	}

	start := time.Now()

	candidates := Retrieve(question, a.corpus.Documents(), topK)
	report := DetectConflicts(candidates)
	result := Compose(question, candidates, report, minConfidence, a.topics)

	usage := model.Usage{
		LatencyMS: time.Since(start).Milliseconds(),
		TokensIn:  len(strings.Fields(question)),
		TokensOut: len(strings.Fields(result.Answer)),
		Model:     modelTag,
	}

	zap.L().Info("agent: query answered",
		zap.Int("candidates", len(candidates)),
		zap.Bool("conflict", result.ConflictDetected),
		zap.Float64("confidence", result.Confidence),
		zap.String("status", string(result.Status)),
		zap.Int64("latency_ms", usage.LatencyMS),
	)

	return result, usage, nil
}
