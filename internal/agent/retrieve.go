// Package agent implements the question answering pipeline: lexical
// retrieval, numeric conflict detection, recency-based resolution, and
// confidence-gated answer composition.
package agent

import (
	"sort"
	"strings"

	"github.com/sells-group/policyqa/internal/model"
)

// tokenize lowercases a string and splits it on whitespace into a set of
// distinct words.
func tokenize(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	words := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		words[f] = struct{}{}
	}
	return words
}

// similarity is the fraction of query words that appear verbatim in the
// content. It rewards documents containing the query's vocabulary
// regardless of document length, so it is a containment score rather
// than a symmetric similarity.
func similarity(queryWords map[string]struct{}, content string) float64 {
	if len(queryWords) == 0 {
		return 0.0
	}
	docWords := tokenize(content)
	matched := 0
	for w := range queryWords {
		if _, ok := docWords[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryWords))
}

// Retrieve scores every document against the question and returns the
// top-k candidates sorted by score descending. The sort is stable, so
// equal scores keep corpus order; an empty question scores everything
// 0.0 and the result is pure corpus order.
func Retrieve(question string, docs []model.Document, topK int) []model.ScoredDocument {
	if topK <= 0 {
		return []model.ScoredDocument{}
	}

	queryWords := tokenize(question)
	scored := make([]model.ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		scored = append(scored, model.ScoredDocument{
			Document: doc,
			Score:    similarity(queryWords, doc.Content),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
