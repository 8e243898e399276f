package agent

import (
	"fmt"
	"math"
	"strings"

	"github.com/sells-group/policyqa/internal/model"
)

const (
	// evidenceFloor is the top-score threshold below which the agent
	// answers that it has no usable evidence.
	evidenceFloor = 0.1

	// Confidence caps. A detected conflict keeps confidence below
	// near-certainty even when lexical overlap is strong.
	conflictCap = 0.92
	directCap   = 0.95

	msgInsufficient       = "I don't have enough information to answer this question."
	msgConflictFallback   = "Policy found with conflicts resolved."
	msgNoConflictFallback = "Information found in policy."
)

// render fills {value} and {version} placeholders in an answer template.
func render(tmpl, value, version string) string {
	return strings.NewReplacer("{value}", value, "{version}", version).Replace(tmpl)
}

// versionOr returns the document's version label, or the fallback when
// the document is unversioned.
func versionOr(doc model.Document, fallback string) string {
	if doc.Version != "" {
		return doc.Version
	}
	return fallback
}

// versionOrURI identifies a document by version label, falling back to
// its URI. Used in reasoning traces.
func versionOrURI(doc model.Document) string {
	if doc.Version != "" {
		return doc.Version
	}
	return doc.URI
}

func sourceOf(doc model.Document) model.Source {
	return model.Source{Title: doc.Title, Version: doc.Version, URI: doc.URI}
}

// Compose turns the ranked candidates and the conflict report into the
// final answer. Branches, in order: no usable evidence, conflict path,
// direct path; the confidence gate then runs over the conflict and
// direct branches only, replacing the answer with a clarification prompt
// while leaving sources, confidence, and reasoning untouched.
func Compose(question string, candidates []model.ScoredDocument, report model.ConflictReport, minConfidence float64, topics *Registry) *model.QueryResult {
	if len(candidates) == 0 || candidates[0].Score < evidenceFloor {
		return &model.QueryResult{
			Answer:     msgInsufficient,
			Sources:    []model.Source{},
			Confidence: 0.0,
			Reasoning:  "No relevant documents found.",
			Status:     model.StatusOK,
		}
	}

	var result *model.QueryResult
	if report.Detected {
		result = composeConflict(question, candidates, topics)
	} else {
		result = composeDirect(question, candidates, topics)
	}

	// The gate changes presentation, not evidence.
	if result.Confidence < minConfidence {
		result.Status = model.StatusLowConfidence
		result.Answer = topics.clarification()
	}
	return result
}

// composeConflict resolves the authoritative document by recency and
// phrases the answer from it, mentioning the superseded value when a
// different candidate still carries one.
func composeConflict(question string, candidates []model.ScoredDocument, topics *Registry) *model.QueryResult {
	resolved := Resolve(candidates)

	var parts []string
	if topic, ok := topics.Match(question); ok && topic.CurrentTemplate != "" {
		if value, found := topic.extractFirst(resolved.Content); found {
			parts = append(parts, render(topic.CurrentTemplate, value, versionOr(resolved, "latest")))
		}

		if topic.SupersededTemplate != "" {
			for _, c := range candidates {
				if c.Document.URI == resolved.URI {
					continue
				}
				if old, found := topic.extractFirst(c.Document.Content); found {
					parts = append(parts, render(topic.SupersededTemplate, old, versionOr(c.Document, "previous")))
				}
				break
			}
		}
	}

	answer := msgConflictFallback
	if len(parts) > 0 {
		answer = strings.Join(parts, " ")
	}

	compared := make([]string, 0, 2)
	for _, c := range candidates {
		compared = append(compared, versionOrURI(c.Document))
		if len(compared) == 2 {
			break
		}
	}
	reasoning := fmt.Sprintf("Detected conflict: %s. Favoring most recent version (%s).",
		strings.Join(compared, ", "), versionOrURI(resolved))

	sources := make([]model.Source, 0, len(candidates))
	for _, c := range candidates {
		if c.Document.Version != "" {
			sources = append(sources, sourceOf(c.Document))
		}
	}

	return &model.QueryResult{
		Answer:             answer,
		Sources:            sources,
		Confidence:         math.Min(conflictCap, candidates[0].Score+0.2),
		Reasoning:          reasoning,
		ConflictDetected:   true,
		ResolutionStrategy: model.ResolutionFavorRecent,
		Status:             model.StatusOK,
	}
}

// composeDirect answers from the top-ranked candidate alone.
func composeDirect(question string, candidates []model.ScoredDocument, topics *Registry) *model.QueryResult {
	primary := candidates[0]

	answer := msgNoConflictFallback
	if topic, ok := topics.Match(question); ok && topic.PlainTemplate != "" {
		if value, found := topic.extractFirst(primary.Document.Content); found {
			answer = render(topic.PlainTemplate, value, versionOr(primary.Document, "latest"))
		}
	}

	return &model.QueryResult{
		Answer:           answer,
		Sources:          []model.Source{sourceOf(primary.Document)},
		Confidence:       math.Min(directCap, primary.Score+0.3),
		Reasoning:        fmt.Sprintf("Clear answer found in %s with no conflicts.", primary.Document.Title),
		ConflictDetected: false,
		Status:           model.StatusOK,
	}
}
