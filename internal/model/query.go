package model

import "time"

// Status classifies a query outcome. Low confidence is a degraded but
// successful outcome, not an error.
type Status string

const (
	StatusOK            Status = "ok"
	StatusLowConfidence Status = "low_confidence"
)

// ResolutionFavorRecent names the rule that picks the newest document
// version when retrieved documents conflict.
const ResolutionFavorRecent = "favor_recent_version"

// Source is a document reference attached to an answer.
type Source struct {
	Title   string `json:"title"`
	Version string `json:"version,omitempty"`
	URI     string `json:"uri"`
	Page    int    `json:"page"`
}

// QueryResult is the composed, confidence-gated answer to one question.
type QueryResult struct {
	Answer             string   `json:"answer"`
	Sources            []Source `json:"sources"`
	Confidence         float64  `json:"confidence"`
	Reasoning          string   `json:"reasoning,omitempty"`
	ConflictDetected   bool     `json:"conflict_detected"`
	ResolutionStrategy string   `json:"resolution_strategy,omitempty"`
	Status             Status   `json:"status"`
}

// QueryRun is one recorded question/answer exchange, persisted for
// history inspection via `policyqa runs`.
type QueryRun struct {
	ID               string    `json:"id"`
	Question         string    `json:"question"`
	Answer           string    `json:"answer"`
	Status           Status    `json:"status"`
	Confidence       float64   `json:"confidence"`
	ConflictDetected bool      `json:"conflict_detected"`
	LatencyMS        int64     `json:"latency_ms"`
	CreatedAt        time.Time `json:"created_at"`
}
