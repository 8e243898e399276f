package model

import (
	"regexp"
	"strconv"
	"time"
)

// Document is a single policy document from the corpus. Documents are
// immutable after load; no pipeline stage modifies one.
type Document struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	URI     string     `json:"uri"`
	Version string     `json:"version,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
}

// ScoredDocument pairs a document with its retrieval score in [0, 1].
// Produced fresh per query, never persisted.
type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

var versionDateRe = regexp.MustCompile(`(\d{4})-(\d{2})`)

// ParseVersionDate extracts a YYYY-MM date from a version label like
// "2023-12" or "policy-2024-03-rev2". Returns nil when the label carries
// no parsable date.
func ParseVersionDate(version string) *time.Time {
	m := versionDateRe.FindStringSubmatch(version)
	if m == nil {
		return nil
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return nil
	}
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return &t
}

// NewDocument builds a Document and derives its effective date from the
// version label.
func NewDocument(title, content, uri, version string) Document {
	return Document{
		Title:   title,
		Content: content,
		URI:     uri,
		Version: version,
		Date:    ParseVersionDate(version),
	}
}
