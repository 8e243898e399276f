// Package store persists query-run history. Recording is best-effort:
// the answer pipeline never fails because a run could not be written.
package store

import (
	"context"

	"github.com/sells-group/policyqa/internal/model"
)

// QueryRunFilter specifies criteria for listing query runs.
type QueryRunFilter struct {
	Status model.Status `json:"status,omitempty"`
	Limit  int          `json:"limit,omitempty"`
	Offset int          `json:"offset,omitempty"`
}

// Store defines the persistence interface for query-run history.
type Store interface {
	// CreateQueryRun inserts a run record, assigning an ID and
	// CreatedAt when absent.
	CreateQueryRun(ctx context.Context, run *model.QueryRun) error
	GetQueryRun(ctx context.Context, id string) (*model.QueryRun, error)
	// ListQueryRuns returns runs newest-first.
	ListQueryRuns(ctx context.Context, filter QueryRunFilter) ([]model.QueryRun, error)

	Migrate(ctx context.Context) error
	Close() error
}

// defaultListLimit bounds list results when the filter does not.
const defaultListLimit = 50
