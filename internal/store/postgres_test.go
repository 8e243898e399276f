package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/policyqa/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_CreateQueryRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO query_runs`).
		WithArgs(pgxmock.AnyArg(), "q", "a", "ok", 0.7, true, int64(5), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run := &model.QueryRun{
		Question: "q", Answer: "a", Status: model.StatusOK,
		Confidence: 0.7, ConflictDetected: true, LatencyMS: 5,
	}
	require.NoError(t, s.CreateQueryRun(context.Background(), run))
	assert.NotEmpty(t, run.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetQueryRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, question, answer, status, confidence, conflict_detected, latency_ms, created_at`).
		WithArgs("nonexistent-run").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetQueryRun(context.Background(), "nonexistent-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get query run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListQueryRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "question", "answer", "status", "confidence", "conflict_detected", "latency_ms", "created_at",
	}).AddRow("run-1", "q1", "a1", "ok", 0.8, false, int64(2), now).
		AddRow("run-2", "q2", "a2", "low_confidence", 0.4, false, int64(1), now)

	mock.ExpectQuery(`SELECT id, question, answer, status, confidence, conflict_detected, latency_ms, created_at`).
		WithArgs(50, 0).
		WillReturnRows(rows)

	runs, err := s.ListQueryRuns(context.Background(), QueryRunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, model.StatusLowConfidence, runs[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListQueryRuns_StatusFilter(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`AND status = \$1`).
		WithArgs("low_confidence", 50, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "question", "answer", "status", "confidence", "conflict_detected", "latency_ms", "created_at",
		}))

	runs, err := s.ListQueryRuns(context.Background(), QueryRunFilter{Status: model.StatusLowConfidence})
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
