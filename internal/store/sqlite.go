package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/policyqa/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS query_runs (
	id                TEXT PRIMARY KEY,
	question          TEXT NOT NULL,
	answer            TEXT NOT NULL,
	status            TEXT NOT NULL,
	confidence        REAL NOT NULL,
	conflict_detected INTEGER NOT NULL DEFAULT 0,
	latency_ms        INTEGER NOT NULL DEFAULT 0,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_query_runs_status ON query_runs(status);
CREATE INDEX IF NOT EXISTS idx_query_runs_created_at ON query_runs(created_at DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateQueryRun(ctx context.Context, run *model.QueryRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_runs (id, question, answer, status, confidence, conflict_detected, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Question, run.Answer, string(run.Status), run.Confidence,
		boolToInt(run.ConflictDetected), run.LatencyMS, run.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert query run")
}

func (s *SQLiteStore) GetQueryRun(ctx context.Context, id string) (*model.QueryRun, error) {
	var run model.QueryRun
	var conflict int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, question, answer, status, confidence, conflict_detected, latency_ms, created_at
		 FROM query_runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Question, &run.Answer, &run.Status, &run.Confidence,
		&conflict, &run.LatencyMS, &run.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get query run %s", id)
	}
	run.ConflictDetected = conflict != 0
	return &run, nil
}

func (s *SQLiteStore) ListQueryRuns(ctx context.Context, filter QueryRunFilter) ([]model.QueryRun, error) {
	query := `SELECT id, question, answer, status, confidence, conflict_detected, latency_ms, created_at
		FROM query_runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list query runs")
	}
	defer rows.Close()

	var runs []model.QueryRun
	for rows.Next() {
		var run model.QueryRun
		var conflict int
		if err := rows.Scan(&run.ID, &run.Question, &run.Answer, &run.Status,
			&run.Confidence, &conflict, &run.LatencyMS, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan query run")
		}
		run.ConflictDetected = conflict != 0
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate query runs")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
