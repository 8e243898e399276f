package store

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/policyqa/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; tests substitute a
// pgxmock pool.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS query_runs (
	id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	question          TEXT NOT NULL,
	answer            TEXT NOT NULL,
	status            TEXT NOT NULL,
	confidence        DOUBLE PRECISION NOT NULL,
	conflict_detected BOOLEAN NOT NULL DEFAULT false,
	latency_ms        BIGINT NOT NULL DEFAULT 0,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_query_runs_status ON query_runs(status);
CREATE INDEX IF NOT EXISTS idx_query_runs_created_at ON query_runs(created_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateQueryRun(ctx context.Context, run *model.QueryRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO query_runs (id, question, answer, status, confidence, conflict_detected, latency_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.Question, run.Answer, string(run.Status), run.Confidence,
		run.ConflictDetected, run.LatencyMS, run.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert query run")
}

func (s *PostgresStore) GetQueryRun(ctx context.Context, id string) (*model.QueryRun, error) {
	var run model.QueryRun
	err := s.pool.QueryRow(ctx,
		`SELECT id, question, answer, status, confidence, conflict_detected, latency_ms, created_at
		 FROM query_runs WHERE id = $1`, id,
	).Scan(&run.ID, &run.Question, &run.Answer, &run.Status, &run.Confidence,
		&run.ConflictDetected, &run.LatencyMS, &run.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get query run %s", id)
	}
	return &run, nil
}

func (s *PostgresStore) ListQueryRuns(ctx context.Context, filter QueryRunFilter) ([]model.QueryRun, error) {
	query := `SELECT id, question, answer, status, confidence, conflict_detected, latency_ms, created_at
		FROM query_runs WHERE true`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += " AND status = $1"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit, filter.Offset)
	query += " ORDER BY created_at DESC"
	query += " LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list query runs")
	}
	defer rows.Close()

	var runs []model.QueryRun
	for rows.Next() {
		var run model.QueryRun
		if err := rows.Scan(&run.ID, &run.Question, &run.Answer, &run.Status,
			&run.Confidence, &run.ConflictDetected, &run.LatencyMS, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan query run")
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate query runs")
}
