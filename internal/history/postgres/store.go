// Package postgres stores submission history in Postgres.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JakeFAU/aocbud/internal/puzzle"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for submission rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

type pool interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	Close()
}

// Store writes and reads submission rows.
type Store struct {
	pool  pool
	table string
}

// New creates a Postgres-backed Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("history.dsn is required")
	}
	table, err := tableName(cfg.Table)
	if err != nil {
		return nil, err
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: p, table: table}, nil
}

// NewWithPool constructs a store from an existing pool (primarily for testing).
func NewWithPool(p pool, table string) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	name, err := tableName(table)
	if err != nil {
		return nil, err
	}
	return &Store{pool: p, table: name}, nil
}

func tableName(table string) (string, error) {
	if table == "" {
		table = "submissions"
	}
	if !validTableName.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return table, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Record inserts a submission row.
func (s *Store) Record(ctx context.Context, sub puzzle.Submission) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("history store is not configured")
	}
	if sub.ID == "" {
		return fmt.Errorf("submission id is required")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	year,
	day,
	level,
	answer,
	outcome,
	detail,
	submitted_at,
	duration_ms
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9
)`, s.table)

	args := []any{
		sub.ID,
		sub.Ref.Year,
		sub.Ref.Day,
		int(sub.Level),
		sub.Answer,
		sub.Outcome,
		sub.Detail,
		sub.SubmittedAt,
		sub.Duration.Milliseconds(),
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// List returns the submissions for ref, oldest first.
func (s *Store) List(ctx context.Context, ref puzzle.Ref) ([]puzzle.Submission, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("history store is not configured")
	}
	query := fmt.Sprintf(`
SELECT id, level, answer, outcome, detail, submitted_at, duration_ms
FROM %s
WHERE year = $1 AND day = $2
ORDER BY submitted_at ASC`, s.table)

	rows, err := s.pool.Query(ctx, query, ref.Year, ref.Day)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []puzzle.Submission
	for rows.Next() {
		var (
			sub        puzzle.Submission
			level      int
			durationMs int64
		)
		if err := rows.Scan(&sub.ID, &level, &sub.Answer, &sub.Outcome, &sub.Detail, &sub.SubmittedAt, &durationMs); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.Ref = ref
		sub.Level = puzzle.Level(level)
		sub.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}
