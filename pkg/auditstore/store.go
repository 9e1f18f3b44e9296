// Package auditstore persists commit recovery's final give-up decisions to
// Postgres, so an operator can see which offsets a consumer actor never
// managed to commit without scraping logs.
package auditstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FailedCommit is one row of the append-only audit log: a single
// (group, partition, offset) the commit coordinator gave up committing.
type FailedCommit struct {
	GroupID    string
	Topic      string
	Partition  int32
	Offset     int64
	Reason     string
	RecordedAt time.Time
}

// Store wraps a pgx connection pool scoped to the commit_failures table.
type Store struct {
	pool *pgxpool.Pool
	cfg  Config
}

// Open connects to Postgres with the same retry-with-backoff loop the
// teacher's pkg/postgres/pgx.Connection.Connect uses, then ensures the
// audit table exists.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var pool *pgxpool.Pool
	var err error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		pool, err = connect(ctx, cfg)
		if err == nil {
			break
		}
		if attempt < cfg.MaxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.RetryInterval * time.Duration(attempt+1)):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("auditstore: connect after %d retries: %w", cfg.MaxRetries, err)
	}

	s := &Store{pool: pool, cfg: cfg}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	const ddl = `
CREATE TABLE IF NOT EXISTS commit_failures (
	id          BIGSERIAL PRIMARY KEY,
	group_id    TEXT NOT NULL,
	topic       TEXT NOT NULL,
	partition   INTEGER NOT NULL,
	"offset"    BIGINT NOT NULL,
	reason      TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL
)`
	_, err := s.pool.Exec(queryCtx, ddl)
	if err != nil {
		return fmt.Errorf("auditstore: ensure schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() { s.pool.Close() }

// Record appends a single failed-commit row. Failures to record are the
// caller's to decide how loud to be about; this store never retries on its
// own, the caller's CommitRecovery policy already owns retry semantics.
func (s *Store) Record(ctx context.Context, fc FailedCommit) error {
	queryCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	const q = `
INSERT INTO commit_failures (group_id, topic, partition, "offset", reason, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.pool.Exec(queryCtx, q, fc.GroupID, fc.Topic, fc.Partition, fc.Offset, fc.Reason, fc.RecordedAt)
	if err != nil {
		return fmt.Errorf("auditstore: record failed commit: %w", err)
	}
	return nil
}
