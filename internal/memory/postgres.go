package memory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prathamesh/auto-apply/internal/types"
)

// PostgresStore keeps the question/answer mapping in a qa_memory table:
//
//	CREATE TABLE qa_memory (
//	    key        TEXT PRIMARY KEY,
//	    value      TEXT NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and verifies it.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Get returns the answer for a question key, if present.
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM qa_memory WHERE key = $1`,
		types.NormalizeKey(key),
	).Scan(&value)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get memory entry: %w", err)
	}
	return value, true, nil
}

// Set upserts an answer; last write wins.
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	nk := types.NormalizeKey(key)
	if nk == "" {
		return fmt.Errorf("memory key is empty after normalization")
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO qa_memory (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		nk, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set memory entry %s: %w", nk, err)
	}
	return nil
}

// SetMany upserts the same value under every key inside one transaction so
// the role fan-out is applied as a single batch.
func (s *PostgresStore) SetMany(ctx context.Context, keys []string, value string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin fan-out transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	for _, key := range keys {
		nk := types.NormalizeKey(key)
		if nk == "" {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO qa_memory (key, value)
			 VALUES ($1, $2)
			 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
			nk, value,
		); err != nil {
			return fmt.Errorf("failed to fan out key %s: %w", nk, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit fan-out: %w", err)
	}
	return nil
}

// Export returns the whole mapping.
func (s *PostgresStore) Export(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, value FROM qa_memory`)
	if err != nil {
		return nil, fmt.Errorf("failed to export memory: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan memory entry: %w", err)
		}
		entries[k] = v
	}
	return entries, rows.Err()
}

// Import shallow-merges entries; imported keys overwrite existing ones.
func (s *PostgresStore) Import(ctx context.Context, entries map[string]string) error {
	normalized := normalizeEntries(entries)
	keysByValue := make(map[string][]string)
	for k, v := range normalized {
		keysByValue[v] = append(keysByValue[v], k)
	}
	for v, keys := range keysByValue {
		if err := s.SetMany(ctx, keys, v); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of stored entries.
func (s *PostgresStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM qa_memory`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count memory entries: %w", err)
	}
	return n, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
