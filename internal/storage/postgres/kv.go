package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cory-johannsen/dinnerroulette/internal/storage"
)

// KVStore persists keys in the kv table. The schema is created by cmd/migrate.
type KVStore struct {
	pool *Pool
}

// NewKVStore creates a KVStore backed by the given pool. Closing the store
// closes the pool.
//
// Precondition: pool must be a valid, open Pool.
func NewKVStore(pool *Pool) *KVStore {
	return &KVStore{pool: pool}
}

// Get returns the value for key.
//
// Postcondition: ok is false with a nil error when the key does not exist.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.DB().QueryRow(ctx,
		`SELECT value FROM kv WHERE key = $1`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("querying %q: %w: %w", key, storage.ErrUnavailable, err)
	}
	return value, true, nil
}

// Set upserts the value for key.
//
// Postcondition: On nil error the row for key holds value.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.DB().Exec(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upserting %q: %w: %w", key, storage.ErrUnavailable, err)
	}
	return nil
}

// Close releases the pool.
func (s *KVStore) Close() error {
	s.pool.Close()
	return nil
}
