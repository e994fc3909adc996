// Package storage defines the durable key-value store that remembers the last
// picked dinner, plus the in-memory and fallback implementations shared by
// every backend.
package storage

import (
	"context"
	"errors"
)

// LastPickedKey is the key under which the most recent roll result is kept.
const LastPickedKey = "lastPickedDinner"

// ErrUnavailable is wrapped by every backend error caused by the underlying
// medium (file, database) failing to read or write.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a string key-value store.
//
// Implementations MUST be safe for concurrent use.
type Store interface {
	// Get returns the value for key. ok is false when the key has never been set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key, value string) error
	// Close releases backend resources.
	Close() error
}
