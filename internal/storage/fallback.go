package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Fallback wraps a durable Store so that storage failures never reach the
// caller. Failed writes are kept in memory and win over the primary until a
// later write succeeds; failed reads are answered from the in-memory copy.
//
// Invariant: Get and Set on a Fallback never return a non-nil error.
type Fallback struct {
	primary Store
	memory  *MemoryStore
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	stale map[string]bool // keys whose last primary write failed
}

// NewFallback wraps primary. Each primary operation is bounded by timeout;
// a zero timeout means no bound.
//
// Precondition: primary and logger must be non-nil.
func NewFallback(primary Store, timeout time.Duration, logger *zap.Logger) *Fallback {
	return &Fallback{
		primary: primary,
		memory:  NewMemoryStore(),
		timeout: timeout,
		logger:  logger,
		stale:   map[string]bool{},
	}
}

func (f *Fallback) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.timeout)
}

func (f *Fallback) isStale(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stale[key]
}

func (f *Fallback) markStale(key string, stale bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stale {
		f.stale[key] = true
		return
	}
	delete(f.stale, key)
}

// Get reads key from the primary store, or from memory if the primary fails
// or missed the latest write.
//
// Postcondition: err is always nil.
func (f *Fallback) Get(ctx context.Context, key string) (string, bool, error) {
	if f.isStale(key) {
		return f.memory.Get(ctx, key)
	}

	opCtx, cancel := f.bound(ctx)
	defer cancel()

	v, ok, err := f.primary.Get(opCtx, key)
	if err != nil {
		f.logger.Warn("storage read failed, using in-memory state",
			zap.String("key", key),
			zap.Error(err),
		)
		return f.memory.Get(ctx, key)
	}
	if ok {
		_ = f.memory.Set(ctx, key, v)
	}
	return v, ok, nil
}

// Set writes key to memory and then to the primary store. A primary failure is
// logged and swallowed.
//
// Postcondition: err is always nil; a subsequent Get observes value.
func (f *Fallback) Set(ctx context.Context, key, value string) error {
	_ = f.memory.Set(ctx, key, value)

	opCtx, cancel := f.bound(ctx)
	defer cancel()

	if err := f.primary.Set(opCtx, key, value); err != nil {
		f.logger.Warn("storage write failed, keeping value in memory",
			zap.String("key", key),
			zap.Error(err),
		)
		f.markStale(key, true)
		return nil
	}
	f.markStale(key, false)
	return nil
}

// Close closes the primary store.
func (f *Fallback) Close() error {
	return f.primary.Close()
}
