package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dinnerroulette/internal/backdrop"
	"github.com/cory-johannsen/dinnerroulette/internal/config"
	"github.com/cory-johannsen/dinnerroulette/internal/random"
	"github.com/cory-johannsen/dinnerroulette/internal/roulette"
	"github.com/cory-johannsen/dinnerroulette/internal/storage"
	"github.com/cory-johannsen/dinnerroulette/internal/storage/file"
	"github.com/cory-johannsen/dinnerroulette/internal/storage/postgres"
	"github.com/cory-johannsen/dinnerroulette/internal/storage/sqlite"
)

// App bundles the wired components of the picker.
type App struct {
	Config     config.Config
	Logger     *zap.Logger
	Store      storage.Store
	Controller *roulette.Controller
	// Decoration is nil when ui.backdrop is off.
	Decoration *backdrop.Decoration
}

func newSource(cfg config.Config) random.Source {
	if cfg.Roulette.Seed != 0 {
		return random.NewSeededSource(cfg.Roulette.Seed)
	}
	return random.NewCryptoSource()
}

// openBackend opens the configured durable store.
func openBackend(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.Store.Backend {
	case "file":
		s, err := file.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		if cfg.Store.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Store.Timeout)
			defer cancel()
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return postgres.NewKVStore(pool), nil
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// newStore opens the configured backend behind a Fallback. A backend that
// cannot be opened degrades to memory so the picker still works.
func newStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	primary, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Warn("opening store failed, remembering choices in memory only",
			zap.String("backend", cfg.Store.Backend),
			zap.Error(err),
		)
		primary = storage.NewMemoryStore()
	}
	store := storage.NewFallback(primary, cfg.Store.Timeout, logger)
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

func newController(cfg config.Config, store storage.Store, src random.Source, logger *zap.Logger) (*roulette.Controller, func()) {
	ctrl := roulette.NewController(roulette.Config{
		SpinDuration:  cfg.Roulette.SpinDuration,
		CycleInterval: cfg.Roulette.CycleInterval,
		Store:         store,
		Source:        src,
		Logger:        logger,
	})
	return ctrl, ctrl.Close
}

func newDecoration(cfg config.Config, src random.Source) *backdrop.Decoration {
	if !cfg.UI.Backdrop {
		return nil
	}
	return backdrop.NewDecoration(roulette.Menu(), src, cfg.Roulette.BackdropInterval)
}
