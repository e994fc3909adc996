package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/dinnerroulette/internal/config"
	"github.com/cory-johannsen/dinnerroulette/internal/storage"
)

func testConfig(t *testing.T, backend string) config.Config {
	t.Helper()
	cfg, err := config.LoadFromViper(config.Defaults())
	require.NoError(t, err)
	cfg.Store.Backend = backend
	cfg.Store.Path = filepath.Join(t.TempDir(), "state")
	cfg.Roulette.SpinDuration = 40 * time.Millisecond
	cfg.Roulette.CycleInterval = 10 * time.Millisecond
	return cfg
}

func TestOpenBackend_LocalBackends(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []string{"file", "sqlite", "memory"} {
		t.Run(backend, func(t *testing.T) {
			s, err := openBackend(ctx, testConfig(t, backend))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })

			require.NoError(t, s.Set(ctx, storage.LastPickedKey, "McDonalds"))
			v, ok, err := s.Get(ctx, storage.LastPickedKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "McDonalds", v)
		})
	}
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, err := openBackend(context.Background(), testConfig(t, "redis"))
	assert.Error(t, err)
}

func TestNewStore_UnreachableBackendDegradesToMemory(t *testing.T) {
	cfg := testConfig(t, "postgres")
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = 1
	cfg.Store.Timeout = 200 * time.Millisecond

	s, cleanup, err := newStore(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, storage.LastPickedKey, "Dragon City"))
	v, ok, err := s.Get(ctx, storage.LastPickedKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Dragon City", v)
}

func TestInitializeApp_WiresComponents(t *testing.T) {
	cfg := testConfig(t, "file")
	app, cleanup, err := initializeApp(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, app.Controller)
	require.NotNil(t, app.Decoration)
	assert.True(t, app.Controller.TriggerEnabled())

	cfg.UI.Backdrop = false
	app2, cleanup2, err := initializeApp(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup2()
	assert.Nil(t, app2.Decoration)
}

func TestNewSource_SeedIsReproducible(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.Roulette.Seed = 9
	a, b := newSource(cfg), newSource(cfg)
	assert.Equal(t, a.Float64(), b.Float64())
}
