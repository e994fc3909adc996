package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/dinnerroulette/internal/storage"
)

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)

	_, ok, err := s.Get(context.Background(), storage.LastPickedKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SetThenGetSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, storage.LastPickedKey, "Hot Dogs / Fish Sticks"))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, storage.LastPickedKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Hot Dogs / Fish Sticks", v)
}

func TestStore_OverwriteKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "other", "x"))
	require.NoError(t, s.Set(ctx, storage.LastPickedKey, "a"))
	require.NoError(t, s.Set(ctx, storage.LastPickedKey, "b"))

	v, _, err := s.Get(ctx, storage.LastPickedKey)
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	v, _, err = s.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func TestStore_CorruptFileIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("values: [unterminated"), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	_, _, err = s.Get(context.Background(), storage.LastPickedKey)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrUnavailable))
}

func TestStore_CancelledContext(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Set(ctx, storage.LastPickedKey, "x"), context.Canceled)
}
