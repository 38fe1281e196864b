package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbonnaire/mnemo-api/internal/store"
)

func TestFileStoreReadWriteExists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	// Missing document reads as not found.
	_, err = fs.Read(ctx, store.ContentCacheDocument)
	assert.ErrorIs(t, err, store.ErrNotFound)

	exists, err := fs.Exists(ctx, store.ContentCacheDocument)
	require.NoError(t, err)
	assert.False(t, exists)

	payload := []byte(`{"cache":{},"current_index":1}`)
	require.NoError(t, fs.Write(ctx, store.ContentCacheDocument, payload))

	got, err := fs.Read(ctx, store.ContentCacheDocument)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	exists, err = fs.Exists(ctx, store.ContentCacheDocument)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFileStoreOverwrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, fs.Write(ctx, store.ThemesDocument, []byte("first")))
	require.NoError(t, fs.Write(ctx, store.ThemesDocument, []byte("second")))

	got, err := fs.Read(ctx, store.ThemesDocument)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := New(dir, nil)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStoreRejectsEmptyDir(t *testing.T) {
	t.Parallel()

	_, err := New("", nil)
	assert.Error(t, err)
}

func TestFileStoreKeySanitization(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	fs, err := New(dir, nil)
	require.NoError(t, err)

	// Path separators in keys must not escape the data directory.
	require.NoError(t, fs.Write(ctx, "../escape", []byte("x")))

	_, err = os.Stat(filepath.Join(dir, "escape.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escape.json"))
	assert.True(t, os.IsNotExist(err))
}
