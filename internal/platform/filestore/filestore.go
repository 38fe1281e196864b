// Package filestore provides a file-backed implementation of
// store.BlobStore: one JSON file per document under a data directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tbonnaire/mnemo-api/internal/store"
)

// FileStore implements store.BlobStore on the local filesystem.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// Ensure FileStore implements store.BlobStore interface
var _ store.BlobStore = (*FileStore)(nil)

// New creates a FileStore rooted at dir, creating the directory if
// needed. If logger is nil, a default logger will be used.
func New(dir string, logger *slog.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("data directory cannot be empty")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	return &FileStore{
		dir:    dir,
		logger: logger.With(slog.String("component", "filestore")),
	}, nil
}

// path maps a document key to its file. Keys are well-known constants,
// never user input, so no sanitization beyond Base is needed.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key)+".json")
}

// Read implements store.BlobStore.Read.
func (s *FileStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrDocumentNotFound
		}
		return nil, store.NewStoreError(key, "read", "failed to read document file", err)
	}
	return data, nil
}

// Write implements store.BlobStore.Write. The document is written to a
// temporary file and renamed into place so a crash mid-write never
// leaves a truncated document behind.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) error {
	target := s.path(key)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return store.NewStoreError(key, "write", "failed to write temporary file", err)
	}

	if err := os.Rename(tmp, target); err != nil {
		// Best effort cleanup of the orphaned temp file.
		if rmErr := os.Remove(tmp); rmErr != nil {
			s.logger.Warn("failed to remove temporary file",
				slog.String("path", tmp),
				slog.String("error", rmErr.Error()))
		}
		return store.NewStoreError(key, "write", "failed to replace document file", err)
	}

	s.logger.Debug("document written",
		slog.String("key", key),
		slog.Int("bytes", len(data)))
	return nil
}

// Exists implements store.BlobStore.Exists.
func (s *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, store.NewStoreError(key, "exists", "failed to stat document file", err)
	}
	return true, nil
}
