// Package postgres provides a PostgreSQL-backed implementation of
// store.BlobStore. Documents are stored whole in a single key-value
// table with a JSONB payload; the single-writer model upstream makes
// row-level transactions unnecessary.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/tbonnaire/mnemo-api/internal/store"
)

// PostgresDocumentStore implements the store.BlobStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresDocumentStore implements store.BlobStore interface
var _ store.BlobStore = (*PostgresDocumentStore)(nil)

// NewPostgresDocumentStore creates a new PostgreSQL implementation of the
// BlobStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDocumentStore(db store.DBTX, logger *slog.Logger) *PostgresDocumentStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
}

// Read implements store.BlobStore.Read.
// Returns store.ErrDocumentNotFound if the document has never been written.
func (s *PostgresDocumentStore) Read(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT payload FROM documents WHERE key = $1`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDocumentNotFound
		}
		s.logger.Error("failed to read document",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return payload, nil
}

// Write implements store.BlobStore.Write.
// The whole document is replaced atomically via an upsert.
func (s *PostgresDocumentStore) Write(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO documents (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, key, data); err != nil {
		s.logger.Error("failed to write document",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	s.logger.Debug("document written",
		slog.String("key", key),
		slog.Int("bytes", len(data)))
	return nil
}

// Exists implements store.BlobStore.Exists.
func (s *PostgresDocumentStore) Exists(ctx context.Context, key string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM documents WHERE key = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, key).Scan(&exists); err != nil {
		return false, MapError(err)
	}

	return exists, nil
}
