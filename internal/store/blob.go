// Package store defines the persistence boundary. The application keeps
// a small number of named JSON documents; implementations only need to
// read and write whole blobs, never individual records.
package store

import "context"

// Well-known document keys.
const (
	// ContentCacheDocument holds the day-indexed content cache.
	ContentCacheDocument = "content-cache"

	// ThemesDocument holds the theme registry.
	ThemesDocument = "themes"

	// QuizDocument holds the leveled quiz question pool.
	QuizDocument = "quiz"

	// ProgressDocument holds last-access and streak tracking.
	ProgressDocument = "progress"
)

// BlobStore is the opaque key-value document store behind every
// persistent structure. Implementations must treat each Write as a full
// replacement of the document; callers serialize their own
// read-modify-write cycles (single-writer model).
type BlobStore interface {
	// Read returns the raw document for the given key.
	// Returns ErrDocumentNotFound if the document has never been written.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the document for the given key.
	Write(ctx context.Context, key string, data []byte) error

	// Exists reports whether a document has been written for the key.
	Exists(ctx context.Context, key string) (bool, error)
}
