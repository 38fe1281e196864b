package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a theme with the same ID).
	ErrDuplicate = errors.New("entity already exists")

	// ErrWriteFailed is returned when persisting a document fails. The
	// in-memory state is still valid; only the save was lost.
	ErrWriteFailed = errors.New("write failed")

	// Entity-specific "not found" errors

	// ErrDocumentNotFound indicates that the requested blob document does not exist.
	ErrDocumentNotFound = fmt.Errorf("%w: document", ErrNotFound)

	// ErrThemeNotFound indicates that the requested theme does not exist.
	ErrThemeNotFound = fmt.Errorf("%w: theme", ErrNotFound)

	// ErrDayEntryNotFound indicates that no content is stored for the requested day index.
	ErrDayEntryNotFound = fmt.Errorf("%w: day entry", ErrNotFound)

	// ErrQuestionNotFound indicates that the requested quiz question does not exist.
	ErrQuestionNotFound = fmt.Errorf("%w: quiz question", ErrNotFound)

	// ErrThemeExists indicates that a theme with the given ID already exists.
	ErrThemeExists = fmt.Errorf("%w: theme", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Document  string // The document key (e.g., "content-cache")
	Operation string // The operation that failed (e.g., "read", "write")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Document, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Document, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given document, operation, message, and wrapped error.
func NewStoreError(document, operation, message string, err error) *StoreError {
	return &StoreError{
		Document:  document,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
