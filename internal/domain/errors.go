// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidDayIndex is returned when a day index is zero or negative.
	ErrInvalidDayIndex = errors.New("day index must be at least 1")

	// ErrInvalidLevel is returned when a spaced-repetition level is outside [1,6].
	ErrInvalidLevel = errors.New("ebbinghaus level must be between 1 and 6")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")
)
