// Package api implements the HTTP handlers and their error mapping.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/generation"
	"github.com/tbonnaire/mnemo-api/internal/service"
	"github.com/tbonnaire/mnemo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrThemeExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidDayIndex),
		errors.Is(err, domain.ErrInvalidLevel):
		return http.StatusBadRequest

	// Precondition errors
	case errors.Is(err, service.ErrNoActiveThemes):
		return http.StatusConflict

	// Upstream generation errors
	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable

	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, service.ErrNothingParsed):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Not found errors
	case errors.Is(err, store.ErrDayEntryNotFound):
		return "Day entry not found"

	case errors.Is(err, store.ErrThemeNotFound):
		return "Theme not found"

	case errors.Is(err, store.ErrQuestionNotFound):
		return "Quiz question not found"

	case store.IsNotFoundError(err):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrThemeExists):
		return "Theme already exists"

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidDayIndex):
		return "Invalid day index"

	case errors.Is(err, domain.ErrInvalidLevel):
		return "Invalid question level"

	case errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	// Precondition errors
	case errors.Is(err, service.ErrNoActiveThemes):
		return "No active themes configured"

	// Upstream generation errors
	case errors.Is(err, generation.ErrContentBlocked):
		return "Content generation was blocked"

	case errors.Is(err, generation.ErrTransientFailure):
		return "Content generation is temporarily unavailable"

	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, service.ErrNothingParsed):
		return "Content generation failed"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation
// errors and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'ThemeRequest.ID' Error:Field validation
		// for 'ID' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return "Invalid " + field + ": " + getValidationTagMessage(tag)
				}
				return "Invalid " + field
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too small"
	case "max":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
