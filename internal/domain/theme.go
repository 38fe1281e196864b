package domain

import (
	"errors"
	"strings"
)

// Theme-specific validation errors
var (
	// ErrThemeIDEmpty is returned when a theme ID is empty.
	ErrThemeIDEmpty = errors.New("theme ID cannot be empty")

	// ErrThemeNameEmpty is returned when a theme name is empty.
	ErrThemeNameEmpty = errors.New("theme name cannot be empty")

	// ErrThemePromptEmpty is returned when a theme has no prompt template.
	ErrThemePromptEmpty = errors.New("theme prompt template cannot be empty")
)

// Theme represents one learning topic with its own chronological
// progression axis. The ID is immutable once created and is used as the
// key for generated content.
type Theme struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PromptTemplate string `json:"prompt_template"`
	Active         bool   `json:"active"`
}

// NewTheme creates a new Theme and validates it.
func NewTheme(id, name, description, promptTemplate string, active bool) (*Theme, error) {
	theme := &Theme{
		ID:             id,
		Name:           name,
		Description:    description,
		PromptTemplate: promptTemplate,
		Active:         active,
	}

	if err := theme.Validate(); err != nil {
		return nil, err
	}

	return theme, nil
}

// Validate checks if the Theme has valid data.
// Returns an error if any field fails validation.
func (t *Theme) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrThemeIDEmpty
	}

	if strings.TrimSpace(t.Name) == "" {
		return ErrThemeNameEmpty
	}

	if strings.TrimSpace(t.PromptTemplate) == "" {
		return ErrThemePromptEmpty
	}

	return nil
}
