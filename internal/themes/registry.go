// Package themes implements the theme registry: topic definitions and
// their CRUD operations over the themes document.
package themes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/store"
)

// documentVersion is written on every save of the themes document.
const documentVersion = "1.0"

// document is the persisted shape of the theme registry.
type document struct {
	Themes      []domain.Theme `json:"themes"`
	Version     string         `json:"version"`
	LastUpdated string         `json:"last_updated"`
}

// Registry owns theme definitions. Like the content cache it follows
// the single-writer model: each mutation re-reads the document, changes
// it in memory, and writes it back under the mutex.
type Registry struct {
	blobs  store.BlobStore
	logger *slog.Logger

	mu sync.Mutex
}

// NewRegistry creates a Registry over the given blob store.
// If logger is nil, a default logger will be used.
func NewRegistry(blobs store.BlobStore, logger *slog.Logger) *Registry {
	if blobs == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("blob store cannot be nil for Registry")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		blobs:  blobs,
		logger: logger.With(slog.String("component", "theme_registry")),
	}
}

// load reads the themes document, degrading to an empty default when the
// document is missing or unreadable.
func (r *Registry) load(ctx context.Context) document {
	empty := document{Themes: []domain.Theme{}, Version: documentVersion}

	data, err := r.blobs.Read(ctx, store.ThemesDocument)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.Warn("failed to read themes document, using empty document",
				slog.String("error", err.Error()))
		}
		return empty
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		r.logger.Warn("failed to decode themes document, using empty document",
			slog.String("error", err.Error()))
		return empty
	}

	if doc.Themes == nil {
		doc.Themes = []domain.Theme{}
	}

	return doc
}

func (r *Registry) save(ctx context.Context, doc document) error {
	doc.Version = documentVersion
	doc.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return store.NewStoreError(store.ThemesDocument, "write", "failed to encode themes document", err)
	}

	if err := r.blobs.Write(ctx, store.ThemesDocument, data); err != nil {
		return err
	}

	r.logger.Debug("themes saved", slog.Int("count", len(doc.Themes)))
	return nil
}

// All returns every theme, active or not.
func (r *Registry) All(ctx context.Context) []domain.Theme {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx).Themes
}

// Active returns only the active themes, in stored order.
func (r *Registry) Active(ctx context.Context) []domain.Theme {
	var active []domain.Theme
	for _, theme := range r.All(ctx) {
		if theme.Active {
			active = append(active, theme)
		}
	}
	return active
}

// Version returns the persisted document version string.
func (r *Registry) Version(ctx context.Context) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx).Version
}

// Add appends a new theme. The ID must be unique; id, name and prompt
// template are required. Returns the stored theme.
func (r *Registry) Add(ctx context.Context, theme domain.Theme) (*domain.Theme, error) {
	if err := theme.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)
	for _, existing := range doc.Themes {
		if existing.ID == theme.ID {
			return nil, store.ErrThemeExists
		}
	}

	doc.Themes = append(doc.Themes, theme)
	if err := r.save(ctx, doc); err != nil {
		return nil, err
	}

	r.logger.Info("theme added",
		slog.String("theme_id", theme.ID),
		slog.String("name", theme.Name))
	return &theme, nil
}

// ThemeUpdate carries the fields of one update request. Absent fields
// (blank strings, nil Active) leave the stored value untouched.
type ThemeUpdate struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PromptTemplate string `json:"prompt_template"`
	Active         *bool  `json:"active"`
}

// Update merges the given fields into the existing theme with the same
// ID. The ID itself is immutable. Returns store.ErrThemeNotFound if the
// theme is absent.
func (r *Registry) Update(ctx context.Context, update ThemeUpdate) (*domain.Theme, error) {
	if strings.TrimSpace(update.ID) == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrThemeIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)
	for i, existing := range doc.Themes {
		if existing.ID != update.ID {
			continue
		}

		if strings.TrimSpace(update.Name) != "" {
			existing.Name = update.Name
		}
		if update.Description != "" {
			existing.Description = update.Description
		}
		if strings.TrimSpace(update.PromptTemplate) != "" {
			existing.PromptTemplate = update.PromptTemplate
		}
		if update.Active != nil {
			existing.Active = *update.Active
		}

		doc.Themes[i] = existing
		if err := r.save(ctx, doc); err != nil {
			return nil, err
		}

		r.logger.Info("theme updated", slog.String("theme_id", existing.ID))
		return &existing, nil
	}

	return nil, store.ErrThemeNotFound
}

// Toggle flips a theme's active flag and returns the updated theme.
func (r *Registry) Toggle(ctx context.Context, themeID string) (*domain.Theme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)
	for i, existing := range doc.Themes {
		if existing.ID != themeID {
			continue
		}

		existing.Active = !existing.Active
		doc.Themes[i] = existing
		if err := r.save(ctx, doc); err != nil {
			return nil, err
		}

		r.logger.Info("theme toggled",
			slog.String("theme_id", themeID),
			slog.Bool("active", existing.Active))
		return &existing, nil
	}

	return nil, store.ErrThemeNotFound
}

// Delete removes a theme by ID and returns the removed theme.
func (r *Registry) Delete(ctx context.Context, themeID string) (*domain.Theme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.load(ctx)
	for i, existing := range doc.Themes {
		if existing.ID != themeID {
			continue
		}

		doc.Themes = append(doc.Themes[:i], doc.Themes[i+1:]...)
		if err := r.save(ctx, doc); err != nil {
			return nil, err
		}

		r.logger.Info("theme deleted", slog.String("theme_id", themeID))
		return &existing, nil
	}

	return nil, store.ErrThemeNotFound
}
