package api

import (
	"log/slog"
	"net/http"

	"github.com/tbonnaire/mnemo-api/internal/api/shared"
	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/platform/logger"
	"github.com/tbonnaire/mnemo-api/internal/themes"
)

// Theme mutation actions accepted by POST /api/themes.
const (
	themeActionAdd    = "add"
	themeActionUpdate = "update"
	themeActionToggle = "toggle"
	themeActionDelete = "delete"
)

// ThemePayload is the theme object carried by add and update requests.
// Active is a pointer so an update can leave the stored flag untouched
// by omitting the field.
type ThemePayload struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PromptTemplate string `json:"prompt_template"`
	Active         *bool  `json:"active"`
}

// ThemeActionRequest is the request body for POST /api/themes. Add and
// update carry a theme object; toggle and delete carry just a theme ID.
type ThemeActionRequest struct {
	Action  string        `json:"action" validate:"required,oneof=add update toggle delete"`
	Theme   *ThemePayload `json:"theme,omitempty"`
	ThemeID string        `json:"theme_id,omitempty"`
}

// ThemeListResponse is the response body for GET /api/themes.
type ThemeListResponse struct {
	Success      bool           `json:"success"`
	Themes       []domain.Theme `json:"themes"`
	ActiveThemes []domain.Theme `json:"active_themes"`
	TotalThemes  int            `json:"total_themes"`
	Version      string         `json:"version"`
}

// ThemeActionResponse is the response body for POST /api/themes.
type ThemeActionResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Theme   *domain.Theme `json:"theme,omitempty"`
}

// ThemeHandler handles theme registry HTTP requests.
type ThemeHandler struct {
	registry *themes.Registry
	logger   *slog.Logger
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(registry *themes.Registry, logger *slog.Logger) *ThemeHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ThemeHandler")
	}

	return &ThemeHandler{
		registry: registry,
		logger:   logger.With(slog.String("component", "theme_handler")),
	}
}

// ListThemes handles GET /api/themes requests.
func (h *ThemeHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	all := h.registry.All(r.Context())

	active := make([]domain.Theme, 0, len(all))
	for _, theme := range all {
		if theme.Active {
			active = append(active, theme)
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ThemeListResponse{
		Success:      true,
		Themes:       all,
		ActiveThemes: active,
		TotalThemes:  len(all),
		Version:      h.registry.Version(r.Context()),
	})
}

// MutateTheme handles POST /api/themes requests, dispatching on the
// action field.
func (h *ThemeHandler) MutateTheme(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ThemeActionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	var (
		theme   *domain.Theme
		message string
		err     error
	)

	switch req.Action {
	case themeActionAdd:
		if req.Theme == nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Theme object is required for add")
			return
		}
		theme, err = h.registry.Add(r.Context(), domain.Theme{
			ID:             req.Theme.ID,
			Name:           req.Theme.Name,
			Description:    req.Theme.Description,
			PromptTemplate: req.Theme.PromptTemplate,
			Active:         req.Theme.Active != nil && *req.Theme.Active,
		})
		message = "Theme added"

	case themeActionUpdate:
		if req.Theme == nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Theme object is required for update")
			return
		}
		theme, err = h.registry.Update(r.Context(), themes.ThemeUpdate{
			ID:             req.Theme.ID,
			Name:           req.Theme.Name,
			Description:    req.Theme.Description,
			PromptTemplate: req.Theme.PromptTemplate,
			Active:         req.Theme.Active,
		})
		message = "Theme updated"

	case themeActionToggle:
		if req.ThemeID == "" {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Theme ID is required for toggle")
			return
		}
		theme, err = h.registry.Toggle(r.Context(), req.ThemeID)
		message = "Theme toggled"

	case themeActionDelete:
		if req.ThemeID == "" {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Theme ID is required for delete")
			return
		}
		theme, err = h.registry.Delete(r.Context(), req.ThemeID)
		message = "Theme deleted"
	}

	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("theme mutated", slog.String("action", req.Action))
	shared.RespondWithJSON(w, r, http.StatusOK, ThemeActionResponse{
		Success: true,
		Message: message,
		Theme:   theme,
	})
}
