package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tbonnaire/mnemo-api/internal/api/shared"
	"github.com/tbonnaire/mnemo-api/internal/cache"
	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/platform/logger"
	"github.com/tbonnaire/mnemo-api/internal/service"
)

// DailyContentRequest is the request body for POST /api/daily-content.
type DailyContentRequest struct {
	DayIndex int `json:"day_index" validate:"required,min=1"`
}

// ClearThemeRequest is the request body for POST /api/clear-theme.
type ClearThemeRequest struct {
	DayIndex int    `json:"day_index" validate:"required,min=1"`
	ThemeID  string `json:"theme_id"  validate:"required"`
}

// CurrentIndexResponse is the response body for GET /api/current-index.
// CurrentIndex is derived from the wall clock; CachedIndex is the
// persisted watermark, which runs ahead when content was pregenerated.
type CurrentIndexResponse struct {
	Success      bool `json:"success"`
	CurrentIndex int  `json:"current_index"`
	CachedIndex  int  `json:"cached_index"`
	TotalDays    int  `json:"total_days"`
}

// ClearThemeResponse is the response body for POST /api/clear-theme.
type ClearThemeResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	RemainingThemes int    `json:"remaining_themes"`
}

// fallbackErrorResponse is the failure body for POST /api/daily-content.
// It carries deterministic fallback content so the caller always has
// something to display.
type fallbackErrorResponse struct {
	Success  bool            `json:"success"`
	Error    string          `json:"error"`
	Fallback domain.DayEntry `json:"fallback"`
	TraceID  string          `json:"trace_id,omitempty"`
}

// ContentHandler handles content-related HTTP requests.
type ContentHandler struct {
	contentService *service.ContentService
	contentCache   *cache.ContentCache
	epoch          time.Time
	logger         *slog.Logger
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(
	contentService *service.ContentService,
	contentCache *cache.ContentCache,
	epoch time.Time,
	logger *slog.Logger,
) *ContentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ContentHandler")
	}

	return &ContentHandler{
		contentService: contentService,
		contentCache:   contentCache,
		epoch:          epoch,
		logger:         logger.With(slog.String("component", "content_handler")),
	}
}

// GetDailyContent handles POST /api/daily-content requests. The entry is
// served from the cache when complete; otherwise one batched generation
// call fills the gaps. On upstream failure the response carries fallback
// content and nothing is written to the cache.
func (h *ContentHandler) GetDailyContent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req DailyContentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	content, err := h.contentService.GetDailyContent(r.Context(), req.DayIndex)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)

		if statusCode >= http.StatusInternalServerError {
			log.Error("daily content request failed, serving fallback",
				slog.Int("day_index", req.DayIndex),
				slog.String("error", err.Error()))
			shared.RespondWithJSON(w, r, statusCode, fallbackErrorResponse{
				Success:  false,
				Error:    safeMessage,
				Fallback: h.contentService.FallbackContent(),
				TraceID:  shared.GetTraceID(r.Context()),
			})
			return
		}

		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("daily content served",
		slog.Int("day_index", content.DayIndex),
		slog.String("source", content.Source))
	shared.RespondWithJSON(w, r, http.StatusOK, content)
}

// GetCurrentIndex handles GET /api/current-index requests. The
// wall-clock index is the answer to "what day is it"; the stored
// watermark is reported alongside and diverges whenever content was
// generated ahead of today.
func (h *ContentHandler) GetCurrentIndex(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, CurrentIndexResponse{
		Success:      true,
		CurrentIndex: domain.CurrentDayIndex(h.epoch, time.Now().UTC()),
		CachedIndex:  h.contentCache.CurrentIndex(r.Context()),
		TotalDays:    h.contentCache.TotalDays(r.Context()),
	})
}

// ClearTheme handles POST /api/clear-theme requests.
func (h *ContentHandler) ClearTheme(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ClearThemeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	remaining, err := h.contentService.ClearTheme(r.Context(), req.DayIndex, req.ThemeID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("theme cleared",
		slog.Int("day_index", req.DayIndex),
		slog.String("theme_id", req.ThemeID))
	shared.RespondWithJSON(w, r, http.StatusOK, ClearThemeResponse{
		Success:         true,
		Message:         "Theme cleared from day entry",
		RemainingThemes: remaining,
	})
}
