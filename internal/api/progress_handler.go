package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tbonnaire/mnemo-api/internal/api/shared"
	"github.com/tbonnaire/mnemo-api/internal/service"
)

// ProgressResponse is the response body for GET /api/progress.
type ProgressResponse struct {
	Success    bool   `json:"success"`
	LastAccess string `json:"last_access"`
	Streak     int    `json:"streak"`
}

// ProgressHandler handles access-streak HTTP requests.
type ProgressHandler struct {
	progressService *service.ProgressService
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService *service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "progress_handler")),
	}
}

// GetProgress handles GET /api/progress requests. Reading the streak
// also registers today's access, so consecutive daily reads extend it.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.progressService.Record(r.Context(), time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProgressResponse{
		Success:    true,
		LastAccess: progress.LastAccess,
		Streak:     progress.Streak,
	})
}
