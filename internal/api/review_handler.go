package api

import (
	"log/slog"
	"net/http"

	"github.com/tbonnaire/mnemo-api/internal/api/shared"
	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/platform/logger"
	"github.com/tbonnaire/mnemo-api/internal/service"
)

// ReviewContentRequest is the request body for POST /api/review-content.
// ReviewIndexes overrides the standard derived offsets when provided.
type ReviewContentRequest struct {
	CurrentIndex  int   `json:"current_index" validate:"required,min=1"`
	ReviewIndexes []int `json:"review_indexes"`
}

// ReviewContentResponse is the response body for POST /api/review-content.
type ReviewContentResponse struct {
	Success       bool                `json:"success"`
	Questions     []domain.ReviewItem `json:"questions"`
	Count         int                 `json:"count"`
	ReviewIndexes []int               `json:"review_indexes"`
}

// ReviewHandler handles review-related HTTP requests.
type ReviewHandler struct {
	reviewService *service.ReviewService
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// GetReviewContent handles POST /api/review-content requests. Days with
// no stored entry simply contribute no questions; an empty result is a
// successful response, not an error.
func (h *ReviewHandler) GetReviewContent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ReviewContentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	content, err := h.reviewService.GetReviewContent(r.Context(), req.CurrentIndex, req.ReviewIndexes)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review content served",
		slog.Int("current_index", req.CurrentIndex),
		slog.Int("count", len(content.Items)))
	shared.RespondWithJSON(w, r, http.StatusOK, ReviewContentResponse{
		Success:       true,
		Questions:     content.Items,
		Count:         len(content.Items),
		ReviewIndexes: content.ReviewIndexes,
	})
}
