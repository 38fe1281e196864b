package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tbonnaire/mnemo-api/internal/api/shared"
	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/platform/logger"
	"github.com/tbonnaire/mnemo-api/internal/service"
)

// AddQuestionRequest is the request body for POST /api/quiz/questions.
type AddQuestionRequest struct {
	Question      string `json:"question" validate:"required"`
	Answer        string `json:"answer" validate:"required"`
	Category      string `json:"category" validate:"required"`
	OriginalIndex int    `json:"original_index" validate:"required,min=1"`
}

// SubmitAnswerRequest is the request body for POST /api/quiz/{id}/answer.
// Correct is a pointer so a missing field is distinguishable from false.
type SubmitAnswerRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// DueQuestionsResponse is the response body for GET /api/quiz/due.
type DueQuestionsResponse struct {
	Success   bool                  `json:"success"`
	Questions []domain.QuizQuestion `json:"questions"`
	Count     int                   `json:"count"`
}

// QuizHandler handles leveled quiz pool HTTP requests.
type QuizHandler struct {
	quizService *service.QuizService
	logger      *slog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}

	return &QuizHandler{
		quizService: quizService,
		logger:      logger.With(slog.String("component", "quiz_handler")),
	}
}

// AddQuestion handles POST /api/quiz/questions requests.
func (h *QuizHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req AddQuestionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	question, err := h.quizService.AddQuestion(r.Context(), req.Question, req.Answer, req.Category, req.OriginalIndex)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("quiz question captured", slog.String("question_id", question.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, question)
}

// DueQuestions handles GET /api/quiz/due requests.
func (h *QuizHandler) DueQuestions(w http.ResponseWriter, r *http.Request) {
	due, err := h.quizService.DueQuestions(r.Context(), time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueQuestionsResponse{
		Success:   true,
		Questions: due,
		Count:     len(due),
	})
}

// SubmitAnswer handles POST /api/quiz/{id}/answer requests.
func (h *QuizHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid question ID")
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.quizService.SubmitAnswer(r.Context(), id, *req.Correct, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("quiz answer submitted",
		slog.String("question_id", id.String()),
		slog.Bool("correct", result.Correct),
		slog.Int("level", result.Question.EbbinghausLevel))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
