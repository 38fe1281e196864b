package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tbonnaire/mnemo-api/internal/api"
	apiMiddleware "github.com/tbonnaire/mnemo-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	contentHandler := api.NewContentHandler(app.contentService, app.contentCache, app.epoch, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	themeHandler := api.NewThemeHandler(app.registry, app.logger)
	quizHandler := api.NewQuizHandler(app.quizService, app.logger)
	progressHandler := api.NewProgressHandler(app.progressService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Content endpoints
		r.Post("/daily-content", contentHandler.GetDailyContent)
		r.Get("/current-index", contentHandler.GetCurrentIndex)
		r.Post("/clear-theme", contentHandler.ClearTheme)

		// Review endpoints
		r.Post("/review-content", reviewHandler.GetReviewContent)

		// Theme registry endpoints
		r.Get("/themes", themeHandler.ListThemes)
		r.Post("/themes", themeHandler.MutateTheme)

		// Leveled quiz pool endpoints
		r.Post("/quiz/questions", quizHandler.AddQuestion)
		r.Get("/quiz/due", quizHandler.DueQuestions)
		r.Post("/quiz/{id}/answer", quizHandler.SubmitAnswer)

		// Progress endpoint
		r.Get("/progress", progressHandler.GetProgress)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
