package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tbonnaire/mnemo-api/internal/cache"
	"github.com/tbonnaire/mnemo-api/internal/config"
	"github.com/tbonnaire/mnemo-api/internal/continuation"
	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/domain/srs"
	"github.com/tbonnaire/mnemo-api/internal/platform/filestore"
	"github.com/tbonnaire/mnemo-api/internal/platform/gemini"
	"github.com/tbonnaire/mnemo-api/internal/platform/postgres"
	"github.com/tbonnaire/mnemo-api/internal/service"
	"github.com/tbonnaire/mnemo-api/internal/store"
	"github.com/tbonnaire/mnemo-api/internal/task"
	"github.com/tbonnaire/mnemo-api/internal/themes"
)

// application holds the fully wired dependency graph.
type application struct {
	config *config.Config
	logger *slog.Logger

	db    *sql.DB // nil when the file backend is selected
	blobs store.BlobStore
	epoch time.Time

	contentCache *cache.ContentCache
	registry     *themes.Registry

	contentService  *service.ContentService
	reviewService   *service.ReviewService
	quizService     *service.QuizService
	progressService *service.ProgressService

	scheduler *task.Scheduler
}

// newApplication wires every component from configuration. Construction
// order follows the dependency direction: store, document owners,
// generation, services, background scheduler.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		epoch:  resolveEpoch(cfg.Scheduler.EpochDate, logger),
	}

	if err := app.setupStore(); err != nil {
		return nil, err
	}

	app.contentCache = cache.NewContentCache(app.blobs, logger)
	app.registry = themes.NewRegistry(app.blobs, logger)

	generator, err := gemini.NewGeminiGenerator(context.Background(), logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	engine := continuation.NewEngine(nil)
	scheduler := srs.NewDefaultService()

	generationTimeout := time.Duration(cfg.LLM.GenerationTimeoutSeconds) * time.Second
	app.contentService = service.NewContentService(
		app.contentCache, app.registry, engine, generator, generationTimeout, logger)
	app.reviewService = service.NewReviewService(app.contentCache, scheduler, logger)
	app.quizService = service.NewQuizService(app.blobs, scheduler, logger)
	app.progressService = service.NewProgressService(app.blobs, logger)

	if cfg.Scheduler.PregenerateIntervalMinutes > 0 {
		app.scheduler = task.NewScheduler(app.contentService, app.quizService, app.contentCache, task.SchedulerConfig{
			Interval:      time.Duration(cfg.Scheduler.PregenerateIntervalMinutes) * time.Minute,
			RetentionDays: cfg.Scheduler.RetentionDays,
			Epoch:         app.epoch,
		}, logger)
	}

	return app, nil
}

// setupStore selects the persistence backend from configuration.
func (app *application) setupStore() error {
	switch app.config.Store.Backend {
	case "postgres":
		db, err := setupAppDatabase(app.config, app.logger)
		if err != nil {
			return err
		}
		app.db = db
		app.blobs = postgres.NewPostgresDocumentStore(db, app.logger)

	default:
		fs, err := filestore.New(app.config.Store.DataDir, app.logger)
		if err != nil {
			return fmt.Errorf("failed to create file store: %w", err)
		}
		app.blobs = fs
	}

	return nil
}

// run starts the background scheduler and the HTTP server, blocking
// until shutdown.
func (app *application) run() error {
	if app.scheduler != nil {
		app.scheduler.Start()
	}

	return app.startHTTPServer(context.Background(), app.setupRouter())
}

// cleanup releases resources in reverse construction order.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}

// resolveEpoch parses the configured day-1 reference date, falling back
// to the built-in default when unset.
func resolveEpoch(epochDate string, logger *slog.Logger) time.Time {
	if epochDate == "" {
		return domain.DefaultEpoch
	}

	epoch, err := time.Parse("2006-01-02", epochDate)
	if err != nil {
		logger.Warn("invalid epoch date in configuration, using default",
			"epoch_date", epochDate,
			"error", err)
		return domain.DefaultEpoch
	}
	return epoch.UTC()
}
