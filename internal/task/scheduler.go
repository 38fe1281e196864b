// Package task runs the background maintenance loop: ahead-of-time
// content pregeneration and retention cleanup.
package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tbonnaire/mnemo-api/internal/cache"
	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/service"
)

// SchedulerConfig holds configuration for the background scheduler.
type SchedulerConfig struct {
	// Interval between maintenance passes. If zero, defaults to one hour.
	Interval time.Duration

	// RetentionDays is how many day entries behind the watermark are
	// kept. Zero disables cleanup.
	RetentionDays int

	// Epoch is the reference date for day index 1.
	Epoch time.Time
}

// DefaultSchedulerConfig returns a SchedulerConfig with reasonable defaults.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval:      time.Hour,
		RetentionDays: 400,
		Epoch:         domain.DefaultEpoch,
	}
}

// Scheduler periodically pregenerates today's content so interactive
// requests hit a warm cache, and prunes day entries and stale quiz
// questions past the retention window. Failures are logged and retried
// on the next tick, never fatal.
type Scheduler struct {
	contentService *service.ContentService
	quizService    *service.QuizService
	contentCache   *cache.ContentCache
	config         SchedulerConfig
	logger         *slog.Logger

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
// If logger is nil, a default logger will be used.
func NewScheduler(
	contentService *service.ContentService,
	quizService *service.QuizService,
	contentCache *cache.ContentCache,
	config SchedulerConfig,
	logger *slog.Logger,
) *Scheduler {
	if contentService == nil || quizService == nil || contentCache == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("content service, quiz service and content cache are required for Scheduler")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	if config.Epoch.IsZero() {
		config.Epoch = domain.DefaultEpoch
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		contentService: contentService,
		quizService:    quizService,
		contentCache:   contentCache,
		config:         config,
		logger:         logger.With(slog.String("component", "scheduler")),
		ctx:            ctx,
		cancelFunc:     cancel,
	}
}

// Start launches the maintenance loop. One pass runs immediately so a
// fresh deployment warms its cache without waiting a full interval.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop cancels the loop and waits for any in-flight pass to finish.
func (s *Scheduler) Stop() {
	s.cancelFunc()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	s.pass()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.pass()
		}
	}
}

// pass runs one maintenance cycle: pregenerate today's entry, then
// prune day entries and quiz questions older than the retention window.
func (s *Scheduler) pass() {
	now := time.Now().UTC()
	todayIndex := domain.CurrentDayIndex(s.config.Epoch, now)

	content, err := s.contentService.GetDailyContent(s.ctx, todayIndex)
	if err != nil {
		s.logger.Warn("pregeneration pass failed, will retry next tick",
			slog.Int("day_index", todayIndex),
			slog.String("error", err.Error()))
	} else {
		s.logger.Debug("pregeneration pass complete",
			slog.Int("day_index", todayIndex),
			slog.String("source", content.Source))
	}

	if s.config.RetentionDays <= 0 {
		return
	}

	cutoff := now.AddDate(0, 0, -s.config.RetentionDays)
	removedQuestions, err := s.quizService.Cleanup(s.ctx, cutoff, now)
	if err != nil {
		s.logger.Warn("quiz retention cleanup failed",
			slog.String("error", err.Error()))
	} else if removedQuestions > 0 {
		s.logger.Info("quiz retention cleanup complete",
			slog.Int("removed", removedQuestions))
	}

	minIndex := todayIndex - s.config.RetentionDays
	if minIndex <= 1 {
		return
	}

	removed, err := s.contentCache.CleanupBefore(s.ctx, minIndex)
	if err != nil {
		s.logger.Warn("retention cleanup failed",
			slog.Int("min_index", minIndex),
			slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		s.logger.Info("retention cleanup complete",
			slog.Int("removed", removed),
			slog.Int("min_index", minIndex))
	}
}
