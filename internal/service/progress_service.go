package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tbonnaire/mnemo-api/internal/store"
)

// progressDateLayout is the calendar-day granularity of streak tracking.
const progressDateLayout = "2006-01-02"

// Progress is the persisted access-streak state.
type Progress struct {
	LastAccess string `json:"last_access"`
	Streak     int    `json:"streak"`
}

// ProgressService tracks the consecutive-day access streak. A visit the
// day after the last one extends the streak, a visit the same day leaves
// it unchanged, and any gap resets it to 1.
type ProgressService struct {
	blobs  store.BlobStore
	logger *slog.Logger

	mu sync.Mutex
}

// NewProgressService creates a ProgressService.
// If logger is nil, a default logger will be used.
func NewProgressService(blobs store.BlobStore, logger *slog.Logger) *ProgressService {
	if blobs == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("blob store cannot be nil for ProgressService")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ProgressService{
		blobs:  blobs,
		logger: logger.With(slog.String("component", "progress_service")),
	}
}

func (s *ProgressService) load(ctx context.Context) Progress {
	data, err := s.blobs.Read(ctx, store.ProgressDocument)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to read progress document, starting fresh",
				slog.String("error", err.Error()))
		}
		return Progress{}
	}

	var progress Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		s.logger.Warn("failed to decode progress document, starting fresh",
			slog.String("error", err.Error()))
		return Progress{}
	}

	return progress
}

// Record registers an access at the given time and returns the updated
// streak state.
func (s *ProgressService) Record(ctx context.Context, now time.Time) (*Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress := s.load(ctx)
	today := now.UTC().Format(progressDateLayout)

	switch progress.LastAccess {
	case today:
		// Same calendar day, streak unchanged.
	case now.UTC().AddDate(0, 0, -1).Format(progressDateLayout):
		progress.Streak++
	default:
		progress.Streak = 1
	}
	progress.LastAccess = today

	data, err := json.MarshalIndent(progress, "", "  ")
	if err != nil {
		return nil, store.NewStoreError(store.ProgressDocument, "write", "failed to encode progress document", err)
	}

	if err := s.blobs.Write(ctx, store.ProgressDocument, data); err != nil {
		return nil, err
	}

	s.logger.Debug("progress recorded",
		slog.String("last_access", progress.LastAccess),
		slog.Int("streak", progress.Streak))
	return &progress, nil
}

// Current returns the stored streak state without registering an access.
func (s *ProgressService) Current(ctx context.Context) *Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress := s.load(ctx)
	return &progress
}
