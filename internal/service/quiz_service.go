package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/domain/srs"
	"github.com/tbonnaire/mnemo-api/internal/store"
)

// quizDocumentVersion is written on every save of the quiz document.
const quizDocumentVersion = "1.0"

// quizDocument is the persisted shape of the leveled question pool.
type quizDocument struct {
	Questions   []domain.QuizQuestion `json:"questions"`
	Version     string                `json:"version"`
	LastUpdated string                `json:"last_updated"`
}

// AnswerResult reports the state transition after one answer submission.
type AnswerResult struct {
	Question      domain.QuizQuestion `json:"question"`
	Correct       bool                `json:"correct"`
	PreviousLevel int                 `json:"previous_level"`
}

// QuizService owns the leveled question pool. It is deliberately
// decoupled from the index-bucket review flow: questions enter the pool
// only through explicit capture, and answering one never touches cached
// day entries. Mutations follow the single-writer model.
type QuizService struct {
	blobs     store.BlobStore
	scheduler srs.Service
	logger    *slog.Logger

	mu sync.Mutex
}

// NewQuizService creates a QuizService.
// If logger is nil, a default logger will be used.
func NewQuizService(blobs store.BlobStore, scheduler srs.Service, logger *slog.Logger) *QuizService {
	if blobs == nil || scheduler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("blob store and scheduler are required for QuizService")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &QuizService{
		blobs:     blobs,
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "quiz_service")),
	}
}

func (s *QuizService) load(ctx context.Context) quizDocument {
	empty := quizDocument{Questions: []domain.QuizQuestion{}, Version: quizDocumentVersion}

	data, err := s.blobs.Read(ctx, store.QuizDocument)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to read quiz document, using empty document",
				slog.String("error", err.Error()))
		}
		return empty
	}

	var doc quizDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("failed to decode quiz document, using empty document",
			slog.String("error", err.Error()))
		return empty
	}

	if doc.Questions == nil {
		doc.Questions = []domain.QuizQuestion{}
	}

	return doc
}

func (s *QuizService) save(ctx context.Context, doc quizDocument) error {
	doc.Version = quizDocumentVersion
	doc.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return store.NewStoreError(store.QuizDocument, "write", "failed to encode quiz document", err)
	}

	if err := s.blobs.Write(ctx, store.QuizDocument, data); err != nil {
		return err
	}

	s.logger.Debug("quiz pool saved", slog.Int("questions", len(doc.Questions)))
	return nil
}

// AddQuestion captures a question/answer pair into the pool at level 1,
// scheduled one day out. An identical question text already present for
// the same category is treated as a duplicate and not added again; the
// existing question is returned instead.
func (s *QuizService) AddQuestion(ctx context.Context, question, answer, category string, originalIndex int) (*domain.QuizQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load(ctx)
	for i := range doc.Questions {
		if doc.Questions[i].Question == question && doc.Questions[i].Category == category {
			existing := doc.Questions[i]
			return &existing, nil
		}
	}

	q, err := domain.NewQuizQuestion(question, answer, category, originalIndex)
	if err != nil {
		return nil, err
	}

	doc.Questions = append(doc.Questions, *q)
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("quiz question added",
		slog.String("question_id", q.ID.String()),
		slog.String("category", category),
		slog.Int("original_index", originalIndex))
	return q, nil
}

// DueQuestions returns every question whose next review date is at or
// before now, most overdue first.
func (s *QuizService) DueQuestions(ctx context.Context, now time.Time) ([]domain.QuizQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load(ctx)

	due := make([]domain.QuizQuestion, 0)
	for _, q := range doc.Questions {
		if q.IsDue(now) {
			due = append(due, q)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].NextReviewDate.Before(due[j].NextReviewDate)
	})

	return due, nil
}

// SubmitAnswer records one answer for the question with the given ID and
// reschedules it: correct raises the level, wrong lowers it, both within
// the level bounds. Returns store.ErrQuestionNotFound when the ID is
// absent from the pool.
func (s *QuizService) SubmitAnswer(ctx context.Context, id uuid.UUID, correct bool, now time.Time) (*AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load(ctx)
	for i := range doc.Questions {
		if doc.Questions[i].ID != id {
			continue
		}

		previous := doc.Questions[i].EbbinghausLevel
		updated, err := s.scheduler.SubmitAnswer(&doc.Questions[i], correct, now)
		if err != nil {
			return nil, err
		}

		doc.Questions[i] = *updated
		if err := s.save(ctx, doc); err != nil {
			return nil, err
		}

		s.logger.Info("quiz answer recorded",
			slog.String("question_id", id.String()),
			slog.Bool("correct", correct),
			slog.Int("level", updated.EbbinghausLevel))
		return &AnswerResult{
			Question:      *updated,
			Correct:       correct,
			PreviousLevel: previous,
		}, nil
	}

	return nil, store.ErrQuestionNotFound
}

// Cleanup drops questions created before the cutoff unless their next
// review is still after now, and returns how many were removed.
func (s *QuizService) Cleanup(ctx context.Context, cutoff, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load(ctx)

	kept := doc.Questions[:0]
	removed := 0
	for _, q := range doc.Questions {
		if q.CreatedAt.Before(cutoff) && !q.NextReviewDate.After(now) {
			removed++
			continue
		}
		kept = append(kept, q)
	}

	if removed == 0 {
		return 0, nil
	}

	doc.Questions = kept
	if err := s.save(ctx, doc); err != nil {
		return 0, err
	}

	s.logger.Info("stale quiz questions removed", slog.Int("removed", removed))
	return removed, nil
}
