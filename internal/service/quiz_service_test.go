package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbonnaire/mnemo-api/internal/domain/srs"
	"github.com/tbonnaire/mnemo-api/internal/store"
)

func newQuizService() *QuizService {
	return NewQuizService(newMemBlobStore(), srs.NewDefaultService(), nil)
}

func TestQuizServiceAddQuestion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newQuizService()

	q, err := svc.AddQuestion(ctx, "Who painted the Mona Lisa?", "Leonardo da Vinci", "world_history", 12)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, q.ID)
	assert.Equal(t, 1, q.EbbinghausLevel)
	assert.False(t, q.IsDue(time.Now().UTC()), "first review is scheduled one day out")
	assert.True(t, q.IsDue(q.CreatedAt.Add(24*time.Hour)))

	// Re-capturing the same question for the same category is a no-op.
	dup, err := svc.AddQuestion(ctx, "Who painted the Mona Lisa?", "Leonardo da Vinci", "world_history", 12)
	require.NoError(t, err)
	assert.Equal(t, q.ID, dup.ID)

	due, err := svc.DueQuestions(ctx, time.Now().UTC().AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestQuizServiceAddQuestionValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newQuizService()

	_, err := svc.AddQuestion(ctx, "   ", "answer", "cinema", 1)
	assert.Error(t, err)

	_, err = svc.AddQuestion(ctx, "question", "", "cinema", 1)
	assert.Error(t, err)
}

func TestQuizServiceDueQuestionsOrdering(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newQuizService()
	now := time.Now().UTC()

	first, err := svc.AddQuestion(ctx, "Q1?", "A1", "music", 1)
	require.NoError(t, err)
	second, err := svc.AddQuestion(ctx, "Q2?", "A2", "music", 2)
	require.NoError(t, err)

	// Answering the first pushes its next review out to three days;
	// the second stays on its initial one-day schedule.
	_, err = svc.SubmitAnswer(ctx, first.ID, true, now)
	require.NoError(t, err)

	due, err := svc.DueQuestions(ctx, now.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, second.ID, due[0].ID)

	// Three days later both are due, most overdue first.
	due, err = svc.DueQuestions(ctx, now.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, second.ID, due[0].ID)
	assert.Equal(t, first.ID, due[1].ID)
}

func TestQuizServiceSubmitAnswer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newQuizService()
	now := time.Now().UTC()

	q, err := svc.AddQuestion(ctx, "Capital of Japan?", "Tokyo", "countries_capitals", 8)
	require.NoError(t, err)

	result, err := svc.SubmitAnswer(ctx, q.ID, true, now)
	require.NoError(t, err)

	assert.Equal(t, 1, result.PreviousLevel)
	assert.Equal(t, 2, result.Question.EbbinghausLevel)
	assert.Equal(t, now.AddDate(0, 0, 3), result.Question.NextReviewDate)

	// The new state is persisted.
	result, err = svc.SubmitAnswer(ctx, q.ID, false, now)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PreviousLevel)
	assert.Equal(t, 1, result.Question.EbbinghausLevel)

	_, err = svc.SubmitAnswer(ctx, uuid.New(), true, now)
	assert.ErrorIs(t, err, store.ErrQuestionNotFound)
}

func TestQuizServiceCleanup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newQuizService()
	now := time.Now().UTC()

	_, err := svc.AddQuestion(ctx, "Old?", "Yes", "cinema", 1)
	require.NoError(t, err)
	active, err := svc.AddQuestion(ctx, "Active?", "Yes", "cinema", 2)
	require.NoError(t, err)

	// Answering pushes the active question's next review three days out.
	_, err = svc.SubmitAnswer(ctx, active.ID, true, now)
	require.NoError(t, err)

	// Two days on, the unanswered question is overdue and prunable; the
	// answered one is still waiting for its scheduled review.
	removed, err := svc.Cleanup(ctx, now.Add(time.Hour), now.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	due, err := svc.DueQuestions(ctx, now.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, active.ID, due[0].ID)
}
