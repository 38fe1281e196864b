package task

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbonnaire/mnemo-api/internal/cache"
	"github.com/tbonnaire/mnemo-api/internal/continuation"
	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/domain/srs"
	"github.com/tbonnaire/mnemo-api/internal/generation"
	"github.com/tbonnaire/mnemo-api/internal/service"
	"github.com/tbonnaire/mnemo-api/internal/store"
	"github.com/tbonnaire/mnemo-api/internal/themes"
)

type memBlobStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{docs: make(map[string][]byte)}
}

func (m *memBlobStore) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[key]
	if !ok {
		return nil, store.ErrDocumentNotFound
	}
	return data, nil
}

func (m *memBlobStore) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = data
	return nil
}

func (m *memBlobStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[key]
	return ok, nil
}

func staticGenerator(response string) generation.GeneratorFunc {
	return func(_ context.Context, _ string) (string, error) {
		return response, nil
	}
}

func TestSchedulerPassPregeneratesAndCleans(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	blobs := newMemBlobStore()
	contentCache := cache.NewContentCache(blobs, nil)
	registry := themes.NewRegistry(blobs, nil)

	_, err := registry.Add(ctx, domain.Theme{
		ID: "world_history", Name: "World History", PromptTemplate: "t", Active: true,
	})
	require.NoError(t, err)

	gen := staticGenerator(`===THEME:world_history===
Title: Fresh content
Date: 1900
Description: d
Importance: i
Question: q
Answer: a`)
	contentService := service.NewContentService(
		contentCache, registry, continuation.NewEngine(nil), gen, time.Minute, nil)
	quizService := service.NewQuizService(blobs, srs.NewDefaultService(), nil)

	// An epoch three days back makes "today" day index 4.
	epoch := time.Now().UTC().AddDate(0, 0, -3)
	todayIndex := domain.CurrentDayIndex(epoch, time.Now().UTC())

	// Seed an entry far behind the retention window.
	old := domain.DayEntry{"world_history": {
		Title: "Old", Date: "d", Description: "d", Importance: "i",
		Question: "q", Answer: "a", Source: domain.SourceGenerated,
	}}
	require.NoError(t, contentCache.Write(ctx, 1, old))
	require.NoError(t, contentCache.Write(ctx, todayIndex, domain.DayEntry{}))

	// Seed the quiz pool with one long-overdue question and one still
	// waiting for its scheduled review.
	now := time.Now().UTC()
	staleID := uuid.New()
	seedQuizPool(t, blobs,
		domain.QuizQuestion{
			ID: staleID, Question: "Stale?", Answer: "Yes", Category: "world_history",
			CreatedAt: now.AddDate(0, 0, -10), EbbinghausLevel: 1,
			NextReviewDate: now.AddDate(0, 0, -9),
		},
		domain.QuizQuestion{
			ID: uuid.New(), Question: "Scheduled?", Answer: "Yes", Category: "world_history",
			CreatedAt: now.AddDate(0, 0, -10), EbbinghausLevel: 3,
			NextReviewDate: now.AddDate(0, 0, 5),
		})

	s := NewScheduler(contentService, quizService, contentCache, SchedulerConfig{
		Interval:      time.Hour,
		RetentionDays: 2,
		Epoch:         epoch,
	}, nil)

	s.pass()

	// Today's entry was generated.
	entry := contentCache.Entry(ctx, todayIndex)
	assert.Equal(t, "Fresh content", entry["world_history"].Title)

	// The entry outside the retention window is gone.
	assert.Empty(t, contentCache.Entry(ctx, 1))

	// The overdue question was pruned with it; the scheduled one survives.
	remaining, err := quizService.DueQuestions(ctx, now.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Scheduled?", remaining[0].Question)
}

// seedQuizPool writes a quiz document directly, bypassing AddQuestion so
// tests can control creation timestamps.
func seedQuizPool(t *testing.T, blobs store.BlobStore, questions ...domain.QuizQuestion) {
	t.Helper()

	doc := struct {
		Questions []domain.QuizQuestion `json:"questions"`
		Version   string                `json:"version"`
	}{Questions: questions, Version: "1.0"}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, blobs.Write(context.Background(), store.QuizDocument, data))
}

func TestSchedulerStartStop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	blobs := newMemBlobStore()
	contentCache := cache.NewContentCache(blobs, nil)
	registry := themes.NewRegistry(blobs, nil)

	_, err := registry.Add(ctx, domain.Theme{
		ID: "cinema", Name: "Cinema", PromptTemplate: "t", Active: true,
	})
	require.NoError(t, err)

	gen := staticGenerator(`===THEME:cinema===
Title: Opening night
Date: 1900
Description: d
Importance: i
Question: q
Answer: a`)
	contentService := service.NewContentService(
		contentCache, registry, continuation.NewEngine(nil), gen, time.Minute, nil)
	quizService := service.NewQuizService(blobs, srs.NewDefaultService(), nil)

	s := NewScheduler(contentService, quizService, contentCache, DefaultSchedulerConfig(), nil)
	s.Start()
	s.Stop()

	// The immediate startup pass ran before Stop returned.
	todayIndex := domain.CurrentDayIndex(domain.DefaultEpoch, time.Now().UTC())
	assert.NotEmpty(t, contentCache.Entry(ctx, todayIndex))
}
