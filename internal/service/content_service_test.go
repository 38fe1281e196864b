package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbonnaire/mnemo-api/internal/cache"
	"github.com/tbonnaire/mnemo-api/internal/continuation"
	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/generation"
	"github.com/tbonnaire/mnemo-api/internal/store"
	"github.com/tbonnaire/mnemo-api/internal/themes"
)

// memBlobStore is an in-memory store.BlobStore for tests.
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

// countingGenerator wraps a canned response and records call counts.
type countingGenerator struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
}

func (g *countingGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *countingGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func sectionFor(themeID, title string) string {
	return fmt.Sprintf(`===THEME:%s===
Title: %s
Date: 1900
Description: A description.
Importance: It matters.
Question: What?
Answer: That.

`, themeID, title)
}

func completeCard(title string) domain.FactCard {
	return domain.FactCard{
		Title:       title,
		Date:        "1900",
		Description: "A description.",
		Importance:  "It matters.",
		Question:    "What?",
		Answer:      "That.",
		Source:      domain.SourceGenerated,
	}
}

type contentFixture struct {
	blobs     *memBlobStore
	cache     *cache.ContentCache
	registry  *themes.Registry
	generator *countingGenerator
	service   *ContentService
}

func newContentFixture(t *testing.T, generator *countingGenerator, themeIDs ...string) *contentFixture {
	t.Helper()

	ctx := context.Background()
	blobs := newMemBlobStore()
	contentCache := cache.NewContentCache(blobs, nil)
	registry := themes.NewRegistry(blobs, nil)

	for _, id := range themeIDs {
		_, err := registry.Add(ctx, domain.Theme{
			ID:             id,
			Name:           "Theme " + id,
			PromptTemplate: "template",
			Active:         true,
		})
		require.NoError(t, err)
	}

	svc := NewContentService(contentCache, registry, continuation.NewEngine(nil), generator, time.Minute, nil)

	return &contentFixture{
		blobs:     blobs,
		cache:     contentCache,
		registry:  registry,
		generator: generator,
		service:   svc,
	}
}

func TestGetDailyContentEmptyCacheGeneratesEverything(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gen := &countingGenerator{response: sectionFor("world_history", "Moon landing") + sectionFor("cinema", "First talkie")}
	f := newContentFixture(t, gen, "world_history", "cinema")

	content, err := f.service.GetDailyContent(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, SourceGenerated, content.Source)
	assert.Len(t, content.Content, 2)
	assert.Equal(t, 1, gen.callCount(), "all missing themes share one batched call")

	// The entry was persisted.
	stored := f.cache.Entry(ctx, 1)
	assert.Equal(t, "Moon landing", stored["world_history"].Title)
	assert.Equal(t, 1, f.cache.CurrentIndex(ctx))
}

func TestGetDailyContentPartialFillPreservesExistingCard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gen := &countingGenerator{response: sectionFor("cinema", "First talkie")}
	f := newContentFixture(t, gen, "world_history", "cinema")

	require.NoError(t, f.cache.Write(ctx, 4, domain.DayEntry{
		"world_history": completeCard("Fall of Rome"),
	}))

	content, err := f.service.GetDailyContent(ctx, 4)
	require.NoError(t, err)

	assert.Equal(t, SourcePartialUpdate, content.Source)
	assert.Equal(t, "Fall of Rome", content.Content["world_history"].Title, "existing card survives the fill")
	assert.Equal(t, "First talkie", content.Content["cinema"].Title)

	stored := f.cache.Entry(ctx, 4)
	assert.Len(t, stored, 2)
	assert.Equal(t, "Fall of Rome", stored["world_history"].Title)
}

func TestGetDailyContentCompleteEntrySkipsGeneration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gen := &countingGenerator{response: "should never be used"}
	f := newContentFixture(t, gen, "world_history")

	require.NoError(t, f.cache.Write(ctx, 2, domain.DayEntry{
		"world_history": completeCard("Complete already"),
	}))

	for i := 0; i < 3; i++ {
		content, err := f.service.GetDailyContent(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, SourceCache, content.Source)
		assert.Equal(t, "Complete already", content.Content["world_history"].Title)
	}

	assert.Equal(t, 0, gen.callCount())
}

func TestGetDailyContentUpstreamFailureWritesNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gen := &countingGenerator{err: generation.ErrTransientFailure}
	f := newContentFixture(t, gen, "world_history")

	_, err := f.service.GetDailyContent(ctx, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrTransientFailure)

	assert.Empty(t, f.cache.Entry(ctx, 3), "failed attempt leaves no partial write")
	assert.Equal(t, 1, f.cache.CurrentIndex(ctx), "watermark does not move on failure")
}

func TestGetDailyContentUnparseableResponseWritesNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gen := &countingGenerator{response: "the model ignored the format entirely"}
	f := newContentFixture(t, gen, "world_history")

	_, err := f.service.GetDailyContent(ctx, 3)
	assert.ErrorIs(t, err, ErrNothingParsed)
	assert.Empty(t, f.cache.Entry(ctx, 3))
}

func TestGetDailyContentPartialResponseKeepsWhatParsed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	// Two themes requested, the response only covers one.
	gen := &countingGenerator{response: sectionFor("cinema", "First talkie")}
	f := newContentFixture(t, gen, "world_history", "cinema")

	content, err := f.service.GetDailyContent(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, "First talkie", content.Content["cinema"].Title)
	_, hasHistory := content.Content["world_history"]
	assert.False(t, hasHistory, "uncovered theme stays missing for a later retry")
}

func TestGetDailyContentValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	f := newContentFixture(t, &countingGenerator{}, "world_history")
	_, err := f.service.GetDailyContent(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidDayIndex)

	// No active themes at all.
	empty := newContentFixture(t, &countingGenerator{})
	_, err = empty.service.GetDailyContent(ctx, 1)
	assert.ErrorIs(t, err, ErrNoActiveThemes)
}

func TestGetDailyContentSessionCacheInvalidatedByClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gen := &countingGenerator{response: sectionFor("world_history", "Regenerated")}
	f := newContentFixture(t, gen, "world_history")

	require.NoError(t, f.cache.Write(ctx, 6, domain.DayEntry{
		"world_history": completeCard("Original"),
	}))

	content, err := f.service.GetDailyContent(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, content.Source)

	_, err = f.service.ClearTheme(ctx, 6, "world_history")
	require.NoError(t, err)

	content, err = f.service.GetDailyContent(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, content.Source)
	assert.Equal(t, "Regenerated", content.Content["world_history"].Title)
}

func TestFallbackContentIsDeterministicAndMarked(t *testing.T) {
	t.Parallel()

	f := newContentFixture(t, &countingGenerator{}, "world_history")

	first := f.service.FallbackContent()
	second := f.service.FallbackContent()
	assert.Equal(t, first, second)

	for _, card := range first {
		assert.Equal(t, domain.SourceFallback, card.Source)
	}
}

func TestGenerateSingleFact(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("parses a labeled response", func(t *testing.T) {
		t.Parallel()

		gen := &countingGenerator{response: "Title: Printing press\nDate: 1440\nDescription: d\nImportance: i"}
		f := newContentFixture(t, gen, "world_history")

		card := f.service.GenerateSingleFact(ctx, "one fact please")
		assert.Equal(t, "Printing press", card.Title)
		assert.Equal(t, domain.SourceGenerated, card.Source)
	})

	t.Run("falls back on generator failure", func(t *testing.T) {
		t.Parallel()

		gen := &countingGenerator{err: errors.New("provider down")}
		f := newContentFixture(t, gen, "world_history")

		card := f.service.GenerateSingleFact(ctx, "one fact please")
		assert.Equal(t, domain.SourceFallback, card.Source)
		assert.NotEmpty(t, card.Title)
	})
}
