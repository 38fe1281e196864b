// Package service orchestrates the content, review, and quiz flows on
// top of the cache, registry, scheduler, and generator boundaries.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tbonnaire/mnemo-api/internal/cache"
	"github.com/tbonnaire/mnemo-api/internal/continuation"
	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/generation"
	"github.com/tbonnaire/mnemo-api/internal/themes"
)

// Content sources reported to callers.
const (
	// SourceCache means the complete entry was served without generation.
	SourceCache = "cache"

	// SourcePartialUpdate means an existing entry had missing or
	// incomplete themes filled in by one batched generation call.
	SourcePartialUpdate = "partial_update"

	// SourceGenerated means the whole entry was newly generated.
	SourceGenerated = "generated"
)

// recentEntryLimit bounds the session-scoped complete-entry cache.
const recentEntryLimit = 8

// DailyContent is the result of a content request.
type DailyContent struct {
	DayIndex int             `json:"day_index"`
	Content  domain.DayEntry `json:"content"`
	Source   string          `json:"source"`
}

// ContentService drives the cache-first content flow: serve complete
// entries as-is, route missing or incomplete themes through one batched
// generation call, and merge the results back without ever discarding
// already-complete themes.
type ContentService struct {
	contentCache *cache.ContentCache
	registry     *themes.Registry
	engine       *continuation.Engine
	generator    generation.Generator
	logger       *slog.Logger

	// generationTimeout bounds one batched generation call; the
	// generator is the only suspending dependency.
	generationTimeout time.Duration

	// recentEntries is the bounded session cache of complete entries,
	// keyed by day index and invalidated on any write to that index.
	mu            sync.Mutex
	recentEntries map[int]domain.DayEntry
	recentOrder   []int
}

// NewContentService creates a ContentService.
// If logger is nil, a default logger will be used.
func NewContentService(
	contentCache *cache.ContentCache,
	registry *themes.Registry,
	engine *continuation.Engine,
	generator generation.Generator,
	generationTimeout time.Duration,
	logger *slog.Logger,
) *ContentService {
	if contentCache == nil || registry == nil || engine == nil || generator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("content cache, registry, engine, and generator are required for ContentService")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if generationTimeout <= 0 {
		generationTimeout = 60 * time.Second
	}

	return &ContentService{
		contentCache:      contentCache,
		registry:          registry,
		engine:            engine,
		generator:         generator,
		generationTimeout: generationTimeout,
		logger:            logger.With(slog.String("component", "content_service")),
		recentEntries:     make(map[int]domain.DayEntry),
	}
}

// GetDailyContent returns the DayEntry for the given day index,
// generating whatever is missing. Reads are idempotent when the entry is
// already complete: no generation call is made and the same result is
// returned. Otherwise exactly one batched generation call covers all
// missing or incomplete themes, and on any upstream failure the whole
// attempt is discarded with no partial cache write.
func (s *ContentService) GetDailyContent(ctx context.Context, dayIndex int) (*DailyContent, error) {
	if dayIndex < 1 {
		return nil, domain.ErrInvalidDayIndex
	}

	activeThemes := s.registry.Active(ctx)
	if len(activeThemes) == 0 {
		return nil, ErrNoActiveThemes
	}

	// Session cache: a complete entry already served this session needs
	// no store read and no generation.
	if entry, ok := s.recentComplete(dayIndex, activeThemes); ok {
		return &DailyContent{DayIndex: dayIndex, Content: entry, Source: SourceCache}, nil
	}

	entry := s.contentCache.Entry(ctx, dayIndex)
	missing := cache.MissingOrIncompleteThemes(entry, activeThemes)

	if len(missing) == 0 {
		s.logger.Debug("complete entry served from cache", slog.Int("day_index", dayIndex))
		s.remember(dayIndex, entry)
		return &DailyContent{DayIndex: dayIndex, Content: entry, Source: SourceCache}, nil
	}

	missingIDs := make([]string, len(missing))
	for i, theme := range missing {
		missingIDs[i] = theme.ID
	}
	s.logger.Info("generating content for missing themes",
		slog.Int("day_index", dayIndex),
		slog.Any("themes", missingIDs))

	generated, err := s.generateMissing(ctx, dayIndex, missing)
	if err != nil {
		return nil, err
	}

	if err := s.contentCache.Write(ctx, dayIndex, generated); err != nil {
		return nil, err
	}
	s.invalidate(dayIndex)

	merged := entry.Merge(generated)

	source := SourcePartialUpdate
	if len(entry) == 0 {
		source = SourceGenerated
	}

	if len(cache.MissingOrIncompleteThemes(merged, activeThemes)) == 0 {
		s.remember(dayIndex, merged)
	}

	return &DailyContent{DayIndex: dayIndex, Content: merged, Source: source}, nil
}

// generateMissing makes the single batched generation call for the
// given themes and parses the result. The history aggregation feeds both
// the continuation instructions and the global do-not-repeat list.
func (s *ContentService) generateMissing(
	ctx context.Context,
	dayIndex int,
	missing []domain.Theme,
) (domain.DayEntry, error) {
	history := s.contentCache.History(ctx, 0)
	prompt := s.engine.BuildPrompt(dayIndex, missing, history)

	genCtx, cancel := context.WithTimeout(ctx, s.generationTimeout)
	defer cancel()

	raw, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("batched generation for day %d failed: %w", dayIndex, err)
	}

	parsed := s.engine.ParseResponse(raw, missing)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("%w: day %d", ErrNothingParsed, dayIndex)
	}

	if len(parsed) < len(missing) {
		s.logger.Warn("generation response missing theme sections, will retry on next read",
			slog.Int("day_index", dayIndex),
			slog.Int("requested", len(missing)),
			slog.Int("parsed", len(parsed)))
	}

	return parsed, nil
}

// FallbackContent returns the deterministic placeholder entry attached
// to failed content responses so the caller always gets a usable card.
func (s *ContentService) FallbackContent() domain.DayEntry {
	return domain.DayEntry{
		"world_history": domain.FactCard{
			Title:       "Content is being prepared",
			Date:        "Unknown date",
			Description: "The content for this day is still being generated.",
			Importance:  "Please retry shortly.",
			Question:    "Still loading?",
			Answer:      "Patience...",
			Source:      domain.SourceFallback,
		},
	}
}

// recentComplete returns the session-cached entry for the index if it is
// still complete for the given themes.
func (s *ContentService) recentComplete(dayIndex int, activeThemes []domain.Theme) (domain.DayEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.recentEntries[dayIndex]
	if !ok {
		return nil, false
	}
	if len(cache.MissingOrIncompleteThemes(entry, activeThemes)) > 0 {
		return nil, false
	}
	return entry, true
}

// remember stores a complete entry in the session cache, evicting the
// oldest index once the bound is reached.
func (s *ContentService) remember(dayIndex int, entry domain.DayEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recentEntries[dayIndex]; !ok {
		s.recentOrder = append(s.recentOrder, dayIndex)
		if len(s.recentOrder) > recentEntryLimit {
			evict := s.recentOrder[0]
			s.recentOrder = s.recentOrder[1:]
			delete(s.recentEntries, evict)
		}
	}
	s.recentEntries[dayIndex] = entry
}

// invalidate drops the session-cached entry for an index after any write
// or clear touching it.
func (s *ContentService) invalidate(dayIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recentEntries[dayIndex]; !ok {
		return
	}
	delete(s.recentEntries, dayIndex)
	for i, idx := range s.recentOrder {
		if idx == dayIndex {
			s.recentOrder = append(s.recentOrder[:i], s.recentOrder[i+1:]...)
			break
		}
	}
}

// ClearTheme removes one theme from one day entry, keeping the session
// cache coherent.
func (s *ContentService) ClearTheme(ctx context.Context, dayIndex int, themeID string) (int, error) {
	remaining, err := s.contentCache.ClearTheme(ctx, dayIndex, themeID)
	if err != nil {
		return 0, err
	}
	s.invalidate(dayIndex)
	return remaining, nil
}

// GenerateSingleFact generates one fact card from a free-form prompt.
// Unlike the batched daily flow it degrades to a deterministic fallback
// card on any upstream failure, so the caller always gets usable
// content. Nothing is written to the cache.
func (s *ContentService) GenerateSingleFact(ctx context.Context, prompt string) domain.FactCard {
	genCtx, cancel := context.WithTimeout(ctx, s.generationTimeout)
	defer cancel()

	raw, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		s.logger.Warn("single fact generation failed, serving fallback",
			slog.String("error", err.Error()))
		return s.fallbackFact()
	}

	card := continuation.ParseFact(raw)
	if card.Title == "" {
		s.logger.Warn("single fact response unparseable, serving fallback")
		return s.fallbackFact()
	}

	card.Source = domain.SourceGenerated
	return card
}

func (s *ContentService) fallbackFact() domain.FactCard {
	return domain.FactCard{
		Title:       "Historical information",
		Date:        time.Now().UTC().Format("2006-01-02"),
		Description: "Fallback content generated because the provider was unavailable.",
		Importance:  "Placeholder until generation succeeds.",
		Source:      domain.SourceFallback,
	}
}
