package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/tbonnaire/mnemo-api/internal/cache"
	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/domain/srs"
)

// ReviewContent is the result of a review request: the quizzable items
// resurfaced from past day entries at the standard review offsets.
type ReviewContent struct {
	CurrentIndex  int                 `json:"current_index"`
	ReviewIndexes []int               `json:"review_indexes"`
	Items         []domain.ReviewItem `json:"items"`
}

// ReviewService derives review sets from cached content. Items are
// computed on demand and never stored; a cleared or rewritten day entry
// is reflected by the next review request.
type ReviewService struct {
	contentCache *cache.ContentCache
	scheduler    srs.Service
	logger       *slog.Logger
}

// NewReviewService creates a ReviewService.
// If logger is nil, a default logger will be used.
func NewReviewService(contentCache *cache.ContentCache, scheduler srs.Service, logger *slog.Logger) *ReviewService {
	if contentCache == nil || scheduler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("content cache and scheduler are required for ReviewService")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewService{
		contentCache: contentCache,
		scheduler:    scheduler,
		logger:       logger.With(slog.String("component", "review_service")),
	}
}

// GetReviewContent resurfaces the quizzable cards stored at the review
// indexes derived from currentIndex. When reviewIndexes is non-empty it
// overrides the derived set; indexes below 1 are ignored. Days with no
// stored entry contribute nothing, and only cards carrying both a
// question and an answer become items.
func (s *ReviewService) GetReviewContent(ctx context.Context, currentIndex int, reviewIndexes []int) (*ReviewContent, error) {
	if currentIndex < 1 {
		return nil, domain.ErrInvalidDayIndex
	}

	indexes := reviewIndexes
	if len(indexes) == 0 {
		indexes = s.scheduler.ReviewIndexes(currentIndex)
	} else {
		filtered := make([]int, 0, len(indexes))
		for _, index := range indexes {
			if index >= 1 {
				filtered = append(filtered, index)
			}
		}
		indexes = filtered
	}

	items := make([]domain.ReviewItem, 0)
	for _, reviewIndex := range indexes {
		entry := s.contentCache.Entry(ctx, reviewIndex)
		daysSince := currentIndex - reviewIndex
		reviewType := s.scheduler.Classify(daysSince)

		for _, themeID := range sortedThemeIDs(entry) {
			card := entry[themeID]
			if !card.HasQuiz() {
				continue
			}

			items = append(items, domain.ReviewItem{
				Question:         card.Question,
				Answer:           card.Answer,
				Category:         themeID,
				OriginalIndex:    reviewIndex,
				ReviewIndex:      currentIndex,
				Type:             reviewType,
				DaysSinceLearned: daysSince,
			})
		}
	}

	s.logger.Debug("review set built",
		slog.Int("current_index", currentIndex),
		slog.Any("review_indexes", indexes),
		slog.Int("items", len(items)))

	return &ReviewContent{
		CurrentIndex:  currentIndex,
		ReviewIndexes: indexes,
		Items:         items,
	}, nil
}

// sortedThemeIDs gives review items a stable order within a day entry.
func sortedThemeIDs(entry domain.DayEntry) []string {
	ids := make([]string, 0, len(entry))
	for id := range entry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
