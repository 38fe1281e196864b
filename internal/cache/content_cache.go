// Package cache implements the day-indexed content cache: lookup,
// partial-completeness detection, merge-on-write reconciliation, and the
// chronological history aggregation the continuation engine feeds on.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/tbonnaire/mnemo-api/internal/domain"
	"github.com/tbonnaire/mnemo-api/internal/store"
)

// documentVersion is written on every save of the cache document.
const documentVersion = "2.0"

// document is the persisted shape of the content cache. Day indices are
// string keys because the document is a JSON object.
type document struct {
	Cache        map[string]domain.DayEntry `json:"cache"`
	CurrentIndex int                        `json:"current_index"`
	LastUpdated  string                     `json:"last_updated"`
	Version      string                     `json:"version"`
}

// ContentCache owns all DayEntry/FactCard storage. Every mutation is a
// read-entire-document, modify, write-entire-document cycle; the mutex
// serializes those cycles so there is always at most one in-flight
// write (single-writer model).
type ContentCache struct {
	blobs  store.BlobStore
	logger *slog.Logger

	mu sync.Mutex
}

// NewContentCache creates a ContentCache over the given blob store.
// If logger is nil, a default logger will be used.
func NewContentCache(blobs store.BlobStore, logger *slog.Logger) *ContentCache {
	if blobs == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("blob store cannot be nil for ContentCache")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ContentCache{
		blobs:  blobs,
		logger: logger.With(slog.String("component", "content_cache")),
	}
}

// load reads the cache document, degrading to an empty default when the
// document is missing or unreadable. Read paths never fail hard.
func (c *ContentCache) load(ctx context.Context) document {
	empty := document{
		Cache:        make(map[string]domain.DayEntry),
		CurrentIndex: 1,
		Version:      documentVersion,
	}

	data, err := c.blobs.Read(ctx, store.ContentCacheDocument)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.logger.Warn("failed to read content cache, using empty document",
				slog.String("error", err.Error()))
		}
		return empty
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		c.logger.Warn("failed to decode content cache, using empty document",
			slog.String("error", err.Error()))
		return empty
	}

	if doc.Cache == nil {
		doc.Cache = make(map[string]domain.DayEntry)
	}
	if doc.CurrentIndex < 1 {
		doc.CurrentIndex = 1
	}

	return doc
}

// save persists the whole document, refreshing version and timestamp.
func (c *ContentCache) save(ctx context.Context, doc document) error {
	doc.Version = documentVersion
	doc.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return store.NewStoreError(store.ContentCacheDocument, "write", "failed to encode cache document", err)
	}

	if err := c.blobs.Write(ctx, store.ContentCacheDocument, data); err != nil {
		return err
	}

	c.logger.Debug("content cache saved",
		slog.Int("entries", len(doc.Cache)),
		slog.Int("current_index", doc.CurrentIndex))
	return nil
}

// Entry returns the stored DayEntry for the given day index, or an empty
// entry when nothing is stored.
func (c *ContentCache) Entry(ctx context.Context, dayIndex int) domain.DayEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.load(ctx)
	entry, ok := doc.Cache[strconv.Itoa(dayIndex)]
	if !ok {
		return domain.DayEntry{}
	}
	return entry
}

// MissingOrIncomplete returns, for the given day index, every active
// theme that is absent from the stored entry plus every present theme
// whose card has any required field blank after trimming.
func (c *ContentCache) MissingOrIncomplete(
	ctx context.Context,
	dayIndex int,
	activeThemes []domain.Theme,
) []domain.Theme {
	entry := c.Entry(ctx, dayIndex)
	return MissingOrIncompleteThemes(entry, activeThemes)
}

// MissingOrIncompleteThemes is the pure core of MissingOrIncomplete,
// usable against an entry the caller already holds.
func MissingOrIncompleteThemes(entry domain.DayEntry, activeThemes []domain.Theme) []domain.Theme {
	var missing []domain.Theme
	for _, theme := range activeThemes {
		card, ok := entry[theme.ID]
		if !ok || !card.IsComplete() {
			missing = append(missing, theme)
		}
	}
	return missing
}

// Write shallow-merges partial into the existing DayEntry for the day
// index: new theme keys are added, existing theme keys are overwritten
// wholesale and already-complete themes not named in partial are kept.
// The whole document is persisted and the current-index watermark is
// raised to max(existing, dayIndex). The watermark never decreases.
func (c *ContentCache) Write(ctx context.Context, dayIndex int, partial domain.DayEntry) error {
	if dayIndex < 1 {
		return domain.ErrInvalidDayIndex
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.load(ctx)
	key := strconv.Itoa(dayIndex)

	doc.Cache[key] = doc.Cache[key].Merge(partial)
	if dayIndex > doc.CurrentIndex {
		doc.CurrentIndex = dayIndex
	}

	return c.save(ctx, doc)
}

// History scans all stored entries in ascending day-index order and
// aggregates the global set of titles ever produced plus each theme's
// chronologically ordered title/date refs. A positive uptoDayIndex
// limits the scan to entries at or below that index; zero means all.
func (c *ContentCache) History(ctx context.Context, uptoDayIndex int) domain.History {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.load(ctx)
	return buildHistory(doc.Cache, uptoDayIndex)
}

func buildHistory(entries map[string]domain.DayEntry, uptoDayIndex int) domain.History {
	history := domain.History{
		ByTheme: make(map[string][]domain.HistoryRef),
	}

	indexes := make([]int, 0, len(entries))
	for key := range entries {
		index, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if uptoDayIndex > 0 && index > uptoDayIndex {
			continue
		}
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	for _, index := range indexes {
		entry := entries[strconv.Itoa(index)]

		themeIDs := make([]string, 0, len(entry))
		for themeID := range entry {
			themeIDs = append(themeIDs, themeID)
		}
		sort.Strings(themeIDs)

		for _, themeID := range themeIDs {
			card := entry[themeID]
			if card.Title == "" {
				continue
			}

			history.Titles = append(history.Titles, card.Title)
			history.ByTheme[themeID] = append(history.ByTheme[themeID], domain.HistoryRef{
				DayIndex: index,
				Title:    card.Title,
				Date:     card.Date,
			})
		}
	}

	return history
}

// ClearTheme removes one theme's card from one day entry, removing the
// whole day entry if it becomes empty. Returns the number of themes
// remaining for that day. Returns store.ErrDayEntryNotFound or
// store.ErrThemeNotFound when there is nothing to remove.
func (c *ContentCache) ClearTheme(ctx context.Context, dayIndex int, themeID string) (int, error) {
	if dayIndex < 1 {
		return 0, domain.ErrInvalidDayIndex
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.load(ctx)
	key := strconv.Itoa(dayIndex)

	entry, ok := doc.Cache[key]
	if !ok {
		return 0, store.ErrDayEntryNotFound
	}

	if _, ok := entry[themeID]; !ok {
		return 0, store.ErrThemeNotFound
	}

	delete(entry, themeID)
	remaining := len(entry)
	if remaining == 0 {
		delete(doc.Cache, key)
	} else {
		doc.Cache[key] = entry
	}

	if err := c.save(ctx, doc); err != nil {
		return 0, err
	}

	c.logger.Info("theme cleared from day entry",
		slog.Int("day_index", dayIndex),
		slog.String("theme_id", themeID),
		slog.Int("remaining_themes", remaining))
	return remaining, nil
}

// CurrentIndex returns the persisted watermark. It reflects the highest
// day index ever written, never the wall clock.
func (c *ContentCache) CurrentIndex(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.load(ctx).CurrentIndex
}

// TotalDays returns the number of stored day entries.
func (c *ContentCache) TotalDays(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.load(ctx).Cache)
}

// CleanupBefore removes every day entry with an index strictly below
// minIndex and returns how many were removed. The watermark is left
// untouched: indices are monotonic upward only.
func (c *ContentCache) CleanupBefore(ctx context.Context, minIndex int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.load(ctx)

	removed := 0
	for key := range doc.Cache {
		index, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if index < minIndex {
			delete(doc.Cache, key)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}

	if err := c.save(ctx, doc); err != nil {
		return 0, err
	}

	c.logger.Info("old day entries removed",
		slog.Int("removed", removed),
		slog.Int("min_index", minIndex))
	return removed, nil
}
