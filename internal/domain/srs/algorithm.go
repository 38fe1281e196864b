package srs

import (
	"time"

	"github.com/tbonnaire/mnemo-api/internal/domain"
)

// reviewIndexes returns the past day indices to resurface for the given
// current index. For each configured offset the candidate index is
// currentIndex - offset, kept only if it is at least 1. The configured
// offsets are distinct so no de-duplication is performed; callers
// supplying a custom offset list must de-duplicate collisions themselves.
func reviewIndexes(currentIndex int, offsets []int) []int {
	indexes := make([]int, 0, len(offsets))
	for _, offset := range offsets {
		candidate := currentIndex - offset
		if candidate >= 1 {
			indexes = append(indexes, candidate)
		}
	}
	return indexes
}

// classify buckets a review by how many days ago the content was
// learned. Thresholds are checked in descending order and are inclusive
// on the lower bound of each bucket, so day 7 is already weekly and day
// 365 is already yearly. Anything below 7 days is a daily review.
func classify(daysSinceLearned int) domain.ReviewType {
	for _, t := range classifyThresholds {
		if daysSinceLearned >= t.minDays {
			return t.bucket
		}
	}
	return domain.ReviewTypeDaily
}

// nextLevel advances or demotes a question level based on the answer,
// clamped to [params.MinLevel, params.MaxLevel]. There is no terminal
// state: a level-6 question answered correctly stays at 6.
func nextLevel(level int, correct bool, params *Params) int {
	if correct {
		if level+1 > params.MaxLevel {
			return params.MaxLevel
		}
		return level + 1
	}
	if level-1 < params.MinLevel {
		return params.MinLevel
	}
	return level - 1
}

// intervalForLevel returns the review interval in days for a level,
// clamping levels beyond the table to its last entry.
func intervalForLevel(level int, params *Params) int {
	idx := level - 1
	if idx >= len(params.LevelIntervalDays) {
		idx = len(params.LevelIntervalDays) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return params.LevelIntervalDays[idx]
}

// calculateNextQuestion creates a new QuizQuestion reflecting one answer
// submission. It follows the immutable update pattern: the input is
// copied, never modified.
func calculateNextQuestion(
	question *domain.QuizQuestion,
	correct bool,
	now time.Time,
	params *Params,
) *domain.QuizQuestion {
	next := *question

	next.LastReviewed = now
	next.ReviewCount++
	if correct {
		next.CorrectCount++
	}

	next.EbbinghausLevel = nextLevel(question.EbbinghausLevel, correct, params)
	next.NextReviewDate = now.AddDate(0, 0, intervalForLevel(next.EbbinghausLevel, params))

	return &next
}
