// Package srs implements the spaced-repetition scheduling rules: the
// fixed index-offset review buckets and the leveled per-question state
// machine. All calculations are pure; persistence lives elsewhere.
package srs

import "github.com/tbonnaire/mnemo-api/internal/domain"

// Params defines all configurable parameters for the scheduler.
type Params struct {
	// ReviewOffsets are the day-index offsets used to pick past days
	// for resurfacing (Ebbinghaus intervals).
	ReviewOffsets []int

	// LevelIntervalDays maps a question level (1-based) to the number
	// of days until its next review. Levels beyond the table clamp to
	// the last entry.
	LevelIntervalDays []int

	// MinLevel and MaxLevel bound the leveled state machine.
	MinLevel int
	MaxLevel int
}

// NewDefaultParams creates a Params instance with the standard
// forgetting-curve values.
func NewDefaultParams() *Params {
	return &Params{
		ReviewOffsets:     []int{1, 7, 30, 180, 365},
		LevelIntervalDays: []int{1, 3, 7, 15, 30, 90},
		MinLevel:          domain.MinEbbinghausLevel,
		MaxLevel:          domain.MaxEbbinghausLevel,
	}
}

// classifyThresholds maps minimum days-since-learned to a review bucket,
// evaluated in descending order with inclusive lower bounds.
var classifyThresholds = []struct {
	minDays int
	bucket  domain.ReviewType
}{
	{365, domain.ReviewTypeYearly},
	{180, domain.ReviewTypeHalfYearly},
	{30, domain.ReviewTypeMonthly},
	{7, domain.ReviewTypeWeekly},
}
