package domain

import "time"

// DefaultEpoch is the fixed reference date for day index 1.
// December 8th 2025 is day 1 of the learning program.
var DefaultEpoch = time.Date(2025, time.December, 8, 0, 0, 0, 0, time.UTC)

// CurrentDayIndex maps wall-clock time to the monotonically increasing
// day index relative to the given epoch. The reference date itself is
// index 1 and the result never drops below 1, so a clock set before the
// epoch still yields a valid index.
//
// This is one of two sources of truth for "today": the content cache
// independently persists a current-index watermark that only ever rises.
// Review and content endpoints use the watermark; this function backs
// the current-index endpoint.
func CurrentDayIndex(epoch, now time.Time) int {
	// Both bounds are truncated to midnight so the epoch's time of day
	// can never shift the boundary between two indexes.
	epochMidnight := time.Date(epoch.Year(), epoch.Month(), epoch.Day(), 0, 0, 0, 0, epoch.Location())
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(midnight.Sub(epochMidnight).Hours() / 24)

	index := days + 1
	if index < 1 {
		return 1
	}
	return index
}
