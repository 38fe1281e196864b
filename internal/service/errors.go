package service

import "errors"

// Common service errors
var (
	// ErrNoActiveThemes is returned when a content request finds no
	// active themes to generate for.
	ErrNoActiveThemes = errors.New("no active themes found")

	// ErrNothingParsed is returned when a generation response yields no
	// acceptable card for any requested theme. The whole attempt is
	// discarded; nothing is written to the cache.
	ErrNothingParsed = errors.New("generation response contained no usable theme section")
)
