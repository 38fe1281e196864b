// Package continuation builds the batched generation prompt that tells
// the model where each theme should continue, and parses the model's
// sectioned response back into fact cards. It is the only place that
// knows the response grammar.
package continuation

import (
	"fmt"
	"strings"

	"github.com/tbonnaire/mnemo-api/internal/domain"
)

// Strategy produces the progression instructions for one theme: where
// to start when the theme has no history, and how to continue strictly
// after the most recent entry. Themes encode their own progression axis
// (time, alphabet) through their strategy.
type Strategy interface {
	// StartInstruction is emitted when the theme has no prior content.
	StartInstruction() string

	// ContinuationInstruction is emitted with the theme's most recent
	// history ref and must direct monotonic progression strictly after
	// that point.
	ContinuationInstruction(last domain.HistoryRef) string
}

// staticStrategy implements Strategy from plain values.
type staticStrategy struct {
	start          string
	next           func(last domain.HistoryRef) string
	questionFormat string
}

func (s staticStrategy) StartInstruction() string {
	if s.questionFormat != "" {
		return s.start + "\n" + s.questionFormat
	}
	return s.start
}

func (s staticStrategy) ContinuationInstruction(last domain.HistoryRef) string {
	instruction := s.next(last)
	if s.questionFormat != "" {
		return instruction + "\n" + s.questionFormat
	}
	return instruction
}

// genericStrategy is the fallback for themes without a registered
// strategy: continue after the last recorded title.
type genericStrategy struct{}

func (genericStrategy) StartInstruction() string {
	return "Start from the chronological beginning of this theme"
}

func (genericStrategy) ContinuationInstruction(last domain.HistoryRef) string {
	return fmt.Sprintf("Continue chronologically after: %q (%s)", last.Title, last.Date)
}

// StrategyRegistry maps theme IDs to their progression strategy, with a
// generic fallback for unregistered themes.
type StrategyRegistry struct {
	strategies map[string]Strategy
	fallback   Strategy
}

// NewStrategyRegistry creates an empty registry with the generic fallback.
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		strategies: make(map[string]Strategy),
		fallback:   genericStrategy{},
	}
}

// Register binds a strategy to a theme ID, replacing any existing one.
func (r *StrategyRegistry) Register(themeID string, strategy Strategy) {
	r.strategies[themeID] = strategy
}

// ForTheme returns the strategy for a theme, falling back to the
// generic continue-after-last-title strategy.
func (r *StrategyRegistry) ForTheme(themeID string) Strategy {
	if s, ok := r.strategies[themeID]; ok {
		return s
	}
	return r.fallback
}

// dateOr returns the ref's date, or def when the ref has none recorded.
func dateOr(last domain.HistoryRef, def string) string {
	if last.Date == "" {
		return def
	}
	return last.Date
}

// nobelStrategy builds the year-by-year progression used by all Nobel
// prize themes.
func nobelStrategy(prize, laureate1901 string) Strategy {
	return staticStrategy{
		start: fmt.Sprintf("Start with the %s Nobel Prize of 1901 (%s)", prize, laureate1901),
		next: func(last domain.HistoryRef) string {
			return fmt.Sprintf("Continue with the next %s Nobel Prize after %s. Progress year by year.",
				prize, dateOr(last, "1901"))
		},
		questionFormat: fmt.Sprintf(
			"The question MUST be: \"Name and nationality of the %s Nobel laureate of [YEAR]?\" and the answer must be \"[First name Last name], [nationality]\"",
			prize),
	}
}

// NewDefaultStrategyRegistry creates the registry with the built-in
// theme progressions.
func NewDefaultStrategyRegistry() *StrategyRegistry {
	r := NewStrategyRegistry()

	r.Register("nobel_prizes_physic", nobelStrategy("Physics", "Wilhelm Röntgen"))
	r.Register("nobel_prizes_chemistry", nobelStrategy("Chemistry", "Jacobus van 't Hoff"))
	r.Register("nobel_prizes_peace", nobelStrategy("Peace", "Henry Dunant and Frédéric Passy"))
	r.Register("nobel_prizes_literature", nobelStrategy("Literature", "Sully Prudhomme"))

	r.Register("world_history", staticStrategy{
		start: "Start with the earliest events of human history (prehistory, first civilizations)",
		next: func(last domain.HistoryRef) string {
			return fmt.Sprintf("Continue chronologically after %s. Move forward in time.",
				dateOr(last, "the beginning of history"))
		},
	})
	r.Register("france_history", staticStrategy{
		start: "Start with the first inhabitants of Gaul (prehistory, Celts)",
		next: func(last domain.HistoryRef) string {
			return fmt.Sprintf("Continue the history of France chronologically after %s.",
				dateOr(last, "the origins"))
		},
	})
	r.Register("egypt_history", staticStrategy{
		start: "Start with predynastic Egypt and the first pharaoh dynasties",
		next: func(last domain.HistoryRef) string {
			return fmt.Sprintf("Continue the history of Egypt chronologically after %s.",
				dateOr(last, "the origins"))
		},
	})
	r.Register("rome_history", staticStrategy{
		start: "Start with the mythical founding of Rome (753 BC) or the royal period",
		next: func(last domain.HistoryRef) string {
			return fmt.Sprintf("Continue the history of Rome chronologically after %s.",
				dateOr(last, "the founding"))
		},
	})
	r.Register("cinema", staticStrategy{
		start: "Start with the invention of cinema (Lumière brothers, 1895)",
		next: func(last domain.HistoryRef) string {
			return fmt.Sprintf("Continue the history of cinema chronologically after %s.",
				dateOr(last, "1895"))
		},
	})
	r.Register("literature", staticStrategy{
		start: "Start with the earliest literary texts (Epic of Gilgamesh, ancient literature)",
		next: func(last domain.HistoryRef) string {
			return fmt.Sprintf("Continue the history of literature chronologically after %s.",
				dateOr(last, "antiquity"))
		},
	})
	r.Register("music", staticStrategy{
		start: "Start with the origins of Western music (Gregorian chant, medieval music)",
		next: func(last domain.HistoryRef) string {
			return fmt.Sprintf("Continue the history of music chronologically after %s.",
				dateOr(last, "the Middle Ages"))
		},
	})
	r.Register("scientific_discoveries", staticStrategy{
		start: "Start with the earliest scientific discoveries (antiquity: Archimedes, Euclid...)",
		next: func(last domain.HistoryRef) string {
			return fmt.Sprintf("Continue scientific discoveries chronologically after %s.",
				dateOr(last, "antiquity"))
		},
	})
	r.Register("countries_capitals", alphabeticalStrategy{})

	return r
}

// alphabeticalStrategy progresses through the alphabet rather than
// through time; used for the countries and capitals theme.
type alphabeticalStrategy struct{}

func (alphabeticalStrategy) StartInstruction() string {
	return "Present a country and its capital (start in alphabetical order: Afghanistan)"
}

func (alphabeticalStrategy) ContinuationInstruction(last domain.HistoryRef) string {
	// Titles look like "Albania – Tirana"; the first word is enough of
	// an alphabetical anchor.
	anchor := "A"
	if fields := strings.Fields(last.Title); len(fields) > 0 {
		anchor = fields[0]
	}
	return fmt.Sprintf("Continue with the next country in alphabetical order after %s.", anchor)
}
