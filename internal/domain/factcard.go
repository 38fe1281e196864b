package domain

import "strings"

// Fact card content sources, recorded on every stored card.
const (
	// SourceGenerated marks a card produced by the generative provider.
	SourceGenerated = "generated"

	// SourceFallback marks a deterministic placeholder card returned
	// when generation fails.
	SourceFallback = "fallback"
)

// requiredCardFields are the fields that must be non-blank for a card
// to be considered complete. Source is deliberately excluded.
var requiredCardFields = []string{"title", "date", "description", "importance", "question", "answer"}

// FactCard is one generated unit of educational content plus its quiz
// question and answer. Cards are immutable once stored; updates replace
// the whole card.
type FactCard struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Source      string `json:"source"`
}

// field returns the named card field. Unknown names return "".
func (c FactCard) field(name string) string {
	switch name {
	case "title":
		return c.Title
	case "date":
		return c.Date
	case "description":
		return c.Description
	case "importance":
		return c.Importance
	case "question":
		return c.Question
	case "answer":
		return c.Answer
	case "source":
		return c.Source
	default:
		return ""
	}
}

// IsComplete reports whether every required field is non-blank after
// trimming. Source does not count towards completeness.
func (c FactCard) IsComplete() bool {
	for _, name := range requiredCardFields {
		if strings.TrimSpace(c.field(name)) == "" {
			return false
		}
	}
	return true
}

// HasQuiz reports whether the card carries both a question and an answer,
// the minimum needed for it to appear in a review set.
func (c FactCard) HasQuiz() bool {
	return strings.TrimSpace(c.Question) != "" && strings.TrimSpace(c.Answer) != ""
}

// DayEntry maps theme IDs to their fact card for one day index.
// Entries accumulate: a DayEntry can be created with a subset of themes
// and later merged as missing themes are filled in.
type DayEntry map[string]FactCard

// Merge shallow-merges other into a copy of the entry. New theme keys are
// added and existing theme keys are overwritten wholesale; the receiver
// is never mutated.
func (e DayEntry) Merge(other DayEntry) DayEntry {
	merged := make(DayEntry, len(e)+len(other))
	for id, card := range e {
		merged[id] = card
	}
	for id, card := range other {
		merged[id] = card
	}
	return merged
}
