package continuation

import (
	"fmt"
	"strings"

	"github.com/tbonnaire/mnemo-api/internal/domain"
)

// sectionMarkerPrefix tags each theme section in both the prompt and the
// model's response. The parser splits on the same marker.
const sectionMarkerPrefix = "===THEME:"

// Engine builds batched generation prompts and parses the responses.
type Engine struct {
	strategies *StrategyRegistry
}

// NewEngine creates an Engine with the given strategy registry. A nil
// registry gets the default built-in strategies.
func NewEngine(strategies *StrategyRegistry) *Engine {
	if strategies == nil {
		strategies = NewDefaultStrategyRegistry()
	}
	return &Engine{strategies: strategies}
}

// BuildPrompt produces one generation prompt covering every theme that
// needs content for the target day index. Each theme section carries its
// progression instruction (start or continue-after-last) and demands the
// fixed parseable field layout; the global used-title list is appended
// as a do-not-repeat constraint.
func (e *Engine) BuildPrompt(dayIndex int, themes []domain.Theme, history domain.History) string {
	var b strings.Builder

	avoidList := ""
	if len(history.Titles) > 0 {
		var titles strings.Builder
		for _, title := range history.Titles {
			titles.WriteString("- ")
			titles.WriteString(title)
			titles.WriteString("\n")
		}
		avoidList = fmt.Sprintf("\n\nTITLES ALREADY USED (DO NOT REPEAT):\n%s", titles.String())
	}

	fmt.Fprintf(&b, `You are an expert in history and general knowledge. Generate educational content for DAY %d of a learning program.

FUNDAMENTAL RULE: each theme must progress CHRONOLOGICALLY from the beginning of its history.
%s
IMPORTANT:
- Every item must be UNIQUE and NEVER repeated
- Strictly respect each theme's chronological order

For EACH theme, answer in this EXACT format (no markdown, no **):

`, dayIndex, avoidList)

	for _, theme := range themes {
		strategy := e.strategies.ForTheme(theme.ID)

		var instruction string
		if last, ok := history.LastForTheme(theme.ID); ok {
			instruction = strategy.ContinuationInstruction(last)
		} else {
			instruction = strategy.StartInstruction()
		}

		fmt.Fprintf(&b, "%s%s===\n", sectionMarkerPrefix, theme.ID)
		if tmpl := strings.TrimSpace(theme.PromptTemplate); tmpl != "" {
			fmt.Fprintf(&b, "%s\n", tmpl)
		}
		fmt.Fprintf(&b, `%s
Title: [short, precise title]
Date: [precise date: day month year, or "year" if the day is unknown]
Description: [2-3 sentence description]
Importance: [why it matters, in one sentence]
Question: [one quiz question about this item]
Answer: [short answer to the question]

`, instruction)
	}

	b.WriteString(`CRUCIAL:
- Every title MUST be DIFFERENT from those already used
- Strict CHRONOLOGICAL order for each theme
- No markdown, no **`)

	return b.String()
}
