package continuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbonnaire/mnemo-api/internal/domain"
)

var parserThemes = []domain.Theme{
	{ID: "world_history", Name: "World History", PromptTemplate: "t", Active: true},
	{ID: "cinema", Name: "Cinema", PromptTemplate: "t", Active: true},
}

func TestParseResponseWellFormed(t *testing.T) {
	t.Parallel()

	raw := `===THEME:world_history===
Title: The pyramids of Giza
Date: around 2560 BC
Description: The great pyramid was built for Khufu.
It took about twenty years.
Importance: Oldest of the seven wonders still standing.
Question: For which pharaoh was the great pyramid built?
Answer: Khufu

===THEME:cinema===
Title: First public film screening
Date: 28 December 1895
Description: The Lumière brothers screened ten short films in Paris.
Importance: Birth of cinema as a public spectacle.
Question: Who organized the first public film screening?
Answer: The Lumière brothers`

	engine := NewEngine(nil)
	entry := engine.ParseResponse(raw, parserThemes)

	require.Len(t, entry, 2)

	history := entry["world_history"]
	assert.Equal(t, "The pyramids of Giza", history.Title)
	assert.Equal(t, "around 2560 BC", history.Date)
	assert.Contains(t, history.Description, "took about twenty years", "multi-line fields are preserved")
	assert.Equal(t, "Khufu", history.Answer)
	assert.Equal(t, domain.SourceGenerated, history.Source)

	assert.Equal(t, "First public film screening", entry["cinema"].Title)
}

func TestParseResponseMalformedInputs(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)

	tests := []struct {
		name     string
		raw      string
		expected int
	}{
		{
			name:     "empty response",
			raw:      "",
			expected: 0,
		},
		{
			name:     "no section markers",
			raw:      "Title: Something\nDate: 1900",
			expected: 0,
		},
		{
			name: "section with blank title is rejected",
			raw: `===THEME:world_history===
Title:
Date: 1900
Description: d
Importance: i
Question: q
Answer: a`,
			expected: 0,
		},
		{
			name: "unknown theme section is ignored",
			raw: `===THEME:astronomy===
Title: Saturn's rings
Date: 1610
Description: d
Importance: i
Question: q
Answer: a`,
			expected: 0,
		},
		{
			name: "one good section among garbage",
			raw: `random preamble the model added
===THEME:world_history===
Title: Code of Hammurabi
Date: around 1754 BC
Description: One of the earliest legal codes.
Importance: Foundation of written law.
Question: Who promulgated it?
Answer: Hammurabi
===THEME:===
Title: orphan section without id`,
			expected: 1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			entry := engine.ParseResponse(tc.raw, parserThemes)
			assert.Len(t, entry, tc.expected)
		})
	}
}

func TestParseResponseStripsBracketsAndWhitespace(t *testing.T) {
	t.Parallel()

	raw := `===THEME:world_history===
Title:   [The Rosetta Stone]
Date: [1799]
description: Found by French soldiers in Egypt.
IMPORTANCE: Key to deciphering hieroglyphs.
Question: [Where was it found?]
Answer:   [Rosetta, Egypt]  `

	engine := NewEngine(nil)
	entry := engine.ParseResponse(raw, parserThemes)

	require.Contains(t, entry, "world_history")
	card := entry["world_history"]
	assert.Equal(t, "The Rosetta Stone", card.Title, "wrapping brackets are stripped")
	assert.Equal(t, "1799", card.Date)
	assert.Equal(t, "Found by French soldiers in Egypt.", card.Description, "labels match case-insensitively")
	assert.Equal(t, "Rosetta, Egypt", card.Answer)
}

func TestParseResponseMissingFieldsYieldIncompleteCard(t *testing.T) {
	t.Parallel()

	raw := `===THEME:cinema===
Title: Citizen Kane
Date: 1941`

	engine := NewEngine(nil)
	entry := engine.ParseResponse(raw, parserThemes)

	require.Contains(t, entry, "cinema")
	card := entry["cinema"]
	assert.Equal(t, "Citizen Kane", card.Title)
	assert.Empty(t, card.Question)
	assert.False(t, card.IsComplete(), "partial card stays incomplete and will be retried")
}

func TestParseFact(t *testing.T) {
	t.Parallel()

	card := ParseFact(`Title: Printing press
Date: around 1440
Description: Gutenberg's movable type.
Importance: Mass literacy became possible.
Question: Who invented it?
Answer: Johannes Gutenberg`)

	assert.Equal(t, "Printing press", card.Title)
	assert.Equal(t, "Johannes Gutenberg", card.Answer)

	assert.Empty(t, ParseFact("no labels at all").Title)
}
