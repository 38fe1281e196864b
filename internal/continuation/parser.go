package continuation

import (
	"strings"

	"github.com/tbonnaire/mnemo-api/internal/domain"
)

// fieldLabels are the labels the response grammar recognizes, mapped to
// their card field. A line starting with any of these (case-insensitive,
// colon-terminated) begins a new field; everything up to the next label,
// the next section marker, or end of text belongs to the current field.
var fieldLabels = map[string]string{
	"title":       "title",
	"date":        "date",
	"description": "description",
	"importance":  "importance",
	"question":    "question",
	"answer":      "answer",
}

// ParseResponse splits the raw model response on the theme section
// marker and extracts one fact card per requested theme. A card is
// accepted only if its title is non-blank; rejected sections are simply
// absent from the result and stay missing for a future retry. Sections
// for themes that were not requested are ignored.
func (e *Engine) ParseResponse(raw string, themes []domain.Theme) domain.DayEntry {
	requested := make(map[string]bool, len(themes))
	for _, theme := range themes {
		requested[theme.ID] = true
	}

	entry := make(domain.DayEntry)

	sections := strings.Split(raw, sectionMarkerPrefix)
	for _, section := range sections[1:] {
		themeID, body, ok := splitSection(section)
		if !ok || !requested[themeID] {
			continue
		}

		card := parseCard(body)
		if strings.TrimSpace(card.Title) == "" {
			continue
		}

		card.Source = domain.SourceGenerated
		entry[themeID] = card
	}

	return entry
}

// ParseFact extracts a single fact card from a response that carries no
// section markers. The card may be incomplete; callers decide whether a
// blank title disqualifies it.
func ParseFact(raw string) domain.FactCard {
	return parseCard(raw)
}

// splitSection separates the theme ID from the section body. A section
// starts right after the marker prefix, so it looks like
// "theme_id===\nTitle: ...".
func splitSection(section string) (themeID, body string, ok bool) {
	closing := strings.Index(section, "===")
	if closing < 0 {
		return "", "", false
	}

	themeID = strings.TrimSpace(section[:closing])
	if themeID == "" {
		return "", "", false
	}

	return themeID, section[closing+len("==="):], true
}

// parseCard extracts the labeled fields from one section body.
func parseCard(body string) domain.FactCard {
	values := make(map[string]string, len(fieldLabels))

	current := ""
	var buf strings.Builder

	flush := func() {
		if current != "" {
			values[current] = cleanFieldValue(buf.String())
		}
		buf.Reset()
	}

	for _, line := range strings.Split(body, "\n") {
		// A stray marker ends whatever field was being captured.
		if strings.HasPrefix(strings.TrimSpace(line), "===") {
			flush()
			current = ""
			continue
		}

		if label, rest, ok := matchFieldLabel(line); ok {
			flush()
			current = label
			buf.WriteString(rest)
			continue
		}

		if current != "" {
			buf.WriteString("\n")
			buf.WriteString(line)
		}
	}
	flush()

	return domain.FactCard{
		Title:       values["title"],
		Date:        values["date"],
		Description: values["description"],
		Importance:  values["importance"],
		Question:    values["question"],
		Answer:      values["answer"],
	}
}

// matchFieldLabel checks whether a line starts a new labeled field and
// returns the canonical field name plus the remainder of the line.
func matchFieldLabel(line string) (label, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	colon := strings.Index(trimmed, ":")
	if colon <= 0 {
		return "", "", false
	}

	name := strings.ToLower(strings.TrimSpace(trimmed[:colon]))
	canonical, known := fieldLabels[name]
	if !known {
		return "", "", false
	}

	return canonical, strings.TrimSpace(trimmed[colon+1:]), true
}

// cleanFieldValue trims the captured text and strips the wrapping
// brackets the model sometimes echoes back from the format template.
func cleanFieldValue(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")
	return strings.TrimSpace(value)
}
