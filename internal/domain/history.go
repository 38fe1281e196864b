package domain

// HistoryRef points at one previously generated card: where it was
// stored and the title/date the continuation engine progresses from.
type HistoryRef struct {
	DayIndex int    `json:"day_index"`
	Title    string `json:"title"`
	Date     string `json:"date"`
}

// History aggregates everything previously generated, for
// anti-repetition and chronological continuation. Titles is the global
// list across all themes in ascending day-index order; ByTheme holds
// each theme's refs in the same order, so the last element is the most
// recent.
type History struct {
	Titles  []string
	ByTheme map[string][]HistoryRef
}

// LastForTheme returns the most recent history ref for a theme, or
// false if the theme has no prior content.
func (h History) LastForTheme(themeID string) (HistoryRef, bool) {
	refs := h.ByTheme[themeID]
	if len(refs) == 0 {
		return HistoryRef{}, false
	}
	return refs[len(refs)-1], true
}

// ContainsTitle reports whether a title was ever used, across all themes.
func (h History) ContainsTitle(title string) bool {
	for _, t := range h.Titles {
		if t == title {
			return true
		}
	}
	return false
}
