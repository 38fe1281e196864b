package domain

// ReviewType classifies a resurfaced item by how long ago it was learned.
type ReviewType string

// Review recency buckets, from most to least recent.
const (
	ReviewTypeDaily      ReviewType = "daily_review"
	ReviewTypeWeekly     ReviewType = "weekly_review"
	ReviewTypeMonthly    ReviewType = "monthly_review"
	ReviewTypeHalfYearly ReviewType = "halfyearly_review"
	ReviewTypeYearly     ReviewType = "yearly_review"
)

// ReviewItem is one quiz question resurfaced from a past day entry.
// It is derived on demand from cached content and never stored.
// OriginalIndex is the day the fact was learned; ReviewIndex is the day
// the review happens.
type ReviewItem struct {
	Question         string     `json:"question"`
	Answer           string     `json:"answer"`
	Category         string     `json:"category"`
	OriginalIndex    int        `json:"original_index"`
	ReviewIndex      int        `json:"review_index"`
	Type             ReviewType `json:"type"`
	DaysSinceLearned int        `json:"days_since_learned"`
}
