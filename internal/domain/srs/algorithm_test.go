package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbonnaire/mnemo-api/internal/domain"
)

func TestReviewIndexes(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()

	tests := []struct {
		name         string
		currentIndex int
		expected     []int
	}{
		{
			name:         "all offsets in range",
			currentIndex: 400,
			expected:     []int{399, 393, 370, 220, 35},
		},
		{
			name:         "only yesterday in range",
			currentIndex: 5,
			expected:     []int{4},
		},
		{
			name:         "first day has nothing to review",
			currentIndex: 1,
			expected:     []int{},
		},
		{
			name:         "boundary exactly one year plus one",
			currentIndex: 366,
			expected:     []int{365, 359, 336, 186, 1},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, svc.ReviewIndexes(tc.currentIndex))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()

	tests := []struct {
		days     int
		expected domain.ReviewType
	}{
		{0, domain.ReviewTypeDaily},
		{1, domain.ReviewTypeDaily},
		{6, domain.ReviewTypeDaily},
		{7, domain.ReviewTypeWeekly},
		{29, domain.ReviewTypeWeekly},
		{30, domain.ReviewTypeMonthly},
		{179, domain.ReviewTypeMonthly},
		{180, domain.ReviewTypeHalfYearly},
		{364, domain.ReviewTypeHalfYearly},
		{365, domain.ReviewTypeYearly},
		{1000, domain.ReviewTypeYearly},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, svc.Classify(tc.days), "days=%d", tc.days)
	}
}

func TestNextLevelClamping(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()

	assert.Equal(t, 2, nextLevel(1, true, params))
	assert.Equal(t, 6, nextLevel(6, true, params), "max level answered correctly stays at max")
	assert.Equal(t, 1, nextLevel(1, false, params), "min level answered wrong stays at min")
	assert.Equal(t, 3, nextLevel(4, false, params))
}

func TestIntervalForLevel(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()

	assert.Equal(t, 1, intervalForLevel(1, params))
	assert.Equal(t, 3, intervalForLevel(2, params))
	assert.Equal(t, 90, intervalForLevel(6, params))
	assert.Equal(t, 90, intervalForLevel(99, params), "levels beyond the table clamp to the last entry")
}

func TestSubmitAnswer(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

	t.Run("correct answer advances level and schedules next review", func(t *testing.T) {
		t.Parallel()

		svc := NewDefaultService()
		question, err := domain.NewQuizQuestion("What year?", "1969", "world_history", 10)
		require.NoError(t, err)

		updated, err := svc.SubmitAnswer(question, true, now)
		require.NoError(t, err)

		assert.Equal(t, 2, updated.EbbinghausLevel)
		assert.Equal(t, 1, updated.ReviewCount)
		assert.Equal(t, 1, updated.CorrectCount)
		assert.Equal(t, now, updated.LastReviewed)
		assert.Equal(t, now.AddDate(0, 0, 3), updated.NextReviewDate)

		// Input must not be mutated.
		assert.Equal(t, 1, question.EbbinghausLevel)
		assert.Equal(t, 0, question.ReviewCount)
	})

	t.Run("three correct answers reach level four", func(t *testing.T) {
		t.Parallel()

		svc := NewDefaultService()
		question, err := domain.NewQuizQuestion("Capital of Peru?", "Lima", "countries_capitals", 3)
		require.NoError(t, err)

		current := question
		for i := 0; i < 3; i++ {
			next, err := svc.SubmitAnswer(current, true, now)
			require.NoError(t, err)
			current = next
		}

		assert.Equal(t, 4, current.EbbinghausLevel)
		assert.Equal(t, 3, current.ReviewCount)
		assert.Equal(t, 3, current.CorrectCount)
		assert.Equal(t, now.AddDate(0, 0, 15), current.NextReviewDate)
	})

	t.Run("wrong answer demotes one level", func(t *testing.T) {
		t.Parallel()

		svc := NewDefaultService()
		question, err := domain.NewQuizQuestion("Who?", "Curie", "scientific_discoveries", 5)
		require.NoError(t, err)
		question.EbbinghausLevel = 4

		updated, err := svc.SubmitAnswer(question, false, now)
		require.NoError(t, err)

		assert.Equal(t, 3, updated.EbbinghausLevel)
		assert.Equal(t, 1, updated.ReviewCount)
		assert.Equal(t, 0, updated.CorrectCount)
		assert.Equal(t, now.AddDate(0, 0, 7), updated.NextReviewDate)
	})

	t.Run("nil question is rejected", func(t *testing.T) {
		t.Parallel()

		svc := NewDefaultService()
		_, err := svc.SubmitAnswer(nil, true, now)
		assert.ErrorIs(t, err, ErrNilQuestion)
	})

	t.Run("out of range level is rejected", func(t *testing.T) {
		t.Parallel()

		svc := NewDefaultService()
		question, err := domain.NewQuizQuestion("Q?", "A", "cinema", 1)
		require.NoError(t, err)
		question.EbbinghausLevel = 9

		_, err = svc.SubmitAnswer(question, true, now)
		assert.ErrorIs(t, err, ErrInvalidLevel)
	})
}
