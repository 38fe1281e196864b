package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Quiz question validation errors
var (
	// ErrQuestionIDEmpty is returned when a quiz question ID is empty.
	ErrQuestionIDEmpty = errors.New("quiz question ID cannot be empty")

	// ErrQuestionTextEmpty is returned when a quiz question has no text.
	ErrQuestionTextEmpty = errors.New("quiz question text cannot be empty")

	// ErrQuestionAnswerEmpty is returned when a quiz question has no answer.
	ErrQuestionAnswerEmpty = errors.New("quiz question answer cannot be empty")
)

// Leveled spaced-repetition bounds.
const (
	MinEbbinghausLevel = 1
	MaxEbbinghausLevel = 6
)

// initialReviewInterval is the level-1 interval: a new question comes
// up for its first review one day after capture.
const initialReviewInterval = 24 * time.Hour

// QuizQuestion is one question in the leveled spaced-repetition pool.
// The pool is independent from the index-bucket review mechanism: the
// two are never reconciled with each other.
type QuizQuestion struct {
	ID              uuid.UUID `json:"id"`
	Question        string    `json:"question"`
	Answer          string    `json:"answer"`
	Category        string    `json:"category"`
	OriginalIndex   int       `json:"original_index"`
	CreatedAt       time.Time `json:"created_at"`
	LastReviewed    time.Time `json:"last_reviewed"`
	ReviewCount     int       `json:"review_count"`
	CorrectCount    int       `json:"correct_count"`
	EbbinghausLevel int       `json:"ebbinghaus_level"`
	NextReviewDate  time.Time `json:"next_review_date"`
}

// NewQuizQuestion creates a question at level 1, due one day out.
func NewQuizQuestion(question, answer, category string, originalIndex int) (*QuizQuestion, error) {
	now := time.Now().UTC()
	q := &QuizQuestion{
		ID:              uuid.New(),
		Question:        question,
		Answer:          answer,
		Category:        category,
		OriginalIndex:   originalIndex,
		CreatedAt:       now,
		EbbinghausLevel: MinEbbinghausLevel,
		NextReviewDate:  now.Add(initialReviewInterval),
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}

	return q, nil
}

// Validate checks if the QuizQuestion has valid data.
// Returns an error if any field fails validation.
func (q *QuizQuestion) Validate() error {
	if q.ID == uuid.Nil {
		return ErrQuestionIDEmpty
	}

	if strings.TrimSpace(q.Question) == "" {
		return ErrQuestionTextEmpty
	}

	if strings.TrimSpace(q.Answer) == "" {
		return ErrQuestionAnswerEmpty
	}

	if q.EbbinghausLevel < MinEbbinghausLevel || q.EbbinghausLevel > MaxEbbinghausLevel {
		return ErrInvalidLevel
	}

	return nil
}

// IsDue reports whether the question should be reviewed at the given time.
func (q *QuizQuestion) IsDue(now time.Time) bool {
	return !q.NextReviewDate.After(now)
}
