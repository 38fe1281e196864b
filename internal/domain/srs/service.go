package srs

import (
	"errors"
	"time"

	"github.com/tbonnaire/mnemo-api/internal/domain"
)

// Common errors
var (
	ErrNilQuestion  = errors.New("quiz question cannot be nil")
	ErrInvalidLevel = errors.New("quiz question level is out of range")
)

// Service defines the scheduling operations used by the review and quiz
// layers.
type Service interface {
	// ReviewIndexes computes which past day indices should be
	// resurfaced for the given current index.
	ReviewIndexes(currentIndex int) []int

	// Classify buckets a resurfaced item by days since it was learned.
	Classify(daysSinceLearned int) domain.ReviewType

	// SubmitAnswer computes the question state following one answer
	// submission. Returns a new question; the input is not modified.
	SubmitAnswer(
		question *domain.QuizQuestion,
		correct bool,
		now time.Time,
	) (*domain.QuizQuestion, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduler with the default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduler with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

func (s *defaultService) ReviewIndexes(currentIndex int) []int {
	return reviewIndexes(currentIndex, s.params.ReviewOffsets)
}

func (s *defaultService) Classify(daysSinceLearned int) domain.ReviewType {
	return classify(daysSinceLearned)
}

func (s *defaultService) SubmitAnswer(
	question *domain.QuizQuestion,
	correct bool,
	now time.Time,
) (*domain.QuizQuestion, error) {
	if question == nil {
		return nil, ErrNilQuestion
	}

	if question.EbbinghausLevel < s.params.MinLevel || question.EbbinghausLevel > s.params.MaxLevel {
		return nil, ErrInvalidLevel
	}

	return calculateNextQuestion(question, correct, now, s.params), nil
}
