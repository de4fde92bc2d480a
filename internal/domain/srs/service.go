// Package srs implements the scheduling policy that maps a learner's
// difficulty rating to the card's next review time.
//
// The policy is intentionally non-adaptive: the same rating always yields the
// same delay regardless of the card's prior history. The ease factor present
// on study cards is seeded and carried but never read back into the interval
// calculation; classic SM-2 style convergence is explicitly out of contract.
package srs

import (
	"errors"
	"time"

	"github.com/cnovais/flashdeck-api/internal/domain"
)

// Common errors
var (
	ErrInvalidRating = errors.New("invalid difficulty rating")
)

// Service defines the interface for interval policy operations.
type Service interface {
	// IntervalFor returns the fixed next-review delay for a rating.
	IntervalFor(rating domain.DifficultyRating) (time.Duration, error)

	// NextReviewAt computes when a card rated at the given time should next
	// be reviewed: now + IntervalFor(rating).
	NextReviewAt(rating domain.DifficultyRating, now time.Time) (time.Time, error)

	// InitialEaseFactor returns the ease factor seeded on new study cards.
	InitialEaseFactor() float64
}

// defaultService is the standard implementation of the Service interface.
// It is stateless and safe for concurrent use.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new interval policy service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new interval policy service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// IntervalFor implements the Service interface. Table-driven, no hidden state.
func (s *defaultService) IntervalFor(rating domain.DifficultyRating) (time.Duration, error) {
	interval, ok := s.params.Intervals[rating]
	if !ok {
		return 0, ErrInvalidRating
	}
	return interval, nil
}

// NextReviewAt implements the Service interface.
func (s *defaultService) NextReviewAt(
	rating domain.DifficultyRating,
	now time.Time,
) (time.Time, error) {
	interval, err := s.IntervalFor(rating)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(interval), nil
}

// InitialEaseFactor implements the Service interface.
func (s *defaultService) InitialEaseFactor() float64 {
	return s.params.InitialEaseFactor
}
