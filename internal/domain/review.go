package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DifficultyRating represents the learner's self-assessed recall difficulty
// for a card just reviewed.
type DifficultyRating string

// Possible difficulty rating values
const (
	RatingAgain DifficultyRating = "again"
	RatingHard  DifficultyRating = "hard"
	RatingGood  DifficultyRating = "good"
	RatingEasy  DifficultyRating = "easy"
)

// Review-specific validation errors
var (
	// ErrInvalidRating is returned when a difficulty rating is not one of
	// again, hard, good, easy.
	ErrInvalidRating = errors.New("invalid difficulty rating")

	// ErrReviewEventIDEmpty is returned when a review event ID is empty or nil.
	ErrReviewEventIDEmpty = errors.New("review event ID cannot be empty")
)

// Ratings lists all valid difficulty ratings in ascending recall order.
func Ratings() []DifficultyRating {
	return []DifficultyRating{RatingAgain, RatingHard, RatingGood, RatingEasy}
}

// IsValid reports whether the rating is one of the four known values.
func (r DifficultyRating) IsValid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	default:
		return false
	}
}

// ParseDifficultyRating converts a string into a DifficultyRating.
// Returns ErrInvalidRating for unknown values.
func ParseDifficultyRating(s string) (DifficultyRating, error) {
	rating := DifficultyRating(s)
	if !rating.IsValid() {
		return "", ErrInvalidRating
	}
	return rating, nil
}

// DefaultStudyTimeSeconds is the per-card study time estimate recorded on
// review events when the client does not measure it.
const DefaultStudyTimeSeconds = 30

// ReviewEvent records one answered card within a study session. Events carry
// their own ID so the review log can upsert idempotently: a late delivery
// after the session was abandoned applies safely.
type ReviewEvent struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"user_id"`
	DeckID           uuid.UUID        `json:"deck_id"`
	CardID           uuid.UUID        `json:"card_id"`
	Rating           DifficultyRating `json:"rating"`
	IsCorrect        bool             `json:"is_correct"`
	StudyTimeSeconds int              `json:"study_time_seconds"`
	EaseFactor       float64          `json:"ease_factor"`
	IntervalMs       int64            `json:"interval_ms"`
	NextReviewAt     time.Time        `json:"next_review_at"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Validate checks if the ReviewEvent has valid data.
// Returns an error if any field fails validation.
func (e *ReviewEvent) Validate() error {
	if e.ID == uuid.Nil {
		return ErrReviewEventIDEmpty
	}

	if e.UserID == uuid.Nil {
		return ErrEmptyUserID
	}

	if e.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if e.CardID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if !e.Rating.IsValid() {
		return ErrInvalidRating
	}

	return nil
}
