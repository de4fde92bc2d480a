package srs

import (
	"time"

	"github.com/cnovais/flashdeck-api/internal/domain"
)

// Params defines all configurable parameters for the interval policy.
type Params struct {
	// Intervals maps each difficulty rating to its fixed next-review delay.
	Intervals map[domain.DifficultyRating]time.Duration

	// InitialEaseFactor seeds the ease factor attached to every study card.
	// It is carried through review events for forward compatibility but is
	// deliberately not fed back into interval computation: the policy is
	// fixed-table, not adaptive.
	InitialEaseFactor float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values leave the corresponding default in place.
type ParamsConfig struct {
	AgainInterval time.Duration
	HardInterval  time.Duration
	GoodInterval  time.Duration
	EasyInterval  time.Duration

	InitialEaseFactor float64
}

// NewDefaultParams creates a new Params instance with default values:
// again 10 minutes, hard 15 minutes, good 1 day, easy 2 days.
func NewDefaultParams() *Params {
	return &Params{
		Intervals: map[domain.DifficultyRating]time.Duration{
			domain.RatingAgain: 10 * time.Minute,
			domain.RatingHard:  15 * time.Minute,
			domain.RatingGood:  24 * time.Hour,
			domain.RatingEasy:  48 * time.Hour,
		},
		InitialEaseFactor: 2.5,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.AgainInterval > 0 {
		params.Intervals[domain.RatingAgain] = config.AgainInterval
	}
	if config.HardInterval > 0 {
		params.Intervals[domain.RatingHard] = config.HardInterval
	}
	if config.GoodInterval > 0 {
		params.Intervals[domain.RatingGood] = config.GoodInterval
	}
	if config.EasyInterval > 0 {
		params.Intervals[domain.RatingEasy] = config.EasyInterval
	}

	if config.InitialEaseFactor > 0 {
		params.InitialEaseFactor = config.InitialEaseFactor
	}

	return params
}
