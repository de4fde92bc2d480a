package study

import (
	"math"

	"github.com/cnovais/flashdeck-api/internal/domain"
)

// XPAwards maps each difficulty rating to the XP granted per card rated that
// way. The coefficients are configuration, not contract.
type XPAwards map[domain.DifficultyRating]int

// DefaultXPAwards returns the default per-rating XP table.
func DefaultXPAwards() XPAwards {
	return XPAwards{
		domain.RatingAgain: 0,
		domain.RatingHard:  2,
		domain.RatingGood:  5,
		domain.RatingEasy:  8,
	}
}

// SessionSummary is the read-only result of a completed study session.
type SessionSummary struct {
	Again int `json:"again"`
	Hard  int `json:"hard"`
	Good  int `json:"good"`
	Easy  int `json:"easy"`
	Total int `json:"total"`

	// RememberedPercent is round(100*(good+easy)/total), 0 for an empty total.
	RememberedPercent    int `json:"remembered_percent"`
	NotRememberedPercent int `json:"not_remembered_percent"`

	AgainPercent int `json:"again_percent"`
	HardPercent  int `json:"hard_percent"`
	GoodPercent  int `json:"good_percent"`
	EasyPercent  int `json:"easy_percent"`

	XPAwarded int `json:"xp_awarded"`
}

// Summarize reduces the counters collected during a session into a
// SessionSummary. Percentages use integer rounding and are 0 (never NaN)
// when the total is 0. Nil awards fall back to the default table.
func Summarize(counters Counters, awards XPAwards) SessionSummary {
	if awards == nil {
		awards = DefaultXPAwards()
	}

	total := counters.Total()
	remembered := counters.Good + counters.Easy
	rememberedPercent := percentOf(remembered, total)

	summary := SessionSummary{
		Again:             counters.Again,
		Hard:              counters.Hard,
		Good:              counters.Good,
		Easy:              counters.Easy,
		Total:             total,
		RememberedPercent: rememberedPercent,
		AgainPercent:      percentOf(counters.Again, total),
		HardPercent:       percentOf(counters.Hard, total),
		GoodPercent:       percentOf(counters.Good, total),
		EasyPercent:       percentOf(counters.Easy, total),
		XPAwarded: counters.Again*awards[domain.RatingAgain] +
			counters.Hard*awards[domain.RatingHard] +
			counters.Good*awards[domain.RatingGood] +
			counters.Easy*awards[domain.RatingEasy],
	}

	if total > 0 {
		summary.NotRememberedPercent = 100 - rememberedPercent
	}

	return summary
}

// percentOf returns round(100*part/total), or 0 when total is 0.
func percentOf(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
