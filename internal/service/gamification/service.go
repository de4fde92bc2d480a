package gamification

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
)

// GamificationService is the XP accumulator. It owns the in-memory
// gamification profiles, applies XP deltas and streak updates, derives level
// changes and achievement unlocks, and persists snapshots in the background.
//
// The in-memory profile is the source of truth while the process lives;
// persistence is best-effort and a failed save is never rolled back.
type GamificationService interface {
	// Profile returns a snapshot of the user's gamification profile,
	// creating a fresh one on first access.
	Profile(ctx context.Context, userID uuid.UUID) (*domain.GamificationProfile, error)

	// ApplyXP adds a non-negative XP delta to the user's total and reports
	// the resulting level change. Unlock side effects (e.g. reaching level
	// 10) are applied before the result is computed.
	// Returns ErrNegativeXP for a negative delta.
	ApplyXP(ctx context.Context, userID uuid.UUID, delta int) (*XPResult, error)

	// UpdateStreak replaces the user's consecutive-study-days streak with
	// the externally computed value and unlocks any streak achievements it
	// reaches. Returns ErrNegativeStreak for a negative value.
	UpdateStreak(ctx context.Context, userID uuid.UUID, days int) (*domain.GamificationProfile, error)

	// UnlockAchievement marks the achievement unlocked and grants its XP
	// reward. Unlocking is idempotent: a second call reports unlockedNow ==
	// false and changes nothing, the original unlock timestamp included.
	// Returns ErrUnknownAchievement for an id not in the user's catalog.
	UnlockAchievement(
		ctx context.Context,
		userID uuid.UUID,
		achievementID string,
	) (achievement *domain.Achievement, unlockedNow bool, err error)
}

// XPResult reports the outcome of an XP application.
type XPResult struct {
	NewTotal      int  `json:"new_total"`
	NewLevel      int  `json:"new_level"`
	LeveledUp     bool `json:"leveled_up"`
	XPToNextLevel int  `json:"xp_to_next_level"`
}

// Common error types for GamificationService
var (
	// ErrNegativeXP indicates a negative XP delta was supplied.
	ErrNegativeXP = errors.New("xp delta cannot be negative")

	// ErrNegativeStreak indicates a negative streak value was supplied.
	ErrNegativeStreak = errors.New("streak cannot be negative")

	// ErrUnknownAchievement indicates the achievement id is not in the catalog.
	ErrUnknownAchievement = errors.New("unknown achievement")
)
