package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
)

// ProfileStore persists gamification profiles. Saves are best-effort: the
// accumulator mutates its in-memory profile first and dispatches persistence
// asynchronously; a failed save is logged, never rolled back.
type ProfileStore interface {
	// Get retrieves the user's gamification profile.
	// Returns ErrProfileNotFound if none has been saved yet.
	Get(ctx context.Context, userID uuid.UUID) (*domain.GamificationProfile, error)

	// Save persists the whole profile (XP, streak, achievements).
	Save(ctx context.Context, profile *domain.GamificationProfile) error
}

// AchievementStore provides the server-side achievement catalog and records
// per-user unlocks.
type AchievementStore interface {
	// Catalog retrieves the achievement definitions known to the server.
	// An empty catalog is valid; callers merge over the built-in defaults.
	Catalog(ctx context.Context) ([]domain.AchievementDefinition, error)

	// SaveUnlock records that the user unlocked the achievement at the given
	// time. Re-recording an unlock must not change the original timestamp.
	SaveUnlock(ctx context.Context, userID uuid.UUID, achievementID string, at time.Time) error
}
