package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/platform/logger"
	"github.com/cnovais/flashdeck-api/internal/store"
)

// PostgresProfileStore implements the store.ProfileStore interface
// using a PostgreSQL database as the storage backend. The achievements list
// is stored as a JSONB document alongside the scalar counters; the profile
// is always written whole, matching the snapshot semantics of the
// accumulator's background saves.
type PostgresProfileStore struct {
	db store.DBTX
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the
// ProfileStore interface.
func NewPostgresProfileStore(db store.DBTX) *PostgresProfileStore {
	return &PostgresProfileStore{
		db: db,
	}
}

// Get implements store.ProfileStore.Get
func (s *PostgresProfileStore) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.GamificationProfile, error) {
	query := `
		SELECT user_id, xp, streak, achievements, updated_at
		FROM gamification_profiles
		WHERE user_id = $1
	`

	var (
		profile      domain.GamificationProfile
		achievements []byte
		updatedAt    time.Time
	)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.XP,
		&profile.Streak,
		&achievements,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		logger.FromContext(ctx).Error("failed to get gamification profile",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to get gamification profile: %w", MapError(err))
	}

	if len(achievements) > 0 {
		if err := json.Unmarshal(achievements, &profile.Achievements); err != nil {
			return nil, fmt.Errorf("failed to unmarshal achievements: %w", err)
		}
	}
	profile.UpdatedAt = updatedAt.UTC()
	return &profile, nil
}

// Save implements store.ProfileStore.Save
func (s *PostgresProfileStore) Save(
	ctx context.Context,
	profile *domain.GamificationProfile,
) error {
	log := logger.FromContext(ctx)

	achievements, err := json.Marshal(profile.Achievements)
	if err != nil {
		return fmt.Errorf("failed to marshal achievements: %w", err)
	}

	query := `
		INSERT INTO gamification_profiles (user_id, xp, streak, achievements, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET xp = EXCLUDED.xp,
			streak = EXCLUDED.streak,
			achievements = EXCLUDED.achievements,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		profile.UserID,
		profile.XP,
		profile.Streak,
		achievements,
		profile.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save gamification profile",
			"error", err,
			"user_id", profile.UserID)
		return fmt.Errorf("failed to save gamification profile: %w", MapError(err))
	}

	return nil
}

// PostgresAchievementStore implements the store.AchievementStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAchievementStore struct {
	db store.DBTX
}

// NewPostgresAchievementStore creates a new PostgreSQL implementation of the
// AchievementStore interface.
func NewPostgresAchievementStore(db store.DBTX) *PostgresAchievementStore {
	return &PostgresAchievementStore{
		db: db,
	}
}

// Catalog implements store.AchievementStore.Catalog
func (s *PostgresAchievementStore) Catalog(
	ctx context.Context,
) ([]domain.AchievementDefinition, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, name, description, icon, xp_reward
		FROM achievement_definitions
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query achievement catalog", "error", err)
		return nil, fmt.Errorf("failed to query achievement catalog: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var defs []domain.AchievementDefinition
	for rows.Next() {
		var def domain.AchievementDefinition
		if err := rows.Scan(&def.ID, &def.Name, &def.Description, &def.Icon, &def.XPReward); err != nil {
			log.Error("failed to scan achievement definition row", "error", err)
			return nil, fmt.Errorf("failed to scan achievement definition row: %w", MapError(err))
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate achievement definition rows: %w", MapError(err))
	}

	return defs, nil
}

// SaveUnlock implements store.AchievementStore.SaveUnlock. DO NOTHING on
// conflict keeps the first recorded unlock timestamp.
func (s *PostgresAchievementStore) SaveUnlock(
	ctx context.Context,
	userID uuid.UUID,
	achievementID string,
	at time.Time,
) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO achievement_unlocks (user_id, achievement_id, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query, userID, achievementID, at)
	if err != nil {
		log.Error("failed to save achievement unlock",
			"error", err,
			"user_id", userID,
			"achievement_id", achievementID)
		return fmt.Errorf("failed to save achievement unlock: %w", MapError(err))
	}

	return nil
}

// Ensure the postgres stores implement their store interfaces
var (
	_ store.ProfileStore     = (*PostgresProfileStore)(nil)
	_ store.AchievementStore = (*PostgresAchievementStore)(nil)
)
