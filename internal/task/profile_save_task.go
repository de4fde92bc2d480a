package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/store"
)

// ProfileSaveTask persists a snapshot of a gamification profile. The
// accumulator has already applied the mutation in memory; a failed save is
// logged by the runner and never rolled back (local truth wins).
type ProfileSaveTask struct {
	id       uuid.UUID
	profile  *domain.GamificationProfile
	profiles store.ProfileStore
}

// NewProfileSaveTask creates a task that saves the given profile snapshot.
// The caller passes a copy; the accumulator may keep mutating its own.
func NewProfileSaveTask(
	profile *domain.GamificationProfile,
	profiles store.ProfileStore,
) (*ProfileSaveTask, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile cannot be nil")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile store cannot be nil")
	}

	return &ProfileSaveTask{
		id:       uuid.New(),
		profile:  profile,
		profiles: profiles,
	}, nil
}

// ID implements Task.ID
func (t *ProfileSaveTask) ID() uuid.UUID { return t.id }

// Type implements Task.Type
func (t *ProfileSaveTask) Type() string { return TaskTypeProfileSave }

// Execute implements Task.Execute
func (t *ProfileSaveTask) Execute(ctx context.Context) error {
	if err := t.profiles.Save(ctx, t.profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

var _ Task = (*ProfileSaveTask)(nil)
