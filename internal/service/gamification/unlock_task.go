package gamification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/store"
	"github.com/cnovais/flashdeck-api/internal/task"
)

// TaskTypeUnlockRecord identifies achievement unlock record tasks.
const TaskTypeUnlockRecord = "unlock_record"

// unlockRecordTask persists an achievement unlock in the background. The
// store keeps the first recorded timestamp, so redelivery is harmless.
type unlockRecordTask struct {
	id           uuid.UUID
	userID       uuid.UUID
	achievement  domain.Achievement
	achievements store.AchievementStore
}

func newUnlockRecordTask(
	userID uuid.UUID,
	achievement domain.Achievement,
	achievements store.AchievementStore,
) (*unlockRecordTask, error) {
	if achievement.UnlockedAt == nil {
		return nil, fmt.Errorf("achievement %s has no unlock timestamp", achievement.ID)
	}
	if achievements == nil {
		return nil, fmt.Errorf("achievement store cannot be nil")
	}

	return &unlockRecordTask{
		id:           uuid.New(),
		userID:       userID,
		achievement:  achievement,
		achievements: achievements,
	}, nil
}

// ID implements task.Task.ID
func (t *unlockRecordTask) ID() uuid.UUID { return t.id }

// Type implements task.Task.Type
func (t *unlockRecordTask) Type() string { return TaskTypeUnlockRecord }

// Execute implements task.Task.Execute
func (t *unlockRecordTask) Execute(ctx context.Context) error {
	err := t.achievements.SaveUnlock(ctx, t.userID, t.achievement.ID, *t.achievement.UnlockedAt)
	if err != nil {
		return fmt.Errorf("failed to record achievement unlock: %w", err)
	}
	return nil
}

var _ task.Task = (*unlockRecordTask)(nil)
