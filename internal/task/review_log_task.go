package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/store"
)

// ReviewLogTask persists one review event to the review log. It reuses the
// event's own ID as the task ID: the upsert is keyed by it, so a duplicate
// dispatch or a task completing after the session was abandoned applies
// safely to the store.
type ReviewLogTask struct {
	event *domain.ReviewEvent
	log   store.ReviewLogStore
}

// NewReviewLogTask creates a task that upserts the given review event.
func NewReviewLogTask(event *domain.ReviewEvent, log store.ReviewLogStore) (*ReviewLogTask, error) {
	if event == nil {
		return nil, fmt.Errorf("event cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("review log store cannot be nil")
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("invalid review event: %w", err)
	}

	return &ReviewLogTask{
		event: event,
		log:   log,
	}, nil
}

// ID implements Task.ID
func (t *ReviewLogTask) ID() uuid.UUID { return t.event.ID }

// Type implements Task.Type
func (t *ReviewLogTask) Type() string { return TaskTypeReviewLog }

// Execute implements Task.Execute
func (t *ReviewLogTask) Execute(ctx context.Context) error {
	if err := t.log.Upsert(ctx, t.event); err != nil {
		return fmt.Errorf("failed to upsert review event: %w", err)
	}
	return nil
}

var _ Task = (*ReviewLogTask)(nil)
