package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
)

// ReviewLogStore persists review events. Writes are best-effort from the
// scheduler's point of view: the study flow dispatches them asynchronously
// and never blocks on, or surfaces, a logging failure.
type ReviewLogStore interface {
	// Upsert saves a review event, keyed by the event's own ID. Re-delivery
	// of the same event (e.g. a retry, or a task completing after the
	// learner already exited the session) must be a safe no-op.
	Upsert(ctx context.Context, event *domain.ReviewEvent) error

	// GetByUser retrieves a user's review events, newest first, bounded by
	// limit. A limit of 0 applies the store's default.
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ReviewEvent, error)
}
