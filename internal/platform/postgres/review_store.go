package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/platform/logger"
	"github.com/cnovais/flashdeck-api/internal/store"
)

// defaultReviewLimit bounds GetByUser when the caller passes no limit.
const defaultReviewLimit = 100

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewLogStore struct {
	db store.DBTX
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the
// ReviewLogStore interface.
func NewPostgresReviewLogStore(db store.DBTX) *PostgresReviewLogStore {
	return &PostgresReviewLogStore{
		db: db,
	}
}

// Upsert implements store.ReviewLogStore.Upsert. The insert is keyed by the
// event's own id with DO NOTHING on conflict, so redelivered events (task
// retries, tasks finishing after the session was abandoned) are no-ops.
func (s *PostgresReviewLogStore) Upsert(ctx context.Context, event *domain.ReviewEvent) error {
	log := logger.FromContext(ctx)

	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO review_events (id, user_id, deck_id, card_id, rating,
			is_correct, study_time_seconds, ease_factor, interval_ms,
			next_review_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.DeckID,
		event.CardID,
		string(event.Rating),
		event.IsCorrect,
		event.StudyTimeSeconds,
		event.EaseFactor,
		event.IntervalMs,
		event.NextReviewAt,
		event.CreatedAt,
	)
	if err != nil {
		log.Error("failed to upsert review event",
			"error", err,
			"event_id", event.ID)
		return fmt.Errorf("failed to upsert review event: %w", MapError(err))
	}

	return nil
}

// GetByUser implements store.ReviewLogStore.GetByUser
func (s *PostgresReviewLogStore) GetByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.ReviewEvent, error) {
	log := logger.FromContext(ctx)

	if limit <= 0 {
		limit = defaultReviewLimit
	}

	query := `
		SELECT id, user_id, deck_id, card_id, rating, is_correct,
			study_time_seconds, ease_factor, interval_ms, next_review_at,
			created_at
		FROM review_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to query review events",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to query review events: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var events []*domain.ReviewEvent
	for rows.Next() {
		var (
			event  domain.ReviewEvent
			rating string
		)
		if err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.DeckID,
			&event.CardID,
			&rating,
			&event.IsCorrect,
			&event.StudyTimeSeconds,
			&event.EaseFactor,
			&event.IntervalMs,
			&event.NextReviewAt,
			&event.CreatedAt,
		); err != nil {
			log.Error("failed to scan review event row", "error", err)
			return nil, fmt.Errorf("failed to scan review event row: %w", MapError(err))
		}
		event.Rating = domain.DifficultyRating(rating)
		event.NextReviewAt = event.NextReviewAt.UTC()
		event.CreatedAt = event.CreatedAt.UTC()
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review event rows: %w", MapError(err))
	}

	return events, nil
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore interface
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)
