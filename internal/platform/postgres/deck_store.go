package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/platform/logger"
	"github.com/cnovais/flashdeck-api/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db store.DBTX
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the
// DeckStore interface.
func NewPostgresDeckStore(db store.DBTX) *PostgresDeckStore {
	return &PostgresDeckStore{
		db: db,
	}
}

// Create implements store.DeckStore.Create
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO decks (id, user_id, name, description, public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		deck.ID,
		deck.UserID,
		deck.Name,
		deck.Description,
		deck.Public,
		deck.CreatedAt,
		deck.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create deck",
			"error", err,
			"deck_id", deck.ID)
		return fmt.Errorf("failed to create deck: %w", MapError(err))
	}

	return nil
}

// GetByID implements store.DeckStore.GetByID
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	query := `
		SELECT id, user_id, name, description, public, created_at, updated_at
		FROM decks
		WHERE id = $1
	`

	var deck domain.Deck
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID,
		&deck.UserID,
		&deck.Name,
		&deck.Description,
		&deck.Public,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		logger.FromContext(ctx).Error("failed to get deck",
			"error", err,
			"deck_id", id)
		return nil, fmt.Errorf("failed to get deck: %w", MapError(err))
	}

	deck.CreatedAt = deck.CreatedAt.UTC()
	deck.UpdatedAt = deck.UpdatedAt.UTC()
	return &deck, nil
}

// GetByUser implements store.DeckStore.GetByUser
func (s *PostgresDeckStore) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, user_id, name, description, public, created_at, updated_at
		FROM decks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query decks",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to query decks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var decks []*domain.Deck
	for rows.Next() {
		var deck domain.Deck
		if err := rows.Scan(
			&deck.ID,
			&deck.UserID,
			&deck.Name,
			&deck.Description,
			&deck.Public,
			&deck.CreatedAt,
			&deck.UpdatedAt,
		); err != nil {
			log.Error("failed to scan deck row", "error", err)
			return nil, fmt.Errorf("failed to scan deck row: %w", MapError(err))
		}
		deck.CreatedAt = deck.CreatedAt.UTC()
		deck.UpdatedAt = deck.UpdatedAt.UTC()
		decks = append(decks, &deck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deck rows: %w", MapError(err))
	}

	return decks, nil
}

// Delete implements store.DeckStore.Delete. Cards are removed by the
// ON DELETE CASCADE constraint on cards.deck_id.
func (s *PostgresDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete deck",
			"error", err,
			"deck_id", id)
		return fmt.Errorf("failed to delete deck: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, "deck"); err != nil {
		return store.ErrDeckNotFound
	}
	return nil
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)
