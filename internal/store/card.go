package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
)

// CardStore defines how the study scheduler obtains a deck's cards and how
// the management surface persists them. GetByDeck returns the ordered list
// the scheduler treats as a fixed snapshot for the whole session.
type CardStore interface {
	// Create saves a new card to the store.
	// Returns ErrInvalidEntity if the card fails validation.
	Create(ctx context.Context, card domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Card, error)

	// GetByDeck retrieves the deck's cards ordered by creation time.
	// An empty deck yields an empty slice and no error; it is the
	// scheduler's job to refuse to start a session on it.
	GetByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error)

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// DeckStore defines persistence for decks.
type DeckStore interface {
	// Create saves a new deck to the store.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// GetByUser retrieves all decks owned by the given user, newest first.
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)

	// Delete removes a deck and its cards from the store.
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
