package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/events"
	"github.com/cnovais/flashdeck-api/internal/platform/logger"
	"github.com/cnovais/flashdeck-api/internal/store"
)

// DeckServiceError wraps unexpected errors from the deck service.
type DeckServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for DeckServiceError.
func (e *DeckServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("deck service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("deck service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *DeckServiceError) Unwrap() error {
	return e.Err
}

// NewCardRequest carries the data for creating a card of either kind.
// Alternatives and CorrectAlternative apply only to choice cards; Answer
// applies only to open cards.
type NewCardRequest struct {
	Prompt             string
	Answer             string
	Alternatives       []string
	CorrectAlternative int
	Choice             bool
	Tags               []string
	Rank               int
	ImageURL           string
	AudioURL           string
}

// DeckService manages decks and their cards. Creations emit XP events so the
// gamification accumulator can grant action XP and first-time achievements.
type DeckService interface {
	// CreateDeck creates a deck owned by the user.
	CreateDeck(ctx context.Context, userID uuid.UUID, name, description string, public bool) (*domain.Deck, error)

	// GetDeck retrieves a deck visible to the user (owned or public).
	// Returns store.ErrDeckNotFound if the deck does not exist and
	// ErrNotOwned if it is private to another user.
	GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// GetDecks retrieves the user's decks, newest first.
	GetDecks(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)

	// DeleteDeck removes the user's deck and its cards.
	DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error

	// CreateCard adds a card to the user's deck.
	CreateCard(ctx context.Context, userID, deckID uuid.UUID, req NewCardRequest) (domain.Card, error)

	// GetCards retrieves the cards of a deck visible to the user.
	GetCards(ctx context.Context, userID, deckID uuid.UUID) ([]domain.Card, error)

	// DeleteCard removes a card from the user's deck.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

// deckService implements DeckService.
type deckService struct {
	deckStore store.DeckStore
	cardStore store.CardStore
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewDeckService creates a new DeckService.
func NewDeckService(
	deckStore store.DeckStore,
	cardStore store.CardStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) DeckService {
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &deckService{
		deckStore: deckStore,
		cardStore: cardStore,
		emitter:   emitter,
		logger:    logger.With("component", "deck_service"),
	}
}

// CreateDeck implements DeckService.CreateDeck.
func (s *deckService) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	name, description string,
	public bool,
) (*domain.Deck, error) {
	deck, err := domain.NewDeck(userID, name, description, public)
	if err != nil {
		return nil, err
	}

	if err := s.deckStore.Create(ctx, deck); err != nil {
		s.logger.Error("failed to create deck",
			"error", err,
			"user_id", userID)
		return nil, &DeckServiceError{
			Operation: "create_deck",
			Message:   "failed to save deck",
			Err:       err,
		}
	}

	s.emitXP(ctx, events.EventDeckCreated, userID, deck.ID)

	s.logger.Info("deck created",
		"deck_id", deck.ID,
		"user_id", userID)
	return deck, nil
}

// GetDeck implements DeckService.GetDeck.
func (s *deckService) GetDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*domain.Deck, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID && !deck.Public {
		return nil, ErrNotOwned
	}
	return deck, nil
}

// GetDecks implements DeckService.GetDecks.
func (s *deckService) GetDecks(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	decks, err := s.deckStore.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list decks",
			"error", err,
			"user_id", userID)
		return nil, &DeckServiceError{
			Operation: "get_decks",
			Message:   "failed to list decks",
			Err:       err,
		}
	}
	return decks, nil
}

// DeleteDeck implements DeckService.DeleteDeck.
func (s *deckService) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return err
	}
	if deck.UserID != userID {
		return ErrNotOwned
	}

	if err := s.deckStore.Delete(ctx, deckID); err != nil {
		s.logger.Error("failed to delete deck",
			"error", err,
			"deck_id", deckID)
		return &DeckServiceError{
			Operation: "delete_deck",
			Message:   "failed to delete deck",
			Err:       err,
		}
	}

	s.logger.Info("deck deleted",
		"deck_id", deckID,
		"user_id", userID)
	return nil
}

// CreateCard implements DeckService.CreateCard.
func (s *deckService) CreateCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
	req NewCardRequest,
) (domain.Card, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID {
		return nil, ErrNotOwned
	}

	card, err := buildCard(deckID, req)
	if err != nil {
		return nil, err
	}

	if err := s.cardStore.Create(ctx, card); err != nil {
		s.logger.Error("failed to create card",
			"error", err,
			"deck_id", deckID)
		return nil, &DeckServiceError{
			Operation: "create_card",
			Message:   "failed to save card",
			Err:       err,
		}
	}

	s.emitXP(ctx, events.EventCardCreated, userID, deckID)

	s.logger.Info("card created",
		"card_id", card.ID(),
		"deck_id", deckID)
	return card, nil
}

// GetCards implements DeckService.GetCards.
func (s *deckService) GetCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
) ([]domain.Card, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID && !deck.Public {
		return nil, ErrNotOwned
	}

	cards, err := s.cardStore.GetByDeck(ctx, deckID)
	if err != nil {
		s.logger.Error("failed to list cards",
			"error", err,
			"deck_id", deckID)
		return nil, &DeckServiceError{
			Operation: "get_cards",
			Message:   "failed to list cards",
			Err:       err,
		}
	}
	return cards, nil
}

// DeleteCard implements DeckService.DeleteCard.
func (s *deckService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		return err
	}

	deck, err := s.deckStore.GetByID(ctx, card.DeckID())
	if err != nil {
		return err
	}
	if deck.UserID != userID {
		return ErrNotOwned
	}

	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		s.logger.Error("failed to delete card",
			"error", err,
			"card_id", cardID)
		return &DeckServiceError{
			Operation: "delete_card",
			Message:   "failed to delete card",
			Err:       err,
		}
	}
	return nil
}

// emitXP publishes an XP event for a creation. Best-effort: a failed emit is
// logged and never fails the creation itself.
func (s *deckService) emitXP(ctx context.Context, eventType string, userID, deckID uuid.UUID) {
	event, err := events.NewXPEvent(eventType, userID, events.ActionPayload{DeckID: deckID})
	if err != nil {
		s.logger.Error("failed to build xp event",
			"error", err,
			"event_type", eventType)
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit xp event",
			"error", err,
			"event_type", eventType)
	}
}

// buildCard constructs the right card variant from the request.
func buildCard(deckID uuid.UUID, req NewCardRequest) (domain.Card, error) {
	if req.Choice {
		card, err := domain.NewChoiceCard(deckID, req.Prompt, req.Alternatives, req.CorrectAlternative)
		if err != nil {
			return nil, err
		}
		card.Tags = req.Tags
		card.Rank = req.Rank
		card.ImageURL = req.ImageURL
		card.AudioURL = req.AudioURL
		return card, card.Validate()
	}

	card, err := domain.NewOpenCard(deckID, req.Prompt, req.Answer)
	if err != nil {
		return nil, err
	}
	card.Tags = req.Tags
	card.Rank = req.Rank
	card.ImageURL = req.ImageURL
	card.AudioURL = req.AudioURL
	return card, card.Validate()
}

var _ DeckService = (*deckService)(nil)
