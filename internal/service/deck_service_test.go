package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/events"
	"github.com/cnovais/flashdeck-api/internal/service"
	"github.com/cnovais/flashdeck-api/internal/store"
)

// fakeDeckStore is an in-memory DeckStore.
type fakeDeckStore struct {
	decks map[uuid.UUID]*domain.Deck
}

func newFakeDeckStore() *fakeDeckStore {
	return &fakeDeckStore{decks: make(map[uuid.UUID]*domain.Deck)}
}

func (f *fakeDeckStore) Create(_ context.Context, deck *domain.Deck) error {
	f.decks[deck.ID] = deck
	return nil
}

func (f *fakeDeckStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Deck, error) {
	deck, ok := f.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (f *fakeDeckStore) GetByUser(_ context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	var decks []*domain.Deck
	for _, deck := range f.decks {
		if deck.UserID == userID {
			decks = append(decks, deck)
		}
	}
	return decks, nil
}

func (f *fakeDeckStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.decks[id]; !ok {
		return store.ErrDeckNotFound
	}
	delete(f.decks, id)
	return nil
}

// fakeCardStore is an in-memory CardStore.
type fakeCardStore struct {
	cards map[uuid.UUID]domain.Card
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]domain.Card)}
}

func (f *fakeCardStore) Create(_ context.Context, card domain.Card) error {
	f.cards[card.ID()] = card
	return nil
}

func (f *fakeCardStore) GetByID(_ context.Context, id uuid.UUID) (domain.Card, error) {
	card, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (f *fakeCardStore) GetByDeck(_ context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	var cards []domain.Card
	for _, card := range f.cards {
		if card.DeckID() == deckID {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

func (f *fakeCardStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(f.cards, id)
	return nil
}

// captureEmitter records emitted XP events.
type captureEmitter struct {
	mu     sync.Mutex
	events []*events.XPEvent
}

func (c *captureEmitter) EmitEvent(_ context.Context, event *events.XPEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *captureEmitter) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]string, 0, len(c.events))
	for _, event := range c.events {
		types = append(types, event.Type)
	}
	return types
}

type deckFixture struct {
	service service.DeckService
	decks   *fakeDeckStore
	cards   *fakeCardStore
	emitter *captureEmitter
	userID  uuid.UUID
}

func newDeckFixture(t *testing.T) *deckFixture {
	t.Helper()

	decks := newFakeDeckStore()
	cards := newFakeCardStore()
	emitter := &captureEmitter{}

	return &deckFixture{
		service: service.NewDeckService(decks, cards, emitter, testLogger()),
		decks:   decks,
		cards:   cards,
		emitter: emitter,
		userID:  uuid.New(),
	}
}

func TestCreateDeck(t *testing.T) {
	t.Parallel()

	t.Run("creates and emits the deck created event", func(t *testing.T) {
		t.Parallel()

		f := newDeckFixture(t)
		deck, err := f.service.CreateDeck(context.Background(), f.userID, "Spanish", "Vocabulary", false)
		require.NoError(t, err)

		assert.Equal(t, f.userID, deck.UserID)
		assert.Equal(t, "Spanish", deck.Name)
		assert.Equal(t, []string{events.EventDeckCreated}, f.emitter.types())
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		t.Parallel()

		f := newDeckFixture(t)
		_, err := f.service.CreateDeck(context.Background(), f.userID, "", "", false)
		assert.ErrorIs(t, err, domain.ErrDeckNameEmpty)
		assert.Empty(t, f.emitter.types())
	})
}

func TestGetDeck(t *testing.T) {
	t.Parallel()

	f := newDeckFixture(t)
	private, err := f.service.CreateDeck(context.Background(), f.userID, "Private", "", false)
	require.NoError(t, err)
	public, err := f.service.CreateDeck(context.Background(), f.userID, "Public", "", true)
	require.NoError(t, err)

	t.Run("owner reads a private deck", func(t *testing.T) {
		deck, err := f.service.GetDeck(context.Background(), f.userID, private.ID)
		require.NoError(t, err)
		assert.Equal(t, private.ID, deck.ID)
	})

	t.Run("stranger reads a public deck", func(t *testing.T) {
		deck, err := f.service.GetDeck(context.Background(), uuid.New(), public.ID)
		require.NoError(t, err)
		assert.Equal(t, public.ID, deck.ID)
	})

	t.Run("stranger cannot read a private deck", func(t *testing.T) {
		_, err := f.service.GetDeck(context.Background(), uuid.New(), private.ID)
		assert.ErrorIs(t, err, service.ErrNotOwned)
	})

	t.Run("unknown deck", func(t *testing.T) {
		_, err := f.service.GetDeck(context.Background(), f.userID, uuid.New())
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})
}

func TestCreateCard(t *testing.T) {
	t.Parallel()

	t.Run("creates an open card", func(t *testing.T) {
		t.Parallel()

		f := newDeckFixture(t)
		deck, err := f.service.CreateDeck(context.Background(), f.userID, "Spanish", "", false)
		require.NoError(t, err)

		card, err := f.service.CreateCard(context.Background(), f.userID, deck.ID, service.NewCardRequest{
			Prompt: "hello",
			Answer: "hola",
			Tags:   []string{"greetings"},
			Rank:   2,
		})
		require.NoError(t, err)

		open, ok := card.(*domain.OpenCard)
		require.True(t, ok)
		assert.Equal(t, "hola", open.Answer)
		assert.Equal(t, []string{"greetings"}, open.Tags)
		assert.Equal(t, 2, open.Rank)
		assert.Contains(t, f.emitter.types(), events.EventCardCreated)
	})

	t.Run("creates a choice card", func(t *testing.T) {
		t.Parallel()

		f := newDeckFixture(t)
		deck, err := f.service.CreateDeck(context.Background(), f.userID, "Spanish", "", false)
		require.NoError(t, err)

		card, err := f.service.CreateCard(context.Background(), f.userID, deck.ID, service.NewCardRequest{
			Prompt:             "goodbye",
			Alternatives:       []string{"adiós", "hola"},
			CorrectAlternative: 0,
			Choice:             true,
		})
		require.NoError(t, err)

		choice, ok := card.(*domain.ChoiceCard)
		require.True(t, ok)
		assert.Equal(t, []string{"adiós", "hola"}, choice.Alternatives)
		assert.Equal(t, 0, choice.CorrectAlternative)
	})

	t.Run("rejects a choice card with one alternative", func(t *testing.T) {
		t.Parallel()

		f := newDeckFixture(t)
		deck, err := f.service.CreateDeck(context.Background(), f.userID, "Spanish", "", false)
		require.NoError(t, err)

		_, err = f.service.CreateCard(context.Background(), f.userID, deck.ID, service.NewCardRequest{
			Prompt:       "goodbye",
			Alternatives: []string{"adiós"},
			Choice:       true,
		})
		assert.ErrorIs(t, err, domain.ErrCardAlternativeCount)
	})

	t.Run("stranger cannot add cards", func(t *testing.T) {
		t.Parallel()

		f := newDeckFixture(t)
		deck, err := f.service.CreateDeck(context.Background(), f.userID, "Spanish", "", true)
		require.NoError(t, err)

		_, err = f.service.CreateCard(context.Background(), uuid.New(), deck.ID, service.NewCardRequest{
			Prompt: "hello",
			Answer: "hola",
		})
		assert.ErrorIs(t, err, service.ErrNotOwned)
	})
}

func TestDeleteDeckAndCard(t *testing.T) {
	t.Parallel()

	f := newDeckFixture(t)
	ctx := context.Background()

	deck, err := f.service.CreateDeck(ctx, f.userID, "Spanish", "", false)
	require.NoError(t, err)
	card, err := f.service.CreateCard(ctx, f.userID, deck.ID, service.NewCardRequest{
		Prompt: "hello",
		Answer: "hola",
	})
	require.NoError(t, err)

	t.Run("stranger cannot delete", func(t *testing.T) {
		assert.ErrorIs(t, f.service.DeleteCard(ctx, uuid.New(), card.ID()), service.ErrNotOwned)
		assert.ErrorIs(t, f.service.DeleteDeck(ctx, uuid.New(), deck.ID), service.ErrNotOwned)
	})

	t.Run("owner deletes card then deck", func(t *testing.T) {
		require.NoError(t, f.service.DeleteCard(ctx, f.userID, card.ID()))
		assert.ErrorIs(t, f.service.DeleteCard(ctx, f.userID, card.ID()), store.ErrCardNotFound)

		require.NoError(t, f.service.DeleteDeck(ctx, f.userID, deck.ID))
		_, err := f.service.GetDeck(ctx, f.userID, deck.ID)
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})
}
