package study_session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/domain/srs"
	"github.com/cnovais/flashdeck-api/internal/domain/study"
	"github.com/cnovais/flashdeck-api/internal/events"
	"github.com/cnovais/flashdeck-api/internal/service/study_session"
	"github.com/cnovais/flashdeck-api/internal/store"
	"github.com/cnovais/flashdeck-api/internal/task"
)

// fakeDeckStore serves decks from a map.
type fakeDeckStore struct {
	decks map[uuid.UUID]*domain.Deck
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
	delete(f.decks, id)
	return nil
}

// fakeCardStore serves a fixed per-deck card list.
type fakeCardStore struct {
	cards map[uuid.UUID][]domain.Card
}

func (f *fakeCardStore) Create(_ context.Context, card domain.Card) error {
	f.cards[card.DeckID()] = append(f.cards[card.DeckID()], card)
	return nil
}

func (f *fakeCardStore) GetByID(_ context.Context, id uuid.UUID) (domain.Card, error) {
	for _, cards := range f.cards {
		for _, card := range cards {
			if card.ID() == id {
				return card, nil
			}
		}
	}
	return nil, store.ErrCardNotFound
}

func (f *fakeCardStore) GetByDeck(_ context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	return f.cards[deckID], nil
}

func (f *fakeCardStore) Delete(_ context.Context, _ uuid.UUID) error {
	return nil
}

// fakeReviewStore records upserted review events.
type fakeReviewStore struct {
	mu     sync.Mutex
	events []*domain.ReviewEvent
}

func (f *fakeReviewStore) Upsert(_ context.Context, event *domain.ReviewEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.events {
		if existing.ID == event.ID {
			return nil
		}
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeReviewStore) GetByUser(
	_ context.Context,
	userID uuid.UUID,
	_ int,
) ([]*domain.ReviewEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*domain.ReviewEvent
	for _, event := range f.events {
		if event.UserID == userID {
			result = append(result, event)
		}
	}
	return result, nil
}

// inlineSubmitter runs submitted tasks synchronously.
type inlineSubmitter struct{}

func (inlineSubmitter) Submit(t task.Task) error {
	return t.Execute(context.Background())
}

// recordingEmitter captures emitted XP events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.XPEvent
}

func (r *recordingEmitter) EmitEvent(_ context.Context, event *events.XPEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

type fixture struct {
	service study_session.StudySessionService
	decks   *fakeDeckStore
	cards   *fakeCardStore
	reviews *fakeReviewStore
	emitter *recordingEmitter

	userID uuid.UUID
	deckID uuid.UUID
}

// newFixture builds a service over one deck with an open card followed by a
// two-alternative choice card.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	userID := uuid.New()

	deck, err := domain.NewDeck(userID, "Geography", "", false)
	require.NoError(t, err)

	open, err := domain.NewOpenCard(deck.ID, "Capital of France?", "Paris")
	require.NoError(t, err)
	choice, err := domain.NewChoiceCard(deck.ID, "Capital of Italy?", []string{"Rome", "Milan"}, 0)
	require.NoError(t, err)

	decks := &fakeDeckStore{decks: map[uuid.UUID]*domain.Deck{deck.ID: deck}}
	cards := &fakeCardStore{cards: map[uuid.UUID][]domain.Card{
		deck.ID: {open, choice},
	}}
	reviews := &fakeReviewStore{}
	emitter := &recordingEmitter{}

	service := study_session.NewStudySessionService(
		decks,
		cards,
		reviews,
		srs.NewDefaultService(),
		inlineSubmitter{},
		emitter,
		nil,
	)

	return &fixture{
		service: service,
		decks:   decks,
		cards:   cards,
		reviews: reviews,
		emitter: emitter,
		userID:  userID,
		deckID:  deck.ID,
	}
}

func TestStartSession(t *testing.T) {
	t.Parallel()

	t.Run("presents the first card", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		view, err := f.service.StartSession(context.Background(), f.userID, f.deckID)
		require.NoError(t, err)

		assert.Equal(t, study.PhasePresenting, view.Phase)
		assert.Equal(t, 0, view.Index)
		assert.Equal(t, 2, view.Total)
		require.NotNil(t, view.Card)
		assert.Equal(t, study_session.CardKindOpen, view.Card.Kind)
		assert.Empty(t, view.Card.Answer, "answer must be withheld until revealed")
	})

	t.Run("unknown deck", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.service.StartSession(context.Background(), f.userID, uuid.New())
		assert.ErrorIs(t, err, study_session.ErrDeckNotFound)
	})

	t.Run("another user's private deck", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.service.StartSession(context.Background(), uuid.New(), f.deckID)
		assert.ErrorIs(t, err, study_session.ErrDeckNotOwned)
	})

	t.Run("another user's public deck is allowed", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.decks.decks[f.deckID].Public = true

		view, err := f.service.StartSession(context.Background(), uuid.New(), f.deckID)
		require.NoError(t, err)
		assert.Equal(t, study.PhasePresenting, view.Phase)
	})

	t.Run("empty deck", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		empty, err := domain.NewDeck(f.userID, "Empty", "", false)
		require.NoError(t, err)
		f.decks.decks[empty.ID] = empty

		_, err = f.service.StartSession(context.Background(), f.userID, empty.ID)
		assert.ErrorIs(t, err, study.ErrEmptyDeck)
	})
}

func TestSessionLookup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	view, err := f.service.StartSession(context.Background(), f.userID, f.deckID)
	require.NoError(t, err)

	t.Run("owner can fetch the session", func(t *testing.T) {
		got, err := f.service.GetSession(context.Background(), f.userID, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.service.GetSession(context.Background(), f.userID, uuid.New())
		assert.ErrorIs(t, err, study_session.ErrSessionNotFound)
	})

	t.Run("another user's session reads as not found", func(t *testing.T) {
		_, err := f.service.GetSession(context.Background(), uuid.New(), view.ID)
		assert.ErrorIs(t, err, study_session.ErrSessionNotFound)
	})
}

func TestStudyFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	view, err := f.service.StartSession(ctx, f.userID, f.deckID)
	require.NoError(t, err)
	sessionID := view.ID

	// Open card: reveal, then rate good.
	view, err = f.service.RevealAnswer(ctx, f.userID, sessionID)
	require.NoError(t, err)
	require.NotNil(t, view.Card)
	assert.Equal(t, "Paris", view.Card.Answer)

	view, err = f.service.RateCard(ctx, f.userID, sessionID, domain.RatingGood)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Index)
	assert.Equal(t, study.PhasePresenting, view.Phase)

	// Choice card: pick the wrong alternative, rate again.
	view, err = f.service.SelectAlternative(ctx, f.userID, sessionID, 1)
	require.NoError(t, err)
	require.NotNil(t, view.Card.SelectedCorrect)
	assert.False(t, *view.Card.SelectedCorrect)

	view, err = f.service.RateCard(ctx, f.userID, sessionID, domain.RatingAgain)
	require.NoError(t, err)
	assert.Equal(t, study.PhaseFinished, view.Phase)
	assert.Nil(t, view.Card)

	// Both review events were persisted through the submitter.
	reviews, err := f.reviews.GetByUser(ctx, f.userID, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.True(t, reviews[0].IsCorrect)
	assert.False(t, reviews[1].IsCorrect)

	// Finishing emitted exactly one session-completed XP event.
	f.emitter.mu.Lock()
	emitted := append([]*events.XPEvent(nil), f.emitter.events...)
	f.emitter.mu.Unlock()
	require.Len(t, emitted, 1)
	assert.Equal(t, events.EventSessionCompleted, emitted[0].Type)
	assert.Equal(t, f.userID, emitted[0].UserID)

	var payload events.SessionCompletedPayload
	require.NoError(t, emitted[0].UnmarshalPayload(&payload))
	assert.Equal(t, sessionID, payload.SessionID)
	assert.Equal(t, 2, payload.Total)
	assert.Equal(t, 5, payload.XPAwarded, "good earns 5, again earns 0")

	// Summary is available once finished.
	summary, err := f.service.SessionSummary(ctx, f.userID, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 50, summary.RememberedPercent)

	// Restart re-enters the first card with counters cleared.
	view, err = f.service.RestartSession(ctx, f.userID, sessionID)
	require.NoError(t, err)
	assert.Equal(t, study.PhasePresenting, view.Phase)
	assert.Equal(t, 0, view.Index)
	assert.Equal(t, study.Counters{}, view.Counters)
}

func TestPhaseGuards(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	view, err := f.service.StartSession(ctx, f.userID, f.deckID)
	require.NoError(t, err)
	sessionID := view.ID

	t.Run("rate while presenting", func(t *testing.T) {
		_, err := f.service.RateCard(ctx, f.userID, sessionID, domain.RatingGood)
		assert.ErrorIs(t, err, study.ErrNotAwaitingRating)
	})

	t.Run("select on an open card", func(t *testing.T) {
		_, err := f.service.SelectAlternative(ctx, f.userID, sessionID, 0)
		assert.ErrorIs(t, err, study.ErrNotChoiceCard)
	})

	t.Run("summary before finishing", func(t *testing.T) {
		_, err := f.service.SessionSummary(ctx, f.userID, sessionID)
		assert.ErrorIs(t, err, study.ErrNotFinished)
	})
}

func TestAbandonSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	view, err := f.service.StartSession(ctx, f.userID, f.deckID)
	require.NoError(t, err)

	t.Run("another user's abandon leaves the session alone", func(t *testing.T) {
		require.NoError(t, f.service.AbandonSession(ctx, uuid.New(), view.ID))

		_, err := f.service.GetSession(ctx, f.userID, view.ID)
		assert.NoError(t, err)
	})

	t.Run("owner abandon removes the session", func(t *testing.T) {
		require.NoError(t, f.service.AbandonSession(ctx, f.userID, view.ID))

		_, err := f.service.GetSession(ctx, f.userID, view.ID)
		assert.ErrorIs(t, err, study_session.ErrSessionNotFound)

		// Abandoning an already-removed session is a no-op.
		assert.NoError(t, f.service.AbandonSession(ctx, f.userID, view.ID))
	})
}
