package study

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/domain/srs"
)

// Common errors
var (
	// ErrEmptyDeck is returned when a session is started on a deck with zero
	// cards. Fatal to starting the session; surfaced to the learner.
	ErrEmptyDeck = errors.New("deck has no cards to study")

	// ErrInvalidCard is returned when a fetched card fails validation, e.g.
	// a choice card with fewer than two alternatives. The session aborts
	// before the first card is presented.
	ErrInvalidCard = errors.New("invalid card")

	// ErrNotPresenting is returned when a reveal/select call arrives while
	// the session is not presenting a question.
	ErrNotPresenting = errors.New("session is not presenting a card")

	// ErrNotAwaitingRating is returned when Rate is called outside the
	// rating phase. This also guards against duplicate-dispatch bugs: once a
	// rating lands the phase advances, so a second Rate for the same card
	// fails here.
	ErrNotAwaitingRating = errors.New("session is not awaiting a rating")

	// ErrNotFinished is returned when a Finished-only operation (summary,
	// restart) is invoked before the deck is exhausted.
	ErrNotFinished = errors.New("session is not finished")

	// ErrNotOpenCard is returned when RevealAnswer is called on a choice card.
	ErrNotOpenCard = errors.New("current card is not an open card")

	// ErrNotChoiceCard is returned when SelectAlternative is called on an
	// open card.
	ErrNotChoiceCard = errors.New("current card is not a choice card")

	// ErrAlternativeOutOfRange is returned when the selected alternative
	// index does not exist on the current card.
	ErrAlternativeOutOfRange = errors.New("alternative index out of range")
)

// Phase identifies where a session is in its lifecycle.
type Phase string

// Session phases. Idle and Loading describe the lifecycle before a card
// snapshot exists and are reported by the orchestrating service; a Session
// itself is created directly into Presenting.
const (
	PhaseIdle           Phase = "idle"
	PhaseLoading        Phase = "loading"
	PhasePresenting     Phase = "presenting"
	PhaseAwaitingRating Phase = "awaiting_rating"
	PhaseFinished       Phase = "finished"
)

// StudyCard wraps a deck card with the session-scoped scheduling state the
// scheduler attaches as the learner rates it. StudyCards live only for the
// duration of a session; only the derived review event is ever persisted.
type StudyCard struct {
	Card       domain.Card
	IsAnswered bool
	NextReview time.Time
	IntervalMs int64
	EaseFactor float64
}

// Counters holds the per-rating tallies collected during a session.
type Counters struct {
	Again int `json:"again"`
	Hard  int `json:"hard"`
	Good  int `json:"good"`
	Easy  int `json:"easy"`
}

// Total returns the sum of all four counters.
func (c Counters) Total() int {
	return c.Again + c.Hard + c.Good + c.Easy
}

// add increments the counter for the given rating.
func (c *Counters) add(rating domain.DifficultyRating) {
	switch rating {
	case domain.RatingAgain:
		c.Again++
	case domain.RatingHard:
		c.Hard++
	case domain.RatingGood:
		c.Good++
	case domain.RatingEasy:
		c.Easy++
	}
}

// noSelection marks that no alternative has been chosen for the current card.
const noSelection = -1

// Session is the in-memory state machine that walks a learner through one
// pass over a deck's cards. It owns the current card pointer, the per-rating
// counters and the per-card scheduling metadata, and enforces the
// presenting → awaiting-rating → presenting transition rules.
//
// A Session performs no I/O. Rating a card returns the derived ReviewEvent so
// the orchestrating service can dispatch it without blocking the learner.
// Sessions are not safe for concurrent use; callers serialize access.
type Session struct {
	id     uuid.UUID
	userID uuid.UUID
	deckID uuid.UUID

	policy srs.Service
	cards  []*StudyCard

	index    int
	phase    Phase
	counters Counters

	// AwaitingRating-only transients, cleared on every advance.
	revealed        bool
	selected        int
	selectedCorrect bool

	timeFunc func() time.Time // Injectable for testing
}

// NewSession builds a session over the fetched card snapshot and enters
// Presenting at index 0. The snapshot is treated as fixed for the session:
// Restart reuses it without refetching.
//
// Returns ErrEmptyDeck for an empty snapshot and ErrInvalidCard (wrapped with
// the card id and cause) if any card fails validation, so a malformed deck
// fails fast instead of surprising the learner mid-session.
func NewSession(
	userID, deckID uuid.UUID,
	cards []domain.Card,
	policy srs.Service,
) (*Session, error) {
	if policy == nil {
		panic("policy cannot be nil")
	}

	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}

	studyCards := make([]*StudyCard, 0, len(cards))
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return nil, fmt.Errorf("%w: card %s: %v", ErrInvalidCard, card.ID(), err)
		}
		studyCards = append(studyCards, &StudyCard{
			Card:       card,
			EaseFactor: policy.InitialEaseFactor(),
		})
	}

	return &Session{
		id:       uuid.New(),
		userID:   userID,
		deckID:   deckID,
		policy:   policy,
		cards:    studyCards,
		index:    0,
		phase:    PhasePresenting,
		selected: noSelection,
		timeFunc: time.Now,
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// UserID returns the learner the session belongs to.
func (s *Session) UserID() uuid.UUID { return s.userID }

// DeckID returns the deck being studied.
func (s *Session) DeckID() uuid.UUID { return s.deckID }

// Phase returns the session's current phase.
func (s *Session) Phase() Phase { return s.phase }

// Index returns the 0-based position of the current card. It increases
// monotonically and equals Len when the session is finished.
func (s *Session) Index() int { return s.index }

// Len returns the number of cards in the session's snapshot.
func (s *Session) Len() int { return len(s.cards) }

// Counters returns a copy of the per-rating tallies collected so far.
func (s *Session) Counters() Counters { return s.counters }

// Finished reports whether every card has been rated.
func (s *Session) Finished() bool { return s.phase == PhaseFinished }

// CurrentCard returns the card currently presented to the learner.
func (s *Session) CurrentCard() (*StudyCard, error) {
	if s.phase != PhasePresenting && s.phase != PhaseAwaitingRating {
		return nil, ErrNotPresenting
	}
	return s.cards[s.index], nil
}

// RevealAnswer moves an open card from Presenting to AwaitingRating. It has
// no effect on counters; the learner rates their recall in the next step.
func (s *Session) RevealAnswer() error {
	if s.phase != PhasePresenting {
		return ErrNotPresenting
	}

	if _, ok := s.cards[s.index].Card.(*domain.OpenCard); !ok {
		return ErrNotOpenCard
	}

	s.revealed = true
	s.phase = PhaseAwaitingRating
	return nil
}

// SelectAlternative moves a choice card from Presenting to AwaitingRating,
// recording whether the chosen alternative is the correct one. The
// correctness flag feeds only the review event; the difficulty rating is
// still chosen explicitly by the learner in the next step.
func (s *Session) SelectAlternative(index int) (bool, error) {
	if s.phase != PhasePresenting {
		return false, ErrNotPresenting
	}

	choice, ok := s.cards[s.index].Card.(*domain.ChoiceCard)
	if !ok {
		return false, ErrNotChoiceCard
	}

	if index < 0 || index >= len(choice.Alternatives) {
		return false, ErrAlternativeOutOfRange
	}

	s.selected = index
	s.selectedCorrect = index == choice.CorrectAlternative
	s.phase = PhaseAwaitingRating
	return s.selectedCorrect, nil
}

// AnswerRevealed reports whether the current open card has been flipped.
func (s *Session) AnswerRevealed() bool { return s.revealed }

// SelectedAlternative returns the alternative picked on the current choice
// card and whether one has been picked at all.
func (s *Session) SelectedAlternative() (int, bool) {
	if s.selected == noSelection {
		return 0, false
	}
	return s.selected, true
}

// Rate records the learner's difficulty rating for the current card. The
// whole transition is synchronous and atomic from the caller's point of view:
// the counter increment, the scheduling metadata, the index advance and the
// phase change all land before Rate returns. The derived ReviewEvent is
// returned for the caller to dispatch asynchronously; its delivery never
// blocks or fails the session.
func (s *Session) Rate(rating domain.DifficultyRating) (*domain.ReviewEvent, error) {
	if s.phase != PhaseAwaitingRating {
		return nil, ErrNotAwaitingRating
	}

	if !rating.IsValid() {
		return nil, domain.ErrInvalidRating
	}

	now := s.timeFunc().UTC()
	card := s.cards[s.index]

	interval, err := s.policy.IntervalFor(rating)
	if err != nil {
		return nil, err
	}

	nextReview := now.Add(interval)

	card.IsAnswered = true
	card.IntervalMs = interval.Milliseconds()
	card.NextReview = nextReview

	s.counters.add(rating)

	event := &domain.ReviewEvent{
		ID:               uuid.New(),
		UserID:           s.userID,
		DeckID:           s.deckID,
		CardID:           card.Card.ID(),
		Rating:           rating,
		IsCorrect:        s.wasCorrect(rating),
		StudyTimeSeconds: domain.DefaultStudyTimeSeconds,
		EaseFactor:       card.EaseFactor,
		IntervalMs:       card.IntervalMs,
		NextReviewAt:     nextReview,
		CreatedAt:        now,
	}

	// Advance, clearing the AwaitingRating-only transients.
	s.index++
	s.revealed = false
	s.selected = noSelection
	s.selectedCorrect = false

	if s.index == len(s.cards) {
		s.phase = PhaseFinished
	} else {
		s.phase = PhasePresenting
	}

	return event, nil
}

// wasCorrect derives the review event's correctness flag. Choice cards use
// the recorded selection; open cards have no selectable answer, so a
// remembered rating (good or easy) counts as correct.
func (s *Session) wasCorrect(rating domain.DifficultyRating) bool {
	if _, ok := s.cards[s.index].Card.(*domain.ChoiceCard); ok {
		return s.selectedCorrect
	}
	return rating == domain.RatingGood || rating == domain.RatingEasy
}

// Restart re-enters Presenting at index 0 with all counters reset. It reuses
// the session's card snapshot, so no fetch (and no network failure) is
// possible on restart. Only valid from Finished.
func (s *Session) Restart() error {
	if s.phase != PhaseFinished {
		return ErrNotFinished
	}

	for _, card := range s.cards {
		card.IsAnswered = false
		card.NextReview = time.Time{}
		card.IntervalMs = 0
	}

	s.index = 0
	s.counters = Counters{}
	s.revealed = false
	s.selected = noSelection
	s.selectedCorrect = false
	s.phase = PhasePresenting
	return nil
}

// Summary aggregates the session's counters once the deck is exhausted.
// Returns ErrNotFinished before that.
func (s *Session) Summary(awards XPAwards) (*SessionSummary, error) {
	if s.phase != PhaseFinished {
		return nil, ErrNotFinished
	}

	summary := Summarize(s.counters, awards)
	return &summary, nil
}
