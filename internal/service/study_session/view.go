package study_session

import (
	"time"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/domain/study"
)

// Card kinds as exposed over the API.
const (
	CardKindOpen   = "open"
	CardKindChoice = "choice"
)

// CardView is the API-safe projection of the card currently presented.
// The answer (or the correct alternative) is withheld until the learner has
// flipped the card or made a selection, so a client cannot peek ahead.
type CardView struct {
	CardID       uuid.UUID `json:"card_id"`
	Kind         string    `json:"kind"`
	Prompt       string    `json:"prompt"`
	Tags         []string  `json:"tags,omitempty"`
	Alternatives []string  `json:"alternatives,omitempty"`

	// Populated once the card moves to awaiting-rating.
	Answer              string `json:"answer,omitempty"`
	CorrectAlternative  *int   `json:"correct_alternative,omitempty"`
	SelectedAlternative *int   `json:"selected_alternative,omitempty"`
	SelectedCorrect     *bool  `json:"selected_correct,omitempty"`

	NextReview *time.Time `json:"next_review,omitempty"`
	IntervalMs int64      `json:"interval_ms,omitempty"`
}

// SessionView is an immutable snapshot of a session's state, taken under the
// session lock. Handlers render it without touching the live session again.
type SessionView struct {
	ID       uuid.UUID      `json:"id"`
	DeckID   uuid.UUID      `json:"deck_id"`
	Phase    study.Phase    `json:"phase"`
	Index    int            `json:"index"`
	Total    int            `json:"total"`
	Counters study.Counters `json:"counters"`
	Card     *CardView      `json:"card,omitempty"`
}

// newSessionView snapshots the session. The caller must hold the session lock.
func newSessionView(s *study.Session) *SessionView {
	view := &SessionView{
		ID:       s.ID(),
		DeckID:   s.DeckID(),
		Phase:    s.Phase(),
		Index:    s.Index(),
		Total:    s.Len(),
		Counters: s.Counters(),
	}

	current, err := s.CurrentCard()
	if err != nil {
		// Finished session: no card to project.
		return view
	}

	view.Card = newCardView(s, current)
	return view
}

func newCardView(s *study.Session, current *study.StudyCard) *CardView {
	view := &CardView{
		CardID: current.Card.ID(),
		Prompt: current.Card.Prompt(),
	}

	switch card := current.Card.(type) {
	case *domain.OpenCard:
		view.Kind = CardKindOpen
		view.Tags = card.Tags
		if s.AnswerRevealed() {
			view.Answer = card.Answer
		}

	case *domain.ChoiceCard:
		view.Kind = CardKindChoice
		view.Tags = card.Tags
		view.Alternatives = card.Alternatives
		if selected, ok := s.SelectedAlternative(); ok {
			correct := card.CorrectAlternative
			isCorrect := selected == correct
			view.SelectedAlternative = &selected
			view.CorrectAlternative = &correct
			view.SelectedCorrect = &isCorrect
		}
	}

	if current.IsAnswered {
		next := current.NextReview
		view.NextReview = &next
		view.IntervalMs = current.IntervalMs
	}

	return view
}
