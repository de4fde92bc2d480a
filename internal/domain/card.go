package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardPromptEmpty is returned when a card's prompt is empty.
	ErrCardPromptEmpty = errors.New("card prompt cannot be empty")

	// ErrCardAnswerEmpty is returned when an open card's answer is empty.
	ErrCardAnswerEmpty = errors.New("card answer cannot be empty")

	// ErrCardAlternativeCount is returned when a choice card does not have
	// between 2 and 4 alternatives.
	ErrCardAlternativeCount = errors.New("choice card must have between 2 and 4 alternatives")

	// ErrCardCorrectAlternative is returned when a choice card's correct
	// alternative index is out of range.
	ErrCardCorrectAlternative = errors.New("correct alternative index out of range")

	// ErrCardDifficultyRank is returned when a card's human-assigned
	// difficulty rank is outside 1-5 (0 means unranked).
	ErrCardDifficultyRank = errors.New("card difficulty rank must be between 1 and 5")
)

// Alternative count limits for choice cards.
const (
	MinAlternatives = 2
	MaxAlternatives = 4
)

// Card is the tagged union of the two card forms: an OpenCard with a
// free-form answer the learner reveals, and a ChoiceCard with a closed set of
// alternatives, one of which is correct. Modeling the two forms as distinct
// types makes "alternatives present iff the card is a choice card" a
// compile-time invariant rather than a runtime convention.
//
// The interface is sealed: only OpenCard and ChoiceCard implement it.
type Card interface {
	// ID returns the card's unique identifier.
	ID() uuid.UUID

	// DeckID returns the identifier of the deck owning this card.
	DeckID() uuid.UUID

	// Prompt returns the question text shown to the learner.
	Prompt() string

	// Validate checks the card's data and returns an error if invalid.
	Validate() error

	sealedCard()
}

// CardBase holds the fields shared by both card forms. It is embedded by
// OpenCard and ChoiceCard and is not a Card itself.
type CardBase struct {
	CardID    uuid.UUID `json:"id"`
	Deck      uuid.UUID `json:"deck_id"`
	Question  string    `json:"prompt"`
	Tags      []string  `json:"tags,omitempty"`
	Rank      int       `json:"difficulty_rank,omitempty"` // human-assigned 1-5, 0 when unranked
	ImageURL  string    `json:"image_url,omitempty"`
	AudioURL  string    `json:"audio_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ID returns the card's unique identifier.
func (b *CardBase) ID() uuid.UUID { return b.CardID }

// DeckID returns the identifier of the deck owning this card.
func (b *CardBase) DeckID() uuid.UUID { return b.Deck }

// Prompt returns the question text shown to the learner.
func (b *CardBase) Prompt() string { return b.Question }

func (b *CardBase) sealedCard() {}

// validate checks the shared card fields.
func (b *CardBase) validate() error {
	if b.CardID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if b.Deck == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if b.Question == "" {
		return ErrCardPromptEmpty
	}

	if b.Rank < 0 || b.Rank > 5 {
		return ErrCardDifficultyRank
	}

	return nil
}

// OpenCard is a question/answer card. The learner sees the prompt, recalls,
// then reveals the answer before rating their recall.
type OpenCard struct {
	CardBase
	Answer string `json:"answer"`
}

// NewOpenCard creates a new open-answer card for the given deck.
// Returns an error if validation fails.
func NewOpenCard(deckID uuid.UUID, prompt, answer string) (*OpenCard, error) {
	now := time.Now().UTC()
	card := &OpenCard{
		CardBase: CardBase{
			CardID:    uuid.New(),
			Deck:      deckID,
			Question:  prompt,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Answer: answer,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the OpenCard has valid data.
func (c *OpenCard) Validate() error {
	if err := c.validate(); err != nil {
		return err
	}

	if c.Answer == "" {
		return ErrCardAnswerEmpty
	}

	return nil
}

// ChoiceCard is a multiple-choice card with 2-4 alternatives, exactly one of
// which is marked correct.
type ChoiceCard struct {
	CardBase
	Alternatives       []string `json:"alternatives"`
	CorrectAlternative int      `json:"correct_alternative"`
}

// NewChoiceCard creates a new multiple-choice card for the given deck.
// Returns an error if validation fails.
func NewChoiceCard(
	deckID uuid.UUID,
	prompt string,
	alternatives []string,
	correct int,
) (*ChoiceCard, error) {
	now := time.Now().UTC()
	card := &ChoiceCard{
		CardBase: CardBase{
			CardID:    uuid.New(),
			Deck:      deckID,
			Question:  prompt,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Alternatives:       alternatives,
		CorrectAlternative: correct,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the ChoiceCard has valid data.
func (c *ChoiceCard) Validate() error {
	if err := c.validate(); err != nil {
		return err
	}

	if len(c.Alternatives) < MinAlternatives || len(c.Alternatives) > MaxAlternatives {
		return ErrCardAlternativeCount
	}

	if c.CorrectAlternative < 0 || c.CorrectAlternative >= len(c.Alternatives) {
		return ErrCardCorrectAlternative
	}

	for _, alt := range c.Alternatives {
		if alt == "" {
			return ErrCardAnswerEmpty
		}
	}

	return nil
}

// Compile-time checks that both card forms implement Card.
var (
	_ Card = (*OpenCard)(nil)
	_ Card = (*ChoiceCard)(nil)
)
