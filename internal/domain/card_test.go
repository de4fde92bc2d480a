package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnovais/flashdeck-api/internal/domain"
)

func TestNewOpenCard(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()

	t.Run("valid card", func(t *testing.T) {
		t.Parallel()

		card, err := domain.NewOpenCard(deckID, "Capital of France?", "Paris")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, card.ID())
		assert.Equal(t, deckID, card.DeckID())
		assert.Equal(t, "Capital of France?", card.Prompt())
		assert.Equal(t, "Paris", card.Answer)
	})

	t.Run("empty prompt", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewOpenCard(deckID, "", "Paris")
		assert.ErrorIs(t, err, domain.ErrCardPromptEmpty)
	})

	t.Run("empty answer", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewOpenCard(deckID, "Capital of France?", "")
		assert.ErrorIs(t, err, domain.ErrCardAnswerEmpty)
	})

	t.Run("missing deck", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewOpenCard(uuid.Nil, "Capital of France?", "Paris")
		assert.ErrorIs(t, err, domain.ErrCardDeckIDEmpty)
	})
}

func TestNewChoiceCard(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()

	t.Run("valid card", func(t *testing.T) {
		t.Parallel()

		card, err := domain.NewChoiceCard(deckID, "Pick one",
			[]string{"a", "b", "c"}, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, card.CorrectAlternative)
	})

	t.Run("alternative count limits", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewChoiceCard(deckID, "Pick one", []string{"only"}, 0)
		assert.ErrorIs(t, err, domain.ErrCardAlternativeCount)

		_, err = domain.NewChoiceCard(deckID, "Pick one",
			[]string{"a", "b", "c", "d", "e"}, 0)
		assert.ErrorIs(t, err, domain.ErrCardAlternativeCount)
	})

	t.Run("correct index out of range", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewChoiceCard(deckID, "Pick one", []string{"a", "b"}, 2)
		assert.ErrorIs(t, err, domain.ErrCardCorrectAlternative)

		_, err = domain.NewChoiceCard(deckID, "Pick one", []string{"a", "b"}, -1)
		assert.ErrorIs(t, err, domain.ErrCardCorrectAlternative)
	})

	t.Run("empty alternative text", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewChoiceCard(deckID, "Pick one", []string{"a", ""}, 0)
		assert.ErrorIs(t, err, domain.ErrCardAnswerEmpty)
	})
}

func TestCardDifficultyRank(t *testing.T) {
	t.Parallel()

	card, err := domain.NewOpenCard(uuid.New(), "Q", "A")
	require.NoError(t, err)

	for _, rank := range []int{0, 1, 5} {
		card.Rank = rank
		assert.NoError(t, card.Validate(), "rank %d should be valid", rank)
	}

	for _, rank := range []int{-1, 6} {
		card.Rank = rank
		assert.ErrorIs(t, card.Validate(), domain.ErrCardDifficultyRank)
	}
}

func TestParseDifficultyRating(t *testing.T) {
	t.Parallel()

	for _, rating := range domain.Ratings() {
		parsed, err := domain.ParseDifficultyRating(string(rating))
		require.NoError(t, err)
		assert.Equal(t, rating, parsed)
	}

	for _, input := range []string{"", "AGAIN", "medium"} {
		_, err := domain.ParseDifficultyRating(input)
		assert.ErrorIs(t, err, domain.ErrInvalidRating, "input %q", input)
	}
}

func TestReviewEventValidate(t *testing.T) {
	t.Parallel()

	valid := func() *domain.ReviewEvent {
		return &domain.ReviewEvent{
			ID:     uuid.New(),
			UserID: uuid.New(),
			DeckID: uuid.New(),
			CardID: uuid.New(),
			Rating: domain.RatingGood,
		}
	}

	assert.NoError(t, valid().Validate())

	t.Run("missing ids", func(t *testing.T) {
		t.Parallel()

		event := valid()
		event.ID = uuid.Nil
		assert.ErrorIs(t, event.Validate(), domain.ErrReviewEventIDEmpty)

		event = valid()
		event.UserID = uuid.Nil
		assert.ErrorIs(t, event.Validate(), domain.ErrEmptyUserID)
	})

	t.Run("invalid rating", func(t *testing.T) {
		t.Parallel()

		event := valid()
		event.Rating = "medium"
		assert.ErrorIs(t, event.Validate(), domain.ErrInvalidRating)
	})
}
