package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// CreateDeckRequest defines the payload for deck creation.
type CreateDeckRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Public      bool   `json:"public"`
}

// CreateCardRequest defines the payload for card creation. Open cards carry
// an answer; choice cards carry alternatives and the index of the correct one.
type CreateCardRequest struct {
	Prompt             string   `json:"prompt" validate:"required"`
	Answer             string   `json:"answer,omitempty"`
	Alternatives       []string `json:"alternatives,omitempty"`
	CorrectAlternative int      `json:"correct_alternative,omitempty"`
	Choice             bool     `json:"choice"`
	Tags               []string `json:"tags,omitempty"`
	DifficultyRank     int      `json:"difficulty_rank,omitempty" validate:"min=0,max=5"`
	ImageURL           string   `json:"image_url,omitempty"`
	AudioURL           string   `json:"audio_url,omitempty"`
}

// StartSessionRequest defines the payload for starting a study session.
type StartSessionRequest struct {
	DeckID uuid.UUID `json:"deck_id" validate:"required"`
}

// SelectAlternativeRequest defines the payload for picking an alternative on
// a choice card.
type SelectAlternativeRequest struct {
	Alternative int `json:"alternative" validate:"min=0"`
}

// RateCardRequest defines the payload for rating the current card.
type RateCardRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again hard good easy"`
}

// LogReviewRequest defines the payload for direct review-event logging,
// used by clients that ran the review flow locally (e.g. offline study).
type LogReviewRequest struct {
	ID               uuid.UUID `json:"id"                validate:"required"`
	DeckID           uuid.UUID `json:"deck_id"           validate:"required"`
	CardID           uuid.UUID `json:"card_id"           validate:"required"`
	Rating           string    `json:"rating"            validate:"required,oneof=again hard good easy"`
	IsCorrect        bool      `json:"is_correct"`
	StudyTimeSeconds int       `json:"study_time_seconds" validate:"min=0"`
	EaseFactor       float64   `json:"ease_factor"`
	IntervalMs       int64     `json:"interval_ms"        validate:"min=0"`
	NextReviewAt     time.Time `json:"next_review_at"`
	CreatedAt        time.Time `json:"created_at"`
}

// UpdateStreakRequest defines the payload for replacing the study streak.
type UpdateStreakRequest struct {
	Days int `json:"days" validate:"min=0"`
}

// ActionReportRequest defines the payload for reporting an XP-granting
// action performed outside this API.
type ActionReportRequest struct {
	DeckID uuid.UUID `json:"deck_id"`
}

// GamificationStatsResponse summarizes the user's progression.
type GamificationStatsResponse struct {
	XP            int `json:"xp"`
	Level         int `json:"level"`
	XPToNextLevel int `json:"xp_to_next_level"`
	Streak        int `json:"streak"`
}

// AchievementsResponse lists the user's achievements with unlock state.
type AchievementsResponse struct {
	Achievements []domain.Achievement `json:"achievements"`
}

// DeckResponse represents a deck in API responses.
type DeckResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Public      bool      `json:"public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDeckResponse maps a domain deck to its API representation.
func NewDeckResponse(deck *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          deck.ID,
		Name:        deck.Name,
		Description: deck.Description,
		Public:      deck.Public,
		CreatedAt:   deck.CreatedAt,
		UpdatedAt:   deck.UpdatedAt,
	}
}

// CardResponse represents a card in API responses. Choice-card fields are
// omitted for open cards and vice versa.
type CardResponse struct {
	ID                 uuid.UUID `json:"id"`
	DeckID             uuid.UUID `json:"deck_id"`
	Kind               string    `json:"kind"`
	Prompt             string    `json:"prompt"`
	Answer             string    `json:"answer,omitempty"`
	Alternatives       []string  `json:"alternatives,omitempty"`
	CorrectAlternative *int      `json:"correct_alternative,omitempty"`
	Tags               []string  `json:"tags,omitempty"`
	DifficultyRank     int       `json:"difficulty_rank,omitempty"`
	ImageURL           string    `json:"image_url,omitempty"`
	AudioURL           string    `json:"audio_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewCardResponse maps a domain card to its API representation.
func NewCardResponse(card domain.Card) CardResponse {
	switch c := card.(type) {
	case *domain.OpenCard:
		return CardResponse{
			ID:             c.CardID,
			DeckID:         c.Deck,
			Kind:           "open",
			Prompt:         c.Question,
			Answer:         c.Answer,
			Tags:           c.Tags,
			DifficultyRank: c.Rank,
			ImageURL:       c.ImageURL,
			AudioURL:       c.AudioURL,
			CreatedAt:      c.CreatedAt,
			UpdatedAt:      c.UpdatedAt,
		}
	case *domain.ChoiceCard:
		correct := c.CorrectAlternative
		return CardResponse{
			ID:                 c.CardID,
			DeckID:             c.Deck,
			Kind:               "choice",
			Prompt:             c.Question,
			Alternatives:       c.Alternatives,
			CorrectAlternative: &correct,
			Tags:               c.Tags,
			DifficultyRank:     c.Rank,
			ImageURL:           c.ImageURL,
			AudioURL:           c.AudioURL,
			CreatedAt:          c.CreatedAt,
			UpdatedAt:          c.UpdatedAt,
		}
	default:
		return CardResponse{ID: card.ID(), DeckID: card.DeckID(), Prompt: card.Prompt()}
	}
}

// ReviewEventResponse represents a logged review event.
type ReviewEventResponse struct {
	ID               uuid.UUID `json:"id"`
	DeckID           uuid.UUID `json:"deck_id"`
	CardID           uuid.UUID `json:"card_id"`
	Rating           string    `json:"rating"`
	IsCorrect        bool      `json:"is_correct"`
	StudyTimeSeconds int       `json:"study_time_seconds"`
	EaseFactor       float64   `json:"ease_factor"`
	IntervalMs       int64     `json:"interval_ms"`
	NextReviewAt     time.Time `json:"next_review_at"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewReviewEventResponse maps a domain review event to its API representation.
func NewReviewEventResponse(event *domain.ReviewEvent) ReviewEventResponse {
	return ReviewEventResponse{
		ID:               event.ID,
		DeckID:           event.DeckID,
		CardID:           event.CardID,
		Rating:           string(event.Rating),
		IsCorrect:        event.IsCorrect,
		StudyTimeSeconds: event.StudyTimeSeconds,
		EaseFactor:       event.EaseFactor,
		IntervalMs:       event.IntervalMs,
		NextReviewAt:     event.NextReviewAt,
		CreatedAt:        event.CreatedAt,
	}
}
