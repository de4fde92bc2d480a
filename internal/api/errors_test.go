package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cnovais/flashdeck-api/internal/api"
	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/domain/study"
	"github.com/cnovais/flashdeck-api/internal/service"
	"github.com/cnovais/flashdeck-api/internal/service/auth"
	"github.com/cnovais/flashdeck-api/internal/service/gamification"
	"github.com/cnovais/flashdeck-api/internal/service/study_session"
	"github.com/cnovais/flashdeck-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},

		{"foreign private deck", service.ErrNotOwned, http.StatusForbidden},
		{"study on foreign deck", study_session.ErrDeckNotOwned, http.StatusForbidden},

		{"generic not found", store.ErrNotFound, http.StatusNotFound},
		{"deck not found", store.ErrDeckNotFound, http.StatusNotFound},
		{"session not found", study_session.ErrSessionNotFound, http.StatusNotFound},
		{"unknown achievement", gamification.ErrUnknownAchievement, http.StatusNotFound},

		{"duplicate entity", store.ErrDuplicate, http.StatusConflict},
		{"email taken", service.ErrEmailTaken, http.StatusConflict},
		{"rate while presenting", study.ErrNotAwaitingRating, http.StatusConflict},
		{"reveal on choice card", study.ErrNotOpenCard, http.StatusConflict},
		{"summary before finish", study.ErrNotFinished, http.StatusConflict},

		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"invalid rating", domain.ErrInvalidRating, http.StatusBadRequest},
		{"alternative out of range", study.ErrAlternativeOutOfRange, http.StatusBadRequest},
		{"empty deck", study.ErrEmptyDeck, http.StatusBadRequest},
		{"negative xp", gamification.ErrNegativeXP, http.StatusBadRequest},

		{"unexpected error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, api.MapErrorToStatusCode(tc.err))
		})
	}

	t.Run("wrapped errors keep their mapping", func(t *testing.T) {
		t.Parallel()

		wrapped := fmt.Errorf("lookup failed: %w", store.ErrDeckNotFound)
		assert.Equal(t, http.StatusNotFound, api.MapErrorToStatusCode(wrapped))
	})
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"expired token", auth.ErrExpiredToken, "Token expired"},
		{"invalid credentials", auth.ErrInvalidCredentials, "Invalid credentials"},
		{"session not found", study_session.ErrSessionNotFound, "Study session not found"},
		{"deck not found", study_session.ErrDeckNotFound, "Deck not found"},
		{"email taken", service.ErrEmailTaken, "Email already exists"},
		{"empty deck", study.ErrEmptyDeck, "Deck has no cards to study"},
		{"not awaiting rating", study.ErrNotAwaitingRating, "Current card is not awaiting a rating"},
		{"invalid rating", domain.ErrInvalidRating, "Invalid difficulty rating"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, api.GetSafeErrorMessage(tc.err))
		})
	}

	t.Run("unexpected errors never leak their message", func(t *testing.T) {
		t.Parallel()

		err := errors.New("pq: connection to db.internal failed")
		assert.Equal(t, "An unexpected error occurred", api.GetSafeErrorMessage(err))
	})
}
