package api

import (
	"errors"
	"net/http"

	"github.com/cnovais/flashdeck-api/internal/api/shared"
	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/domain/study"
	"github.com/cnovais/flashdeck-api/internal/service"
	"github.com/cnovais/flashdeck-api/internal/service/auth"
	"github.com/cnovais/flashdeck-api/internal/service/gamification"
	"github.com/cnovais/flashdeck-api/internal/service/study_session"
	"github.com/cnovais/flashdeck-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, study_session.ErrDeckNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, study_session.ErrSessionNotFound),
		errors.Is(err, study_session.ErrDeckNotFound),
		errors.Is(err, gamification.ErrUnknownAchievement):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict

	// Out-of-phase session operations
	case errors.Is(err, study.ErrNotPresenting),
		errors.Is(err, study.ErrNotAwaitingRating),
		errors.Is(err, study.ErrNotFinished),
		errors.Is(err, study.ErrNotOpenCard),
		errors.Is(err, study.ErrNotChoiceCard):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, study.ErrAlternativeOutOfRange),
		errors.Is(err, study.ErrEmptyDeck),
		errors.Is(err, study.ErrInvalidCard),
		errors.Is(err, gamification.ErrNegativeXP),
		errors.Is(err, gamification.ErrNegativeStreak):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. Expected errors surface their own message; anything
// unexpected gets a generic one so internal details never leak.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, study_session.ErrDeckNotOwned):
		return "You do not have access to this resource"

	case errors.Is(err, study_session.ErrSessionNotFound):
		return "Study session not found"
	case errors.Is(err, study_session.ErrDeckNotFound),
		errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, gamification.ErrUnknownAchievement):
		return "Achievement not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, study.ErrEmptyDeck):
		return "Deck has no cards to study"
	case errors.Is(err, study.ErrInvalidCard):
		return "Deck contains an invalid card"
	case errors.Is(err, study.ErrNotPresenting):
		return "No card is being presented"
	case errors.Is(err, study.ErrNotAwaitingRating):
		return "Current card is not awaiting a rating"
	case errors.Is(err, study.ErrNotFinished):
		return "Session is not finished"
	case errors.Is(err, study.ErrNotOpenCard):
		return "Current card has no answer to reveal"
	case errors.Is(err, study.ErrNotChoiceCard):
		return "Current card has no alternatives"
	case errors.Is(err, study.ErrAlternativeOutOfRange):
		return "Alternative index out of range"
	case errors.Is(err, domain.ErrInvalidRating):
		return "Invalid difficulty rating"

	case errors.Is(err, gamification.ErrNegativeXP):
		return "XP delta cannot be negative"
	case errors.Is(err, gamification.ErrNegativeStreak):
		return "Streak cannot be negative"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps the error to a status code and safe message and writes
// the response. An explicit non-empty message overrides the derived one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
