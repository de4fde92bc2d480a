package study_session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/domain/study"
)

// StudySessionService orchestrates the in-memory study sessions: it fetches
// the deck snapshot, drives the session state machine, and dispatches the
// asynchronous side effects (review logging, XP events) that must never
// block the learner.
type StudySessionService interface {
	// StartSession fetches the deck's cards and opens a new session over
	// them, presenting the first card.
	//
	// Returns:
	//   - (nil, ErrDeckNotFound): if the deck does not exist
	//   - (nil, ErrDeckNotOwned): if the deck belongs to another user and is not public
	//   - (nil, study.ErrEmptyDeck): if the deck has no cards
	//   - (nil, study.ErrInvalidCard): if any card in the deck fails validation
	StartSession(ctx context.Context, userID, deckID uuid.UUID) (*SessionView, error)

	// GetSession returns the current state of an active session.
	// Returns ErrSessionNotFound for unknown sessions and for sessions
	// owned by a different user.
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error)

	// RevealAnswer flips the current open card, moving the session to
	// awaiting-rating. Fails with study.ErrNotOpenCard on a choice card.
	RevealAnswer(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error)

	// SelectAlternative records the learner's pick on the current choice
	// card, moving the session to awaiting-rating. Fails with
	// study.ErrNotChoiceCard on an open card.
	SelectAlternative(
		ctx context.Context,
		userID, sessionID uuid.UUID,
		index int,
	) (*SessionView, error)

	// RateCard applies the difficulty rating to the current card, advances
	// the session, and dispatches the review event for background logging.
	// When the last card is rated the session finishes and a
	// session-completed XP event is emitted.
	RateCard(
		ctx context.Context,
		userID, sessionID uuid.UUID,
		rating domain.DifficultyRating,
	) (*SessionView, error)

	// RestartSession begins a fresh pass over the same card snapshot.
	// Only a finished session can be restarted.
	RestartSession(ctx context.Context, userID, sessionID uuid.UUID) (*SessionView, error)

	// SessionSummary returns the finished session's aggregate results.
	// It is read-only and can be called repeatedly.
	SessionSummary(ctx context.Context, userID, sessionID uuid.UUID) (*study.SessionSummary, error)

	// AbandonSession drops the session from the registry. Review events
	// already dispatched keep flowing to the log; everything else is
	// discarded. Abandoning an unknown session is a no-op.
	AbandonSession(ctx context.Context, userID, sessionID uuid.UUID) error
}

// Common error types for StudySessionService
var (
	// ErrSessionNotFound indicates the session does not exist or is not
	// visible to the requesting user.
	ErrSessionNotFound = errors.New("study session not found")

	// ErrDeckNotFound indicates the deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrDeckNotOwned indicates the deck belongs to another user and is not public.
	ErrDeckNotOwned = errors.New("unauthorized access: deck not owned by user")
)

// ServiceError wraps errors from the study session service with the failing
// operation, so consumers can differentiate with errors.As instead of string
// matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
