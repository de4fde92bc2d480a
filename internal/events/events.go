package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// XP-granting event types.
const (
	// EventSessionCompleted is emitted when a study session reaches its
	// summary; the payload carries the XP computed by the aggregator.
	EventSessionCompleted = "session_completed"

	// EventCardCreated is emitted when a user authors a new card.
	EventCardCreated = "card_created"

	// EventDeckCreated is emitted when a user creates a new deck.
	EventDeckCreated = "deck_created"
)

// XPEvent represents an action that may grant experience points. It carries
// the acting user and a type-specific JSON payload, without any direct
// dependency on the gamification accumulator.
type XPEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates which action produced the event
	Type string `json:"type"`

	// UserID identifies the user the XP belongs to
	UserID uuid.UUID `json:"user_id"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *XPEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewXPEvent creates a new XPEvent with the specified type and payload.
func NewXPEvent(eventType string, userID uuid.UUID, payload interface{}) (*XPEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &XPEvent{
		ID:        uuid.New(),
		Type:      eventType,
		UserID:    userID,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// SessionCompletedPayload is the payload of an EventSessionCompleted event.
type SessionCompletedPayload struct {
	DeckID    uuid.UUID `json:"deck_id"`
	SessionID uuid.UUID `json:"session_id"`
	XPAwarded int       `json:"xp_awarded"`
	Total     int       `json:"total"`
}

// ActionPayload is the payload of card/deck creation events.
type ActionPayload struct {
	DeckID uuid.UUID `json:"deck_id"`
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *XPEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *XPEvent) error
}
