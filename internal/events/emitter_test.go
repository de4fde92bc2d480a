package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnovais/flashdeck-api/internal/events"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []*events.XPEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *events.XPEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func newTestEmitter() *events.InMemoryEventEmitter {
	return events.NewInMemoryEventEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewXPEvent(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deckID := uuid.New()

	event, err := events.NewXPEvent(events.EventDeckCreated, userID, events.ActionPayload{
		DeckID: deckID,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, events.EventDeckCreated, event.Type)
	assert.Equal(t, userID, event.UserID)
	assert.False(t, event.CreatedAt.IsZero())

	var payload events.ActionPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, deckID, payload.DeckID)
}

func TestEmitEvent(t *testing.T) {
	t.Parallel()

	t.Run("delivers to every handler", func(t *testing.T) {
		t.Parallel()

		emitter := newTestEmitter()
		first := &recordingHandler{}
		second := &recordingHandler{}
		emitter.RegisterHandler(first)
		emitter.RegisterHandler(second)

		event, err := events.NewXPEvent(events.EventCardCreated, uuid.New(), events.ActionPayload{})
		require.NoError(t, err)

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Len(t, first.events, 1)
		assert.Len(t, second.events, 1)
	})

	t.Run("no handlers is not an error", func(t *testing.T) {
		t.Parallel()

		emitter := newTestEmitter()
		event, err := events.NewXPEvent(events.EventCardCreated, uuid.New(), events.ActionPayload{})
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("a failing handler does not stop delivery", func(t *testing.T) {
		t.Parallel()

		emitter := newTestEmitter()
		failErr := errors.New("handler exploded")
		failing := &recordingHandler{err: failErr}
		healthy := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(healthy)

		event, err := events.NewXPEvent(events.EventSessionCompleted, uuid.New(),
			events.SessionCompletedPayload{XPAwarded: 10, Total: 2})
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.ErrorIs(t, err, failErr)
		assert.Len(t, healthy.events, 1, "healthy handler still receives the event")
	})
}
