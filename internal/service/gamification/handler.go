package gamification

import (
	"context"
	"errors"
	"fmt"

	"github.com/cnovais/flashdeck-api/internal/config"
	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/events"
	"github.com/cnovais/flashdeck-api/internal/platform/logger"
)

// XPEventHandler feeds XP-granting events into the accumulator. It is
// registered on the in-process emitter so the services producing the events
// (study sessions, deck and card management) never depend on gamification
// directly.
type XPEventHandler struct {
	service GamificationService
	cfg     config.GamificationConfig
}

// NewXPEventHandler creates an XPEventHandler.
func NewXPEventHandler(service GamificationService, cfg config.GamificationConfig) *XPEventHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	return &XPEventHandler{service: service, cfg: cfg}
}

// HandleEvent implements events.EventHandler.
func (h *XPEventHandler) HandleEvent(ctx context.Context, event *events.XPEvent) error {
	log := logger.FromContext(ctx)

	switch event.Type {
	case events.EventSessionCompleted:
		var payload events.SessionCompletedPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode session completed payload: %w", err)
		}
		_, err := h.service.ApplyXP(ctx, event.UserID, payload.XPAwarded)
		return err

	case events.EventCardCreated:
		if _, err := h.service.ApplyXP(ctx, event.UserID, h.cfg.CardCreatedXP); err != nil {
			return err
		}
		return h.unlock(ctx, event, domain.AchievementFirstCard)

	case events.EventDeckCreated:
		if _, err := h.service.ApplyXP(ctx, event.UserID, h.cfg.DeckCreatedXP); err != nil {
			return err
		}
		return h.unlock(ctx, event, domain.AchievementFirstDeck)

	default:
		log.Debug("ignoring event with unknown type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}
}

// unlock marks a first-action achievement. An id missing from the user's
// catalog is logged and skipped rather than failing the event.
func (h *XPEventHandler) unlock(ctx context.Context, event *events.XPEvent, id string) error {
	_, _, err := h.service.UnlockAchievement(ctx, event.UserID, id)
	if err != nil {
		if errors.Is(err, ErrUnknownAchievement) {
			logger.FromContext(ctx).Warn("achievement missing from catalog",
				"achievement_id", id,
				"user_id", event.UserID)
			return nil
		}
		return err
	}
	return nil
}

var _ events.EventHandler = (*XPEventHandler)(nil)
