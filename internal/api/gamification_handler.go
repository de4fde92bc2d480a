package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/cnovais/flashdeck-api/internal/api/shared"
	"github.com/cnovais/flashdeck-api/internal/events"
	"github.com/cnovais/flashdeck-api/internal/platform/logger"
	"github.com/cnovais/flashdeck-api/internal/service/gamification"
)

// GamificationHandler handles gamification HTTP requests: progression stats,
// achievements, streak updates and client-reported XP actions.
type GamificationHandler struct {
	service   gamification.GamificationService
	emitter   events.EventEmitter
	validator *validator.Validate
	logger    *slog.Logger
}

// NewGamificationHandler creates a new GamificationHandler.
func NewGamificationHandler(
	service gamification.GamificationService,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *GamificationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GamificationHandler")
	}

	return &GamificationHandler{
		service:   service,
		emitter:   emitter,
		validator: validator.New(),
		logger:    logger.With(slog.String("component", "gamification_handler")),
	}
}

// GetStats handles GET /gamification/stats requests.
func (h *GamificationHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GamificationStatsResponse{
		XP:            profile.XP,
		Level:         profile.Level(),
		XPToNextLevel: profile.XPToNextLevel(),
		Streak:        profile.Streak,
	})
}

// GetAchievements handles GET /gamification/achievements requests.
func (h *GamificationHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AchievementsResponse{
		Achievements: profile.Achievements,
	})
}

// UpdateStreak handles POST /gamification/streak requests. The client owns
// the consecutive-days calculation; the server stores the reported value and
// unlocks any streak achievements it reaches.
func (h *GamificationHandler) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req UpdateStreakRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, err := h.service.UpdateStreak(r.Context(), userID, req.Days)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GamificationStatsResponse{
		XP:            profile.XP,
		Level:         profile.Level(),
		XPToNextLevel: profile.XPToNextLevel(),
		Streak:        profile.Streak,
	})
}

// ReportCardCreated handles POST /gamification/card-created requests,
// granting action XP for a card created outside this API.
func (h *GamificationHandler) ReportCardCreated(w http.ResponseWriter, r *http.Request) {
	h.reportAction(w, r, events.EventCardCreated)
}

// ReportDeckCreated handles POST /gamification/deck-created requests.
func (h *GamificationHandler) ReportDeckCreated(w http.ResponseWriter, r *http.Request) {
	h.reportAction(w, r, events.EventDeckCreated)
}

// reportAction emits the XP event for a client-reported action. The event
// flows through the same emitter as server-side creations, so the XP rules
// stay in one place.
func (h *GamificationHandler) reportAction(
	w http.ResponseWriter,
	r *http.Request,
	eventType string,
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req ActionReportRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	event, err := events.NewXPEvent(eventType, userID, events.ActionPayload{DeckID: req.DeckID})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.emitter.EmitEvent(r.Context(), event); err != nil {
		log.Warn("failed to emit reported action event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
