package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/cnovais/flashdeck-api/internal/api/shared"
	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/platform/logger"
	"github.com/cnovais/flashdeck-api/internal/service/study_session"
	"github.com/cnovais/flashdeck-api/internal/store"
)

// StudyHandler handles study session HTTP requests.
type StudyHandler struct {
	sessions  study_session.StudySessionService
	reviews   store.ReviewLogStore
	validator *validator.Validate
	logger    *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(
	sessions study_session.StudySessionService,
	reviews store.ReviewLogStore,
	logger *slog.Logger,
) *StudyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		sessions:  sessions,
		reviews:   reviews,
		validator: validator.New(),
		logger:    logger.With(slog.String("component", "study_handler")),
	}
}

// StartSession handles POST /study/sessions requests.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	view, err := h.sessions.StartSession(r.Context(), userID, req.DeckID)
	if err != nil {
		log.Debug("failed to start study session",
			slog.String("deck_id", req.DeckID.String()),
			slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, view)
}

// GetSession handles GET /study/sessions/{id} requests.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.sessions.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// RevealAnswer handles POST /study/sessions/{id}/reveal requests.
func (h *StudyHandler) RevealAnswer(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.sessions.RevealAnswer(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// SelectAlternative handles POST /study/sessions/{id}/select requests.
func (h *StudyHandler) SelectAlternative(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req SelectAlternativeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	view, err := h.sessions.SelectAlternative(r.Context(), userID, sessionID, req.Alternative)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// RateCard handles POST /study/sessions/{id}/rate requests.
func (h *StudyHandler) RateCard(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req RateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	rating, err := domain.ParseDifficultyRating(req.Rating)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	view, err := h.sessions.RateCard(r.Context(), userID, sessionID, rating)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// RestartSession handles POST /study/sessions/{id}/restart requests.
func (h *StudyHandler) RestartSession(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.sessions.RestartSession(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// GetSummary handles GET /study/sessions/{id}/summary requests.
func (h *StudyHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	summary, err := h.sessions.SessionSummary(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// AbandonSession handles DELETE /study/sessions/{id} requests.
func (h *StudyHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sessions.AbandonSession(r.Context(), userID, sessionID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LogReview handles POST /study/review requests, accepting review events the
// client produced itself (e.g. while studying offline). The upsert is keyed
// by the event id, so redelivery is harmless.
func (h *StudyHandler) LogReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req LogReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	event := &domain.ReviewEvent{
		ID:               req.ID,
		UserID:           userID,
		DeckID:           req.DeckID,
		CardID:           req.CardID,
		Rating:           domain.DifficultyRating(req.Rating),
		IsCorrect:        req.IsCorrect,
		StudyTimeSeconds: req.StudyTimeSeconds,
		EaseFactor:       req.EaseFactor,
		IntervalMs:       req.IntervalMs,
		NextReviewAt:     req.NextReviewAt,
		CreatedAt:        req.CreatedAt,
	}
	if event.StudyTimeSeconds == 0 {
		event.StudyTimeSeconds = domain.DefaultStudyTimeSeconds
	}

	if err := h.reviews.Upsert(r.Context(), event); err != nil {
		log.Debug("failed to log review event", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, NewReviewEventResponse(event))
}

// GetReviews handles GET /study/reviews requests, returning the user's
// review history, newest first. The optional limit query parameter bounds
// the page size.
func (h *StudyHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	events, err := h.reviews.GetByUser(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	response := make([]ReviewEventResponse, 0, len(events))
	for _, event := range events {
		response = append(response, NewReviewEventResponse(event))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
