package study_session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/domain/srs"
	"github.com/cnovais/flashdeck-api/internal/domain/study"
	"github.com/cnovais/flashdeck-api/internal/events"
	"github.com/cnovais/flashdeck-api/internal/platform/logger"
	"github.com/cnovais/flashdeck-api/internal/store"
	"github.com/cnovais/flashdeck-api/internal/task"
)

// TaskSubmitter enqueues fire-and-forget background tasks. Satisfied by
// task.Runner; narrowed to an interface so tests can observe dispatches.
type TaskSubmitter interface {
	Submit(t task.Task) error
}

// managedSession pairs a session with its lock. The state machine itself is
// not safe for concurrent use; every service operation on a session happens
// under this lock, including the snapshot taken for the response.
type managedSession struct {
	mu      sync.Mutex
	session *study.Session
}

// studySessionService implements StudySessionService with an in-memory
// session registry. Sessions are ephemeral by contract: a process restart
// forgets them, and only the dispatched review events survive.
type studySessionService struct {
	deckStore   store.DeckStore
	cardStore   store.CardStore
	reviewStore store.ReviewLogStore
	policy      srs.Service
	submitter   TaskSubmitter
	emitter     events.EventEmitter
	awards      study.XPAwards

	mu       sync.RWMutex
	sessions map[uuid.UUID]*managedSession
}

// NewStudySessionService creates a new StudySessionService.
// A nil awards table falls back to the default XP values.
func NewStudySessionService(
	deckStore store.DeckStore,
	cardStore store.CardStore,
	reviewStore store.ReviewLogStore,
	policy srs.Service,
	submitter TaskSubmitter,
	emitter events.EventEmitter,
	awards study.XPAwards,
) StudySessionService {
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if reviewStore == nil {
		panic("reviewStore cannot be nil")
	}
	if policy == nil {
		panic("policy cannot be nil")
	}
	if submitter == nil {
		panic("submitter cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if awards == nil {
		awards = study.DefaultXPAwards()
	}

	return &studySessionService{
		deckStore:   deckStore,
		cardStore:   cardStore,
		reviewStore: reviewStore,
		policy:      policy,
		submitter:   submitter,
		emitter:     emitter,
		awards:      awards,
		sessions:    make(map[uuid.UUID]*managedSession),
	}
}

// StartSession implements StudySessionService.StartSession.
func (s *studySessionService) StartSession(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*SessionView, error) {
	log := logger.FromContext(ctx)

	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDeckNotFound
		}
		log.Error("failed to fetch deck for study session",
			"error", err,
			"deck_id", deckID)
		return nil, &ServiceError{
			Operation: "start_session",
			Message:   "failed to fetch deck",
			Err:       err,
		}
	}

	if deck.UserID != userID && !deck.Public {
		return nil, ErrDeckNotOwned
	}

	cards, err := s.cardStore.GetByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to fetch cards for study session",
			"error", err,
			"deck_id", deckID)
		return nil, &ServiceError{
			Operation: "start_session",
			Message:   "failed to fetch cards",
			Err:       err,
		}
	}

	session, err := study.NewSession(userID, deckID, cards, s.policy)
	if err != nil {
		return nil, err
	}

	managed := &managedSession{session: session}

	s.mu.Lock()
	s.sessions[session.ID()] = managed
	s.mu.Unlock()

	log.Info("study session started",
		"session_id", session.ID(),
		"deck_id", deckID,
		"card_count", session.Len())

	managed.mu.Lock()
	defer managed.mu.Unlock()
	return newSessionView(session), nil
}

// GetSession implements StudySessionService.GetSession.
func (s *studySessionService) GetSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*SessionView, error) {
	managed, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	managed.mu.Lock()
	defer managed.mu.Unlock()
	return newSessionView(managed.session), nil
}

// RevealAnswer implements StudySessionService.RevealAnswer.
func (s *studySessionService) RevealAnswer(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*SessionView, error) {
	managed, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	managed.mu.Lock()
	defer managed.mu.Unlock()

	if err := managed.session.RevealAnswer(); err != nil {
		return nil, err
	}
	return newSessionView(managed.session), nil
}

// SelectAlternative implements StudySessionService.SelectAlternative.
func (s *studySessionService) SelectAlternative(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	index int,
) (*SessionView, error) {
	managed, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	managed.mu.Lock()
	defer managed.mu.Unlock()

	if _, err := managed.session.SelectAlternative(index); err != nil {
		return nil, err
	}
	return newSessionView(managed.session), nil
}

// RateCard implements StudySessionService.RateCard.
func (s *studySessionService) RateCard(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	rating domain.DifficultyRating,
) (*SessionView, error) {
	log := logger.FromContext(ctx)

	managed, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	managed.mu.Lock()
	defer managed.mu.Unlock()

	event, err := managed.session.Rate(rating)
	if err != nil {
		return nil, err
	}

	s.dispatchReviewLog(ctx, event)

	if managed.session.Finished() {
		s.emitSessionCompleted(ctx, managed.session)
	}

	log.Debug("card rated",
		"session_id", sessionID,
		"card_id", event.CardID,
		"rating", rating,
		"finished", managed.session.Finished())

	return newSessionView(managed.session), nil
}

// RestartSession implements StudySessionService.RestartSession.
func (s *studySessionService) RestartSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*SessionView, error) {
	managed, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	managed.mu.Lock()
	defer managed.mu.Unlock()

	if err := managed.session.Restart(); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("study session restarted", "session_id", sessionID)
	return newSessionView(managed.session), nil
}

// SessionSummary implements StudySessionService.SessionSummary.
func (s *studySessionService) SessionSummary(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*study.SessionSummary, error) {
	managed, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	managed.mu.Lock()
	defer managed.mu.Unlock()
	return managed.session.Summary(s.awards)
}

// AbandonSession implements StudySessionService.AbandonSession.
func (s *studySessionService) AbandonSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	managed, ok := s.sessions[sessionID]
	if !ok || managed.session.UserID() != userID {
		return nil
	}

	delete(s.sessions, sessionID)
	logger.FromContext(ctx).Info("study session abandoned", "session_id", sessionID)
	return nil
}

// lookup finds the session and checks ownership. Another user's session is
// reported as not found rather than forbidden, so session ids are not
// probeable.
func (s *studySessionService) lookup(userID, sessionID uuid.UUID) (*managedSession, error) {
	s.mu.RLock()
	managed, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok || managed.session.UserID() != userID {
		return nil, ErrSessionNotFound
	}
	return managed, nil
}

// dispatchReviewLog enqueues the review event for background persistence.
// Failures are logged and swallowed: review logging is best-effort and must
// never surface into the study flow.
func (s *studySessionService) dispatchReviewLog(ctx context.Context, event *domain.ReviewEvent) {
	log := logger.FromContext(ctx)

	logTask, err := task.NewReviewLogTask(event, s.reviewStore)
	if err != nil {
		log.Error("failed to build review log task",
			"error", err,
			"event_id", event.ID)
		return
	}

	if err := s.submitter.Submit(logTask); err != nil {
		log.Warn("failed to enqueue review log task, event dropped",
			"error", err,
			"event_id", event.ID)
	}
}

// emitSessionCompleted publishes the XP event for a finished session.
// Like review logging this is best-effort; a failed emit costs the learner
// XP but never fails the rating that finished the session.
func (s *studySessionService) emitSessionCompleted(ctx context.Context, session *study.Session) {
	log := logger.FromContext(ctx)

	summary, err := session.Summary(s.awards)
	if err != nil {
		log.Error("failed to summarize finished session",
			"error", err,
			"session_id", session.ID())
		return
	}

	event, err := events.NewXPEvent(events.EventSessionCompleted, session.UserID(), events.SessionCompletedPayload{
		DeckID:    session.DeckID(),
		SessionID: session.ID(),
		XPAwarded: summary.XPAwarded,
		Total:     summary.Total,
	})
	if err != nil {
		log.Error("failed to build session completed event",
			"error", err,
			"session_id", session.ID())
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit session completed event",
			"error", err,
			"session_id", session.ID())
	}
}

var _ StudySessionService = (*studySessionService)(nil)
