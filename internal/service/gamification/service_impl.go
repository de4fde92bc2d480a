package gamification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/platform/logger"
	"github.com/cnovais/flashdeck-api/internal/store"
	"github.com/cnovais/flashdeck-api/internal/task"
)

// TaskSubmitter enqueues fire-and-forget background tasks.
type TaskSubmitter interface {
	Submit(t task.Task) error
}

// gamificationService implements GamificationService. All profile mutations
// happen under a single mutex; persistence and unlock records are dispatched
// to the task runner after the lock is released.
type gamificationService struct {
	profiles     store.ProfileStore
	achievements store.AchievementStore
	submitter    TaskSubmitter
	timeFunc     func() time.Time

	mu    sync.Mutex
	cache map[uuid.UUID]*domain.GamificationProfile
}

// NewGamificationService creates a new GamificationService.
func NewGamificationService(
	profiles store.ProfileStore,
	achievements store.AchievementStore,
	submitter TaskSubmitter,
) GamificationService {
	if profiles == nil {
		panic("profiles cannot be nil")
	}
	if achievements == nil {
		panic("achievements cannot be nil")
	}
	if submitter == nil {
		panic("submitter cannot be nil")
	}

	return &gamificationService{
		profiles:     profiles,
		achievements: achievements,
		submitter:    submitter,
		timeFunc:     time.Now,
		cache:        make(map[uuid.UUID]*domain.GamificationProfile),
	}
}

// Profile implements GamificationService.Profile.
func (s *gamificationService) Profile(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.GamificationProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.profileLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	return cloneProfile(profile), nil
}

// ApplyXP implements GamificationService.ApplyXP.
func (s *gamificationService) ApplyXP(
	ctx context.Context,
	userID uuid.UUID,
	delta int,
) (*XPResult, error) {
	if delta < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeXP, delta)
	}

	s.mu.Lock()
	profile, err := s.profileLocked(ctx, userID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	levelBefore := profile.Level()
	profile.XP += delta
	profile.UpdatedAt = s.timeFunc().UTC()
	unlocked := s.deriveUnlocksLocked(profile)

	result := &XPResult{
		NewTotal:      profile.XP,
		NewLevel:      profile.Level(),
		LeveledUp:     profile.Level() > levelBefore,
		XPToNextLevel: profile.XPToNextLevel(),
	}
	snapshot := cloneProfile(profile)
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.recordUnlocks(ctx, userID, unlocked)

	logger.FromContext(ctx).Debug("xp applied",
		"user_id", userID,
		"delta", delta,
		"new_total", result.NewTotal,
		"leveled_up", result.LeveledUp)

	return result, nil
}

// UpdateStreak implements GamificationService.UpdateStreak.
func (s *gamificationService) UpdateStreak(
	ctx context.Context,
	userID uuid.UUID,
	days int,
) (*domain.GamificationProfile, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeStreak, days)
	}

	s.mu.Lock()
	profile, err := s.profileLocked(ctx, userID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	profile.Streak = days
	profile.UpdatedAt = s.timeFunc().UTC()
	unlocked := s.deriveUnlocksLocked(profile)
	snapshot := cloneProfile(profile)
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.recordUnlocks(ctx, userID, unlocked)

	return snapshot, nil
}

// UnlockAchievement implements GamificationService.UnlockAchievement.
func (s *gamificationService) UnlockAchievement(
	ctx context.Context,
	userID uuid.UUID,
	achievementID string,
) (*domain.Achievement, bool, error) {
	s.mu.Lock()
	profile, err := s.profileLocked(ctx, userID)
	if err != nil {
		s.mu.Unlock()
		return nil, false, err
	}

	achievement := profile.Achievement(achievementID)
	if achievement == nil {
		s.mu.Unlock()
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownAchievement, achievementID)
	}

	if achievement.Unlocked {
		result := *achievement
		s.mu.Unlock()
		return &result, false, nil
	}

	unlocked := s.unlockLocked(profile, achievement)
	result := *achievement
	snapshot := cloneProfile(profile)
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.recordUnlocks(ctx, userID, unlocked)

	return &result, true, nil
}

// profileLocked returns the cached profile, loading or creating it on first
// access. The store catalog is merged over the built-in defaults so new
// achievements appear on existing profiles without losing unlock state.
// Caller must hold s.mu.
func (s *gamificationService) profileLocked(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.GamificationProfile, error) {
	if profile, ok := s.cache[userID]; ok {
		return profile, nil
	}

	log := logger.FromContext(ctx)

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to load gamification profile: %w", err)
		}
		profile, err = domain.NewGamificationProfile(userID)
		if err != nil {
			return nil, err
		}
		log.Info("gamification profile created", "user_id", userID)
	}

	defs := domain.DefaultAchievementCatalog()
	serverDefs, err := s.achievements.Catalog(ctx)
	if err != nil {
		// The built-in catalog keeps the accumulator usable.
		log.Warn("failed to load achievement catalog, using defaults",
			"error", err,
			"user_id", userID)
	} else {
		defs = mergeDefinitions(defs, serverDefs)
	}
	profile.Achievements = domain.MergeAchievementCatalog(defs, profile.Achievements)

	s.cache[userID] = profile
	return profile, nil
}

// unlockLocked stamps the achievement and grants its reward, then re-derives
// in case the reward pushed the profile over another threshold. Returns the
// achievements newly unlocked, the given one first. Caller must hold s.mu.
func (s *gamificationService) unlockLocked(
	profile *domain.GamificationProfile,
	achievement *domain.Achievement,
) []domain.Achievement {
	now := s.timeFunc().UTC()
	achievement.Unlocked = true
	achievement.UnlockedAt = &now
	profile.XP += achievement.XPReward
	profile.UpdatedAt = now

	unlocked := []domain.Achievement{*achievement}
	return append(unlocked, s.deriveUnlocksLocked(profile)...)
}

// deriveUnlocksLocked unlocks every threshold achievement the profile now
// satisfies. Rewards can push the profile over further thresholds, so it
// loops until a pass unlocks nothing. Caller must hold s.mu.
func (s *gamificationService) deriveUnlocksLocked(
	profile *domain.GamificationProfile,
) []domain.Achievement {
	var unlocked []domain.Achievement
	for {
		id := s.nextDerivedUnlock(profile)
		if id == "" {
			return unlocked
		}
		achievement := profile.Achievement(id)

		now := s.timeFunc().UTC()
		achievement.Unlocked = true
		achievement.UnlockedAt = &now
		profile.XP += achievement.XPReward
		profile.UpdatedAt = now

		unlocked = append(unlocked, *achievement)
	}
}

// nextDerivedUnlock returns the id of one locked achievement whose threshold
// the profile satisfies, or "" when none is left.
func (s *gamificationService) nextDerivedUnlock(profile *domain.GamificationProfile) string {
	thresholds := []struct {
		id string
		ok bool
	}{
		{domain.AchievementStudyStreak7, profile.Streak >= 7},
		{domain.AchievementStudyStreak30, profile.Streak >= 30},
		{domain.AchievementLevel10, profile.Level() >= 10},
	}

	for _, t := range thresholds {
		if !t.ok {
			continue
		}
		if a := profile.Achievement(t.id); a != nil && !a.Unlocked {
			return t.id
		}
	}
	return ""
}

// persist dispatches a background save of the profile snapshot. Failures are
// logged and swallowed; the in-memory profile stays authoritative.
func (s *gamificationService) persist(ctx context.Context, snapshot *domain.GamificationProfile) {
	log := logger.FromContext(ctx)

	saveTask, err := task.NewProfileSaveTask(snapshot, s.profiles)
	if err != nil {
		log.Error("failed to build profile save task",
			"error", err,
			"user_id", snapshot.UserID)
		return
	}

	if err := s.submitter.Submit(saveTask); err != nil {
		log.Warn("failed to enqueue profile save, snapshot dropped",
			"error", err,
			"user_id", snapshot.UserID)
	}
}

// recordUnlocks dispatches unlock records for newly unlocked achievements.
func (s *gamificationService) recordUnlocks(
	ctx context.Context,
	userID uuid.UUID,
	unlocked []domain.Achievement,
) {
	log := logger.FromContext(ctx)

	for _, achievement := range unlocked {
		log.Info("achievement unlocked",
			"user_id", userID,
			"achievement_id", achievement.ID,
			"xp_reward", achievement.XPReward)

		unlockTask, err := newUnlockRecordTask(userID, achievement, s.achievements)
		if err != nil {
			log.Error("failed to build unlock record task",
				"error", err,
				"achievement_id", achievement.ID)
			continue
		}
		if err := s.submitter.Submit(unlockTask); err != nil {
			log.Warn("failed to enqueue unlock record, dropped",
				"error", err,
				"achievement_id", achievement.ID)
		}
	}
}

// cloneProfile copies the profile so callers and background saves never
// share the mutable cached instance.
func cloneProfile(profile *domain.GamificationProfile) *domain.GamificationProfile {
	clone := *profile
	clone.Achievements = make([]domain.Achievement, len(profile.Achievements))
	copy(clone.Achievements, profile.Achievements)
	return &clone
}

// mergeDefinitions overlays server definitions on the built-in catalog,
// appending server-only ids at the end.
func mergeDefinitions(
	defaults, server []domain.AchievementDefinition,
) []domain.AchievementDefinition {
	byID := make(map[string]domain.AchievementDefinition, len(server))
	for _, def := range server {
		byID[def.ID] = def
	}

	merged := make([]domain.AchievementDefinition, 0, len(defaults)+len(server))
	seen := make(map[string]bool, len(defaults))
	for _, def := range defaults {
		if override, ok := byID[def.ID]; ok {
			def = override
		}
		merged = append(merged, def)
		seen[def.ID] = true
	}
	for _, def := range server {
		if !seen[def.ID] {
			merged = append(merged, def)
		}
	}
	return merged
}

var _ GamificationService = (*gamificationService)(nil)
