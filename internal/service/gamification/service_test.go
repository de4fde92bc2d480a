package gamification_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnovais/flashdeck-api/internal/domain"
	"github.com/cnovais/flashdeck-api/internal/service/gamification"
	"github.com/cnovais/flashdeck-api/internal/store"
	"github.com/cnovais/flashdeck-api/internal/task"
)

// fakeProfileStore is an in-memory ProfileStore recording every save.
type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.GamificationProfile
	saves    int
	getErr   error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[uuid.UUID]*domain.GamificationProfile)}
}

func (f *fakeProfileStore) Get(
	_ context.Context,
	userID uuid.UUID,
) (*domain.GamificationProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	clone := *profile
	clone.Achievements = append([]domain.Achievement(nil), profile.Achievements...)
	return &clone, nil
}

func (f *fakeProfileStore) Save(_ context.Context, profile *domain.GamificationProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.profiles[profile.UserID] = profile
	f.saves++
	return nil
}

// fakeAchievementStore serves a configurable catalog and records unlocks.
type fakeAchievementStore struct {
	mu         sync.Mutex
	defs       []domain.AchievementDefinition
	catalogErr error
	unlocks    map[string]time.Time
}

func newFakeAchievementStore() *fakeAchievementStore {
	return &fakeAchievementStore{unlocks: make(map[string]time.Time)}
}

func (f *fakeAchievementStore) Catalog(_ context.Context) ([]domain.AchievementDefinition, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.defs, nil
}

func (f *fakeAchievementStore) SaveUnlock(
	_ context.Context,
	_ uuid.UUID,
	achievementID string,
	at time.Time,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.unlocks[achievementID]; !ok {
		f.unlocks[achievementID] = at
	}
	return nil
}

// syncSubmitter executes submitted tasks inline so tests can assert on the
// resulting store state without a worker pool.
type syncSubmitter struct {
	mu        sync.Mutex
	submitted []string
}

func (s *syncSubmitter) Submit(t task.Task) error {
	s.mu.Lock()
	s.submitted = append(s.submitted, t.Type())
	s.mu.Unlock()
	return t.Execute(context.Background())
}

type fixture struct {
	service      gamification.GamificationService
	profiles     *fakeProfileStore
	achievements *fakeAchievementStore
	submitter    *syncSubmitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	profiles := newFakeProfileStore()
	achievements := newFakeAchievementStore()
	submitter := &syncSubmitter{}

	return &fixture{
		service:      gamification.NewGamificationService(profiles, achievements, submitter),
		profiles:     profiles,
		achievements: achievements,
		submitter:    submitter,
	}
}

func seedProfile(f *fixture, userID uuid.UUID, xp, streak int) {
	f.profiles.profiles[userID] = &domain.GamificationProfile{
		UserID:       userID,
		XP:           xp,
		Streak:       streak,
		Achievements: domain.DefaultAchievements(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	t.Run("creates a fresh profile on first access", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		userID := uuid.New()

		profile, err := f.service.Profile(context.Background(), userID)
		require.NoError(t, err)

		assert.Equal(t, userID, profile.UserID)
		assert.Zero(t, profile.XP)
		assert.Equal(t, 1, profile.Level())
		assert.Len(t, profile.Achievements, 5)
		for _, a := range profile.Achievements {
			assert.False(t, a.Unlocked, "achievement %s should start locked", a.ID)
		}
	})

	t.Run("merges the server catalog over the defaults", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.achievements.defs = []domain.AchievementDefinition{
			{ID: domain.AchievementFirstDeck, Name: "Deck Builder", XPReward: 20},
			{ID: "polyglot", Name: "Polyglot", XPReward: 15},
		}

		profile, err := f.service.Profile(context.Background(), uuid.New())
		require.NoError(t, err)

		firstDeck := profile.Achievement(domain.AchievementFirstDeck)
		require.NotNil(t, firstDeck)
		assert.Equal(t, "Deck Builder", firstDeck.Name)
		assert.Equal(t, 20, firstDeck.XPReward)

		require.NotNil(t, profile.Achievement("polyglot"))
		assert.Len(t, profile.Achievements, 6)
	})

	t.Run("falls back to the built-in catalog when the store fails", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.achievements.catalogErr = errors.New("connection refused")

		profile, err := f.service.Profile(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Len(t, profile.Achievements, 5)
	})
}

func TestApplyXP(t *testing.T) {
	t.Parallel()

	t.Run("accumulates xp and reports level changes", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		userID := uuid.New()
		seedProfile(f, userID, 80, 0)

		result, err := f.service.ApplyXP(context.Background(), userID, 50)
		require.NoError(t, err)

		assert.Equal(t, 130, result.NewTotal)
		assert.Equal(t, 2, result.NewLevel)
		assert.True(t, result.LeveledUp)
		assert.Equal(t, 70, result.XPToNextLevel)
	})

	t.Run("no level change below the boundary", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		userID := uuid.New()

		result, err := f.service.ApplyXP(context.Background(), userID, 40)
		require.NoError(t, err)

		assert.Equal(t, 40, result.NewTotal)
		assert.Equal(t, 1, result.NewLevel)
		assert.False(t, result.LeveledUp)
	})

	t.Run("rejects negative deltas", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.service.ApplyXP(context.Background(), uuid.New(), -5)
		assert.ErrorIs(t, err, gamification.ErrNegativeXP)
	})

	t.Run("unlocks the level achievement at level 10", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		userID := uuid.New()
		seedProfile(f, userID, 850, 0)

		result, err := f.service.ApplyXP(context.Background(), userID, 50)
		require.NoError(t, err)

		// 900 crosses level 10, and the unlock reward lands on top.
		assert.Equal(t, 950, result.NewTotal)
		assert.Equal(t, 10, result.NewLevel)
		assert.True(t, result.LeveledUp)

		profile, err := f.service.Profile(context.Background(), userID)
		require.NoError(t, err)
		unlocked := profile.Achievement(domain.AchievementLevel10)
		require.NotNil(t, unlocked)
		assert.True(t, unlocked.Unlocked)
		require.NotNil(t, unlocked.UnlockedAt)

		f.achievements.mu.Lock()
		_, recorded := f.achievements.unlocks[domain.AchievementLevel10]
		f.achievements.mu.Unlock()
		assert.True(t, recorded)
	})

	t.Run("persists a snapshot through the task submitter", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		userID := uuid.New()

		_, err := f.service.ApplyXP(context.Background(), userID, 10)
		require.NoError(t, err)

		f.profiles.mu.Lock()
		saved := f.profiles.profiles[userID]
		saves := f.profiles.saves
		f.profiles.mu.Unlock()

		require.NotNil(t, saved)
		assert.Equal(t, 10, saved.XP)
		assert.Equal(t, 1, saves)
		assert.Contains(t, f.submitter.submitted, task.TaskTypeProfileSave)
	})
}

func TestUpdateStreak(t *testing.T) {
	t.Parallel()

	t.Run("sets the streak", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		userID := uuid.New()

		profile, err := f.service.UpdateStreak(context.Background(), userID, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, profile.Streak)
	})

	t.Run("rejects negative streaks", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.service.UpdateStreak(context.Background(), uuid.New(), -1)
		assert.ErrorIs(t, err, gamification.ErrNegativeStreak)
	})

	t.Run("unlocks both streak achievements at 30 days", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		userID := uuid.New()

		profile, err := f.service.UpdateStreak(context.Background(), userID, 30)
		require.NoError(t, err)

		week := profile.Achievement(domain.AchievementStudyStreak7)
		month := profile.Achievement(domain.AchievementStudyStreak30)
		require.NotNil(t, week)
		require.NotNil(t, month)
		assert.True(t, week.Unlocked)
		assert.True(t, month.Unlocked)

		// 25 + 100 in rewards.
		assert.Equal(t, 125, profile.XP)
	})
}

func TestUnlockAchievement(t *testing.T) {
	t.Parallel()

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, _, err := f.service.UnlockAchievement(context.Background(), uuid.New(), "no_such_thing")
		assert.ErrorIs(t, err, gamification.ErrUnknownAchievement)
	})

	t.Run("first unlock grants the reward", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		userID := uuid.New()

		achievement, newly, err := f.service.UnlockAchievement(
			context.Background(), userID, domain.AchievementFirstDeck)
		require.NoError(t, err)
		assert.True(t, newly)
		assert.True(t, achievement.Unlocked)
		require.NotNil(t, achievement.UnlockedAt)

		profile, err := f.service.Profile(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, 10, profile.XP)
	})

	t.Run("second unlock is a no-op keeping the first timestamp", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		userID := uuid.New()

		first, newly, err := f.service.UnlockAchievement(
			context.Background(), userID, domain.AchievementFirstCard)
		require.NoError(t, err)
		require.True(t, newly)

		second, newly, err := f.service.UnlockAchievement(
			context.Background(), userID, domain.AchievementFirstCard)
		require.NoError(t, err)
		assert.False(t, newly)
		assert.Equal(t, first.UnlockedAt, second.UnlockedAt)

		profile, err := f.service.Profile(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, 5, profile.XP, "reward granted once")
	})

	t.Run("reward cascades into derived unlocks", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		userID := uuid.New()
		seedProfile(f, userID, 890, 0)

		// first_deck's 10 XP crosses the level 10 boundary.
		_, newly, err := f.service.UnlockAchievement(
			context.Background(), userID, domain.AchievementFirstDeck)
		require.NoError(t, err)
		require.True(t, newly)

		profile, err := f.service.Profile(context.Background(), userID)
		require.NoError(t, err)

		level10 := profile.Achievement(domain.AchievementLevel10)
		require.NotNil(t, level10)
		assert.True(t, level10.Unlocked)
		assert.Equal(t, 950, profile.XP)
	})
}
