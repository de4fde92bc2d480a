package domain

import "time"

// Well-known achievement ids.
const (
	AchievementFirstDeck     = "first_deck"
	AchievementFirstCard     = "first_card"
	AchievementStudyStreak7  = "study_streak_7"
	AchievementStudyStreak30 = "study_streak_30"
	AchievementLevel10       = "level_10"
)

// Achievement is a named, one-time-unlockable milestone with an XP reward.
type Achievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon,omitempty"`
	XPReward    int        `json:"xp_reward"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// AchievementDefinition is the catalog entry for an achievement, without any
// per-user unlock state.
type AchievementDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	XPReward    int    `json:"xp_reward"`
}

// DefaultAchievementCatalog returns the built-in achievement definitions.
// The server-side catalog is merged over these at load time.
func DefaultAchievementCatalog() []AchievementDefinition {
	return []AchievementDefinition{
		{
			ID:          AchievementFirstDeck,
			Name:        "First Deck",
			Description: "Create your first deck of flashcards",
			Icon:        "🎯",
			XPReward:    10,
		},
		{
			ID:          AchievementFirstCard,
			Name:        "First Card",
			Description: "Create your first flashcard",
			Icon:        "📝",
			XPReward:    5,
		},
		{
			ID:          AchievementStudyStreak7,
			Name:        "Week of Study",
			Description: "Study for 7 consecutive days",
			Icon:        "🔥",
			XPReward:    25,
		},
		{
			ID:          AchievementStudyStreak30,
			Name:        "Month of Dedication",
			Description: "Study for 30 consecutive days",
			Icon:        "🏆",
			XPReward:    100,
		},
		{
			ID:          AchievementLevel10,
			Name:        "Apprentice",
			Description: "Reach level 10",
			Icon:        "⭐",
			XPReward:    50,
		},
	}
}

// DefaultAchievements returns the default catalog as locked achievements.
func DefaultAchievements() []Achievement {
	defs := DefaultAchievementCatalog()
	achievements := make([]Achievement, 0, len(defs))
	for _, def := range defs {
		achievements = append(achievements, Achievement{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			XPReward:    def.XPReward,
		})
	}
	return achievements
}

// MergeAchievementCatalog merges catalog definitions over a user's existing
// achievements. Definitions refresh name/description/icon/reward; unlock
// state is taken from the existing entries. Existing achievements whose ids
// are unknown to the catalog are preserved, never dropped.
func MergeAchievementCatalog(
	defs []AchievementDefinition,
	existing []Achievement,
) []Achievement {
	byID := make(map[string]Achievement, len(existing))
	for _, a := range existing {
		byID[a.ID] = a
	}

	merged := make([]Achievement, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		a := Achievement{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			XPReward:    def.XPReward,
		}
		if prev, ok := byID[def.ID]; ok {
			a.Unlocked = prev.Unlocked
			a.UnlockedAt = prev.UnlockedAt
		}
		merged = append(merged, a)
		seen[def.ID] = true
	}

	// Keep achievements the catalog no longer knows about.
	for _, a := range existing {
		if !seen[a.ID] {
			merged = append(merged, a)
		}
	}

	return merged
}
