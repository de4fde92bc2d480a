package domain

import (
	"time"

	"github.com/google/uuid"
)

// XPPerLevel is the amount of cumulative XP that makes up one level.
const XPPerLevel = 100

// GamificationProfile tracks a user's cumulative experience points, study
// streak and achievements. The level is always derived from XP; no separate
// level field is authoritative.
type GamificationProfile struct {
	UserID       uuid.UUID     `json:"user_id"`
	XP           int           `json:"xp"`
	Streak       int           `json:"streak"` // consecutive study days
	Achievements []Achievement `json:"achievements"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewGamificationProfile creates an empty profile for the given user,
// seeded with the default achievement catalog, all locked.
func NewGamificationProfile(userID uuid.UUID) (*GamificationProfile, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}

	return &GamificationProfile{
		UserID:       userID,
		XP:           0,
		Streak:       0,
		Achievements: DefaultAchievements(),
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

// Level derives the current level from cumulative XP: floor(xp/100)+1.
func (p *GamificationProfile) Level() int {
	return LevelForXP(p.XP)
}

// XPToNextLevel returns how much XP remains until the next level boundary.
func (p *GamificationProfile) XPToNextLevel() int {
	return XPPerLevel - p.XP%XPPerLevel
}

// LevelForXP derives the level for an arbitrary cumulative XP value.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// Achievement returns a pointer to the achievement with the given id, or nil.
func (p *GamificationProfile) Achievement(id string) *Achievement {
	for i := range p.Achievements {
		if p.Achievements[i].ID == id {
			return &p.Achievements[i]
		}
	}
	return nil
}
