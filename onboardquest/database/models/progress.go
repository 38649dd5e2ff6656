package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Progress is the per-user gamification state. Seq records insertion order
// and breaks leaderboard ties.
type Progress struct {
	bun.BaseModel `bun:"table:progress,alias:p"`

	Seq               int64     `bun:"seq,pk,autoincrement" json:"-"`
	UserID            string    `bun:"user_id,notnull,unique" json:"userId"`
	Level             int64     `bun:"level,notnull,default:1" json:"level"`
	XP                int64     `bun:"xp,notnull,default:0" json:"xp"`
	CompletedModules  []string  `bun:"completed_modules,type:jsonb,notnull" json:"completedModules"`
	CompletedQuizzes  []string  `bun:"completed_quizzes,type:jsonb,notnull" json:"completedQuizzes"`
	UnlockedLocations []string  `bun:"unlocked_locations,type:jsonb,notnull" json:"unlockedLocations"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt         time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// NewProgress returns the zero state every user starts from.
func NewProgress(userID string) *Progress {
	return &Progress{
		UserID:            userID,
		Level:             1,
		XP:                0,
		CompletedModules:  []string{},
		CompletedQuizzes:  []string{},
		UnlockedLocations: []string{},
	}
}

// Normalize replaces nil sets so they serialize as empty arrays.
func (p *Progress) Normalize() *Progress {
	if p.CompletedModules == nil {
		p.CompletedModules = []string{}
	}
	if p.CompletedQuizzes == nil {
		p.CompletedQuizzes = []string{}
	}
	if p.UnlockedLocations == nil {
		p.UnlockedLocations = []string{}
	}
	return p
}
