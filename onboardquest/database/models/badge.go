package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BadgeUnlock struct {
	bun.BaseModel `bun:"table:badge_unlocks,alias:bu"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID     string    `bun:"user_id,notnull,unique:badge_unlocks_user_badge" json:"userId"`
	BadgeID    string    `bun:"badge_id,notnull,unique:badge_unlocks_user_badge" json:"badgeId"`
	UnlockedAt time.Time `bun:"unlocked_at,notnull,default:current_timestamp" json:"unlockedAt"`
}
