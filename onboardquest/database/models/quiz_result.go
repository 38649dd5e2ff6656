package models

import (
	"time"

	"github.com/uptrace/bun"
)

// QuizResult is an append-only record of a single quiz attempt.
type QuizResult struct {
	bun.BaseModel `bun:"table:quiz_results,alias:qr"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID      string    `bun:"user_id,notnull" json:"userId"`
	ModuleID    string    `bun:"module_id,notnull" json:"moduleId"`
	Score       int       `bun:"score,notnull" json:"score"`
	CompletedAt time.Time `bun:"completed_at,notnull,default:current_timestamp" json:"completedAt"`
}
