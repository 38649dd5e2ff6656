package models

// LeaderboardRow is a progress row joined with its owner's display fields.
type LeaderboardRow struct {
	Seq        int64  `bun:"seq"`
	UserID     string `bun:"user_id"`
	Name       string `bun:"name"`
	Department string `bun:"department"`
	XP         int64  `bun:"xp"`
	Level      int64  `bun:"level"`
}

// EmployeeProgress is the HR view of one employee.
type EmployeeProgress struct {
	UserID           string   `bun:"user_id" json:"userId"`
	Username         string   `bun:"username" json:"username"`
	Name             string   `bun:"name" json:"name"`
	Department       string   `bun:"department" json:"department"`
	Role             string   `bun:"role" json:"role"`
	XP               int64    `bun:"xp" json:"xp"`
	Level            int64    `bun:"level" json:"level"`
	CompletedModules []string `bun:"completed_modules,type:jsonb" json:"completedModules"`
	CompletedQuizzes []string `bun:"completed_quizzes,type:jsonb" json:"completedQuizzes"`
}

type CountByKey struct {
	Key   string `bun:"key" json:"key"`
	Count int64  `bun:"count" json:"count"`
}

type AverageByKey struct {
	Key     string  `bun:"key" json:"key"`
	Average float64 `bun:"average" json:"average"`
	Count   int64   `bun:"count" json:"count"`
}
