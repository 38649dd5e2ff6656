package migration

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LegacyUser is a document from the old users collection. Passwords were
// stored in plain text.
type LegacyUser struct {
	ID         primitive.ObjectID `bson:"_id"`
	Username   string             `bson:"username"`
	Password   string             `bson:"password"`
	Name       string             `bson:"name"`
	Department string             `bson:"department"`
	Role       string             `bson:"role"`
	Experience string             `bson:"experience"`
	Email      string             `bson:"email,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

// LegacyProgress numbers are float64 because the old store mixed int32
// and double values.
type LegacyProgress struct {
	ID                primitive.ObjectID `bson:"_id"`
	UserID            primitive.ObjectID `bson:"userId"`
	Level             float64            `bson:"level"`
	XP                float64            `bson:"xp"`
	CompletedModules  []string           `bson:"completedModules"`
	CompletedQuizzes  []string           `bson:"completedQuizzes"`
	UnlockedLocations []string           `bson:"unlockedLocations"`
}

type LegacyQuizResult struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      primitive.ObjectID `bson:"userId"`
	ModuleID    string             `bson:"moduleId"`
	Score       float64            `bson:"score"`
	CompletedAt time.Time          `bson:"completedAt"`
}

type LegacyBadge struct {
	ID         primitive.ObjectID `bson:"_id"`
	UserID     primitive.ObjectID `bson:"userId"`
	BadgeID    string             `bson:"badgeId"`
	UnlockedAt time.Time          `bson:"unlockedAt"`
}

// Summary counts what an import wrote and skipped.
type Summary struct {
	Users              int
	DuplicateUsers     int
	Progress           int
	QuizResults        int64
	SkippedQuizResults int
	Badges             int
	DuplicateBadges    int
	SkippedOrphans     int
}
