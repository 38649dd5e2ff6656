package models

import (
	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
)

// Repositories groups all repository interfaces for easy injection
type Repositories struct {
	User           repositories.UserRepository
	Progress       repositories.ProgressRepository
	QuizResult     repositories.QuizResultRepository
	Badge          repositories.BadgeRepository
	TrainingModule repositories.TrainingModuleRepository
}

// NewRepositories creates a new repositories group from individual repositories
func NewRepositories(
	user repositories.UserRepository,
	progress repositories.ProgressRepository,
	quizResult repositories.QuizResultRepository,
	badge repositories.BadgeRepository,
	trainingModule repositories.TrainingModuleRepository,
) *Repositories {
	return &Repositories{
		User:           user,
		Progress:       progress,
		QuizResult:     quizResult,
		Badge:          badge,
		TrainingModule: trainingModule,
	}
}
