package services

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
)

type Overview struct {
	TotalUsers        int64                 `json:"totalUsers"`
	AverageXP         float64               `json:"averageXp"`
	TotalXP           int64                 `json:"totalXp"`
	LevelDistribution []models.CountByKey   `json:"levelDistribution"`
	ModuleCompletions []models.CountByKey   `json:"moduleCompletions"`
	QuizAverages      []models.AverageByKey `json:"quizAverages"`
	Departments       []models.CountByKey   `json:"departments"`
}

type AnalyticsService struct {
	users    repositories.UserRepository
	progress repositories.ProgressRepository
	quizzes  repositories.QuizResultRepository
}

func NewAnalyticsService(users repositories.UserRepository, progress repositories.ProgressRepository, quizzes repositories.QuizResultRepository) *AnalyticsService {
	return &AnalyticsService{users: users, progress: progress, quizzes: quizzes}
}

// Overview runs the dashboard aggregates concurrently.
func (s *AnalyticsService) Overview(ctx context.Context) (*Overview, error) {
	out := &Overview{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.progress.Stats(ctx)
		if err != nil {
			return err
		}
		out.TotalUsers = stats.Users
		out.AverageXP = stats.AvgXP
		out.TotalXP = stats.TotalXP
		return nil
	})
	g.Go(func() error {
		rows, err := s.progress.LevelDistribution(ctx)
		out.LevelDistribution = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.progress.ModuleCompletionCounts(ctx)
		out.ModuleCompletions = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.quizzes.AveragesByModule(ctx)
		out.QuizAverages = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.users.CountByDepartment(ctx)
		out.Departments = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, translate("analytics overview", err)
	}
	return out.normalize(), nil
}

// normalize replaces nil aggregates so they serialize as empty arrays.
func (o *Overview) normalize() *Overview {
	if o.LevelDistribution == nil {
		o.LevelDistribution = make([]models.CountByKey, 0)
	}
	if o.ModuleCompletions == nil {
		o.ModuleCompletions = make([]models.CountByKey, 0)
	}
	if o.QuizAverages == nil {
		o.QuizAverages = make([]models.AverageByKey, 0)
	}
	if o.Departments == nil {
		o.Departments = make([]models.CountByKey, 0)
	}
	return o
}

type employeeSource []models.EmployeeProgress

func (e employeeSource) String(i int) string {
	return e[i].Username + " " + e[i].Name
}

func (e employeeSource) Len() int {
	return len(e)
}

// SearchEmployees lists employees with their progress, optionally filtered
// by department and fuzzy matched on username and name. Matches are
// returned best first.
func (s *AnalyticsService) SearchEmployees(ctx context.Context, query, department string) ([]models.EmployeeProgress, error) {
	employees, err := s.users.ListEmployees(ctx, strings.TrimSpace(department))
	if err != nil {
		return nil, translate("search employees", err)
	}
	if employees == nil {
		employees = []models.EmployeeProgress{}
	}
	for i := range employees {
		if employees[i].CompletedModules == nil {
			employees[i].CompletedModules = []string{}
		}
		if employees[i].CompletedQuizzes == nil {
			employees[i].CompletedQuizzes = []string{}
		}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return employees, nil
	}

	matches := fuzzy.FindFrom(query, employeeSource(employees))
	out := make([]models.EmployeeProgress, 0, len(matches))
	for _, m := range matches {
		out = append(out, employees[m.Index])
	}
	return out, nil
}

// QuizHistory returns every quiz attempt of the user, newest first.
func (s *AnalyticsService) QuizHistory(ctx context.Context, userID string) ([]*models.QuizResult, error) {
	results, err := s.quizzes.ListByUser(ctx, userID)
	if err != nil {
		return nil, translate("quiz history", err)
	}
	if results == nil {
		results = []*models.QuizResult{}
	}
	return results, nil
}
