package services

import (
	"context"
	"slices"
	"sync"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
)

// memoryProgressRepository applies each mutation under one lock, the same
// all-or-nothing contract the Postgres repository gives with a single
// conditional UPDATE.
type memoryProgressRepository struct {
	mu         sync.Mutex
	xpPerLevel int64
	seq        int64
	rows       map[string]*models.Progress
	results    []*models.QuizResult
}

var _ repositories.ProgressRepository = (*memoryProgressRepository)(nil)

func newMemoryProgressRepository(xpPerLevel int64) *memoryProgressRepository {
	return &memoryProgressRepository{xpPerLevel: xpPerLevel, rows: map[string]*models.Progress{}}
}

func (r *memoryProgressRepository) ensure(userID string) *models.Progress {
	p, ok := r.rows[userID]
	if !ok {
		r.seq++
		p = models.NewProgress(userID)
		p.Seq = r.seq
		r.rows[userID] = p
	}
	return p
}

func snapshot(p *models.Progress) *models.Progress {
	c := *p
	c.CompletedModules = slices.Clone(p.CompletedModules)
	c.CompletedQuizzes = slices.Clone(p.CompletedQuizzes)
	c.UnlockedLocations = slices.Clone(p.UnlockedLocations)
	return &c
}

func (r *memoryProgressRepository) award(p *models.Progress, xp int64) {
	p.XP += xp
	p.Level = p.XP/r.xpPerLevel + 1
}

func (r *memoryProgressRepository) GetOrCreate(_ context.Context, userID string) (*models.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot(r.ensure(userID)), nil
}

func (r *memoryProgressRepository) lookup(_ context.Context, userID string) (*models.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[userID]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "progress", ID: userID}
	}
	return snapshot(p), nil
}

func (r *memoryProgressRepository) CompleteModule(_ context.Context, userID, moduleID string, xp int64) (*models.Progress, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.ensure(userID)
	if slices.Contains(p.CompletedModules, moduleID) {
		return snapshot(p), false, nil
	}
	p.CompletedModules = append(p.CompletedModules, moduleID)
	r.award(p, xp)
	return snapshot(p), true, nil
}

func (r *memoryProgressRepository) CompleteQuiz(_ context.Context, result *models.QuizResult, xp int64) (*models.Progress, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	p := r.ensure(result.UserID)
	if slices.Contains(p.CompletedQuizzes, result.ModuleID) {
		return snapshot(p), false, nil
	}
	p.CompletedQuizzes = append(p.CompletedQuizzes, result.ModuleID)
	r.award(p, xp)
	return snapshot(p), true, nil
}

func (r *memoryProgressRepository) AddXP(_ context.Context, userID string, xp int64) (*models.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.ensure(userID)
	r.award(p, xp)
	return snapshot(p), nil
}

func (r *memoryProgressRepository) UnlockLocation(_ context.Context, userID, locationID string) (*models.Progress, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.ensure(userID)
	if slices.Contains(p.UnlockedLocations, locationID) {
		return snapshot(p), false, nil
	}
	p.UnlockedLocations = append(p.UnlockedLocations, locationID)
	return snapshot(p), true, nil
}

func (r *memoryProgressRepository) ListInInsertionOrder(context.Context) ([]models.LeaderboardRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]models.LeaderboardRow, 0, len(r.rows))
	for _, p := range r.rows {
		rows = append(rows, models.LeaderboardRow{Seq: p.Seq, UserID: p.UserID, Name: p.UserID, XP: p.XP, Level: p.Level})
	}
	slices.SortFunc(rows, func(a, b models.LeaderboardRow) int { return int(a.Seq - b.Seq) })
	return rows, nil
}

func (r *memoryProgressRepository) Stats(context.Context) (*repositories.ProgressStats, error) {
	return &repositories.ProgressStats{}, nil
}

func (r *memoryProgressRepository) LevelDistribution(context.Context) ([]models.CountByKey, error) {
	return nil, nil
}

func (r *memoryProgressRepository) ModuleCompletionCounts(context.Context) ([]models.CountByKey, error) {
	return nil, nil
}

func (r *memoryProgressRepository) Upsert(_ context.Context, progress *models.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.ensure(progress.UserID)
	p.XP = progress.XP
	p.Level = p.XP/r.xpPerLevel + 1
	return nil
}

func (r *memoryProgressRepository) quizResults(userID string) []*models.QuizResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.QuizResult
	for _, res := range r.results {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out
}
