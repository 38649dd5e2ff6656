package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/questforge/onboard-quest/onboardquest/content"
	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
	"github.com/questforge/onboard-quest/onboardquest/progression"
	"github.com/questforge/onboard-quest/onboardquest/services/mock"
)

func newTestProgressService(t *testing.T) (*ProgressService, *memoryProgressRepository) {
	t.Helper()
	repo := newMemoryProgressRepository(100)
	return NewProgressService(repo, content.MustLoad(), progression.NewCalculator(100), nil), repo
}

func int64Ptr(v int64) *int64 { return &v }

func TestOnboardingScenario(t *testing.T) {
	svc, repo := newTestProgressService(t)
	ctx := context.Background()

	p, err := svc.GetOrCreateProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Level)
	assert.Equal(t, int64(0), p.XP)
	assert.Empty(t, p.CompletedModules)
	assert.Empty(t, p.CompletedQuizzes)

	out, err := svc.Record(ctx, "u1", ProgressUpdate{ModuleID: "btss", Type: ActivityModule})
	require.NoError(t, err)
	assert.Equal(t, int64(50), out.XPGained)
	assert.Equal(t, int64(50), out.Progress.XP)
	assert.Equal(t, int64(1), out.Progress.Level)
	assert.Equal(t, []string{"btss"}, out.Progress.CompletedModules)

	out, err = svc.Record(ctx, "u1", ProgressUpdate{ModuleID: "btss", Type: ActivityQuiz, Score: int64Ptr(80)})
	require.NoError(t, err)
	assert.Equal(t, int64(25), out.XPGained)
	assert.Equal(t, int64(75), out.Progress.XP)
	assert.Equal(t, []string{"btss"}, out.Progress.CompletedQuizzes)

	out, err = svc.Record(ctx, "u1", ProgressUpdate{ModuleID: "btss", Type: ActivityModule})
	require.NoError(t, err)
	assert.True(t, out.AlreadyCompleted)
	assert.Equal(t, int64(0), out.XPGained)
	assert.Equal(t, int64(75), out.Progress.XP)
	assert.Equal(t, []string{"btss"}, out.Progress.CompletedModules)

	for _, id := range []string{"csis", "hrpol", "tools", "comp", "cult"} {
		_, err := svc.Record(ctx, "u1", ProgressUpdate{ModuleID: id, Type: ActivityModule})
		require.NoError(t, err)
	}

	p, err = repo.lookup(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(325), p.XP)
	assert.Equal(t, int64(4), p.Level)
	assert.Len(t, p.CompletedModules, 6)
}

func TestConcurrentModuleCompletionAwardsOnce(t *testing.T) {
	svc, repo := newTestProgressService(t)
	ctx := context.Background()

	const workers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		awarded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := svc.RecordModuleCompletion(ctx, "u1", "btss", 50)
			if !assert.NoError(t, err) {
				return
			}
			if out.XPGained > 0 {
				mu.Lock()
				awarded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, awarded)
	p, err := repo.lookup(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), p.XP)
	assert.Equal(t, []string{"btss"}, p.CompletedModules)
}

func TestQuizAttemptsAreAlwaysLogged(t *testing.T) {
	svc, repo := newTestProgressService(t)
	ctx := context.Background()

	for _, score := range []int{40, 90, 100} {
		_, err := svc.RecordQuizCompletion(ctx, "u1", "csis", score, 25)
		require.NoError(t, err)
	}

	results := repo.quizResults("u1")
	require.Len(t, results, 3)
	assert.Equal(t, 90, results[1].Score)

	p, _ := repo.lookup(ctx, "u1")
	assert.Equal(t, int64(25), p.XP)
}

func TestGameCompletionAwardsEveryTime(t *testing.T) {
	svc, _ := newTestProgressService(t)
	ctx := context.Background()

	out, err := svc.Record(ctx, "u1", ProgressUpdate{ModuleID: "phishing-hunt", Type: ActivityGame, Score: int64Ptr(87)})
	require.NoError(t, err)
	assert.Equal(t, int64(8), out.XPGained)
	assert.False(t, out.AlreadyCompleted)

	out, err = svc.Record(ctx, "u1", ProgressUpdate{ModuleID: "csis", Type: ActivityGame, Score: int64Ptr(100)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.XPGained)
	assert.Equal(t, int64(18), out.Progress.XP)
}

func TestGameScoreAboveMaxScoreIsRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockProgressRepository(ctrl)
	repo.EXPECT().AddXP(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	svc := NewProgressService(repo, content.MustLoad(), progression.NewCalculator(100), nil)
	ctx := context.Background()

	for _, in := range []ProgressUpdate{
		{ModuleID: "phishing-hunt", Type: ActivityGame, Score: int64Ptr(101)},
		{ModuleID: "csis", Type: ActivityGame, Score: int64Ptr(9223372036854775807)},
		{ModuleID: "hrpol", Type: ActivityGame, Score: int64Ptr(101)},
	} {
		_, err := svc.Record(ctx, "u1", in)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, in.ModuleID)
		assert.Equal(t, "must be between 0 and 100", ve.Fields["score"])
	}

	_, err := svc.RecordGameCompletion(ctx, "u1", "tool-sort", 1<<40)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestLevelAlwaysFollowsXP(t *testing.T) {
	svc, _ := newTestProgressService(t)
	ctx := context.Background()
	calc := progression.NewCalculator(100)

	check := func(out *ProgressOutcome) {
		assert.Equal(t, calc.Level(out.Progress.XP), out.Progress.Level)
		assert.Equal(t, out.Progress.Level, out.LevelInfo.Level)
		assert.Equal(t, out.Progress.XP, out.LevelInfo.XP)
		assert.Equal(t, *svc.Summarize(out.Progress), out.LevelInfo)
	}

	for i := 0; i < 20; i++ {
		out, err := svc.RecordGameCompletion(ctx, "u1", "memory-match", int64(i*37%101))
		require.NoError(t, err)
		check(out)
	}
	out, err := svc.RecordModuleCompletion(ctx, "u1", "cult", 50)
	require.NoError(t, err)
	check(out)
	out, err = svc.RecordQuizCompletion(ctx, "u1", "cult", 70, 25)
	require.NoError(t, err)
	check(out)
}

func TestSummarizeProgress(t *testing.T) {
	svc, _ := newTestProgressService(t)

	assert.Nil(t, svc.Summarize(nil))
	s := svc.Summarize(&models.Progress{XP: 175, Level: 2})
	require.NotNil(t, s)
	assert.Equal(t, progression.Summary{Level: 2, XP: 175, LevelStartXP: 100, XPIntoLevel: 75, XPToNextLevel: 25, XPPerLevel: 100}, *s)
}

func TestRecordValidation(t *testing.T) {
	svc, _ := newTestProgressService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    ProgressUpdate
		field string
		isNF  bool
	}{
		{"unknown module", ProgressUpdate{ModuleID: "nope", Type: ActivityModule}, "", true},
		{"unknown quiz module", ProgressUpdate{ModuleID: "nope", Type: ActivityQuiz, Score: int64Ptr(10)}, "", true},
		{"unknown game", ProgressUpdate{ModuleID: "nope", Type: ActivityGame, Score: int64Ptr(10)}, "", true},
		{"bad type", ProgressUpdate{ModuleID: "btss", Type: "boss"}, "type", false},
		{"quiz without score", ProgressUpdate{ModuleID: "btss", Type: ActivityQuiz}, "score", false},
		{"quiz score too high", ProgressUpdate{ModuleID: "btss", Type: ActivityQuiz, Score: int64Ptr(101)}, "score", false},
		{"game without score", ProgressUpdate{ModuleID: "btss", Type: ActivityGame}, "score", false},
		{"negative game score", ProgressUpdate{ModuleID: "btss", Type: ActivityGame, Score: int64Ptr(-1)}, "score", false},
		{"game score too high", ProgressUpdate{ModuleID: "strategy-puzzle", Type: ActivityGame, Score: int64Ptr(101)}, "score", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Record(ctx, "u1", tt.in)
			require.Error(t, err)
			if tt.isNF {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestSubmitQuizScoresServerSide(t *testing.T) {
	svc, repo := newTestProgressService(t)
	ctx := context.Background()
	catalog := content.MustLoad()

	m, _ := catalog.Module("csis")
	answers := make([]int, len(m.Questions))
	for i, q := range m.Questions {
		answers[i] = q.Answer
	}

	out, score, err := svc.SubmitQuiz(ctx, "u1", "csis", answers)
	require.NoError(t, err)
	assert.Equal(t, 100, score)
	assert.Equal(t, int64(25), out.XPGained)
	assert.Equal(t, 100, repo.quizResults("u1")[0].Score)

	_, _, err = svc.SubmitQuiz(ctx, "u1", "csis", []int{1})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestUnlockLocationIsIdempotent(t *testing.T) {
	svc, _ := newTestProgressService(t)
	ctx := context.Background()

	out, err := svc.UnlockLocation(ctx, "u1", "headquarters")
	require.NoError(t, err)
	assert.False(t, out.AlreadyCompleted)

	out, err = svc.UnlockLocation(ctx, "u1", "headquarters")
	require.NoError(t, err)
	assert.True(t, out.AlreadyCompleted)
	assert.Equal(t, []string{"headquarters"}, out.Progress.UnlockedLocations)
	assert.Equal(t, int64(0), out.Progress.XP)
}

func TestProgressErrorsAreTranslated(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockProgressRepository(ctrl)
	svc := NewProgressService(repo, content.MustLoad(), progression.NewCalculator(100), nil)
	ctx := context.Background()

	repo.EXPECT().CompleteModule(ctx, "u1", "btss", int64(50)).
		Return(nil, false, &repositories.RepositoryError{Operation: "complete_module", Entity: "progress", Err: errors.New("connection reset")})
	_, err := svc.RecordModuleCompletion(ctx, "u1", "btss", 50)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	repo.EXPECT().AddXP(ctx, "ghost", int64(5)).
		Return(nil, &repositories.NotFoundError{Entity: "user", ID: "ghost"})
	_, err = svc.RecordGameCompletion(ctx, "ghost", "tool-sort", 55)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, repositories.IsNotFound(err))

	repo.EXPECT().GetOrCreate(ctx, "u1").Return(nil, context.DeadlineExceeded)
	_, err = svc.GetOrCreateProgress(ctx, "u1")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestAppliedCompletionEvaluatesBadges(t *testing.T) {
	ctrl := gomock.NewController(t)
	badgeRepo := mock.NewMockBadgeRepository(ctrl)
	catalog := content.MustLoad()
	badges := NewBadgeService(badgeRepo, catalog)
	repo := newMemoryProgressRepository(100)
	svc := NewProgressService(repo, catalog, progression.NewCalculator(100), badges)
	ctx := context.Background()

	badgeRepo.EXPECT().ListByUser(ctx, "u1").Return(nil, nil)
	badgeRepo.EXPECT().Unlock(ctx, "u1", "first-steps").Return(&models.BadgeUnlock{UserID: "u1", BadgeID: "first-steps"}, true, nil)

	out, err := svc.RecordModuleCompletion(ctx, "u1", "btss", 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"first-steps"}, out.NewBadges)

	out, err = svc.RecordModuleCompletion(ctx, "u1", "btss", 50)
	require.NoError(t, err)
	assert.Empty(t, out.NewBadges)
}
