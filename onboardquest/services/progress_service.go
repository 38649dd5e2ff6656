package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/questforge/onboard-quest/onboardquest/content"
	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
	"github.com/questforge/onboard-quest/onboardquest/progression"
)

// Activity types accepted by Record.
const (
	ActivityModule = "module"
	ActivityQuiz   = "quiz"
	ActivityGame   = "game"
)

const maxQuizScore = 100

// ProgressOutcome describes the effect of one progress event. XPGained is 0
// and AlreadyCompleted is true when the event was a repeat.
type ProgressOutcome struct {
	Progress         *models.Progress    `json:"progress"`
	XPGained         int64               `json:"xpGained"`
	AlreadyCompleted bool                `json:"alreadyCompleted"`
	NewBadges        []string            `json:"newBadges"`
	LevelInfo        progression.Summary `json:"levelInfo"`
}

// ProgressUpdate is a completion event as reported by the client.
type ProgressUpdate struct {
	ModuleID string
	Type     string
	Score    *int64
}

// BadgeEvaluator unlocks automatic badges after a progress change.
type BadgeEvaluator interface {
	Evaluate(ctx context.Context, userID string, progress *models.Progress) ([]string, error)
}

// ProgressService is the only place progress rules live. Every mutation
// goes through a single conditional update in the repository.
type ProgressService struct {
	progress repositories.ProgressRepository
	catalog  *content.Catalog
	calc     progression.Calculator
	badges   BadgeEvaluator
}

func NewProgressService(progress repositories.ProgressRepository, catalog *content.Catalog, calc progression.Calculator, badges BadgeEvaluator) *ProgressService {
	return &ProgressService{
		progress: progress,
		catalog:  catalog,
		calc:     calc,
		badges:   badges,
	}
}

// Summarize returns the level breakdown of p, or nil when p is nil.
func (s *ProgressService) Summarize(p *models.Progress) *progression.Summary {
	if p == nil {
		return nil
	}
	summary := s.calc.Summarize(p.XP)
	return &summary
}

func (s *ProgressService) GetOrCreateProgress(ctx context.Context, userID string) (*models.Progress, error) {
	p, err := s.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, translate("get progress", err)
	}
	return p, nil
}

func (s *ProgressService) RecordModuleCompletion(ctx context.Context, userID, moduleID string, xpAward int64) (*ProgressOutcome, error) {
	if xpAward < 0 {
		return nil, NewValidationError("xpAward", "must not be negative")
	}
	p, applied, err := s.progress.CompleteModule(ctx, userID, moduleID, xpAward)
	if err != nil {
		return nil, translate("record module completion", err)
	}
	return s.outcome(ctx, userID, p, applied, xpAward), nil
}

// RecordQuizCompletion logs the attempt unconditionally and awards xpAward
// only the first time the quiz is completed.
func (s *ProgressService) RecordQuizCompletion(ctx context.Context, userID, moduleID string, score int, xpAward int64) (*ProgressOutcome, error) {
	if score < 0 || score > maxQuizScore {
		return nil, NewValidationError("score", "must be between 0 and 100")
	}
	if xpAward < 0 {
		return nil, NewValidationError("xpAward", "must not be negative")
	}

	result := &models.QuizResult{UserID: userID, ModuleID: moduleID, Score: score}
	p, applied, err := s.progress.CompleteQuiz(ctx, result, xpAward)
	if err != nil {
		return nil, translate("record quiz completion", err)
	}
	return s.outcome(ctx, userID, p, applied, xpAward), nil
}

// RecordGameCompletion awards floor(score / 10) on every call. Scores above
// the game's max_score are rejected.
func (s *ProgressService) RecordGameCompletion(ctx context.Context, userID, gameID string, score int64) (*ProgressOutcome, error) {
	maxScore, _ := s.gameMaxScore(gameID)
	if score < 0 || score > maxScore {
		return nil, NewValidationError("score", fmt.Sprintf("must be between 0 and %d", maxScore))
	}
	xp := progression.GameXP(score)
	p, err := s.progress.AddXP(ctx, userID, xp)
	if err != nil {
		return nil, translate("record game completion", err)
	}

	slog.Debug("Game completed",
		slog.String("user_id", userID),
		slog.String("game_id", gameID),
		slog.Int64("score", score),
		slog.Int64("xp", xp))
	return s.outcome(ctx, userID, p, true, xp), nil
}

func (s *ProgressService) UnlockLocation(ctx context.Context, userID, locationID string) (*ProgressOutcome, error) {
	if locationID == "" {
		return nil, NewValidationError("locationId", "is required")
	}
	p, applied, err := s.progress.UnlockLocation(ctx, userID, locationID)
	if err != nil {
		return nil, translate("unlock location", err)
	}
	return s.outcome(ctx, userID, p, applied, 0), nil
}

// Record resolves a client event against the catalog and dispatches it.
func (s *ProgressService) Record(ctx context.Context, userID string, in ProgressUpdate) (*ProgressOutcome, error) {
	switch in.Type {
	case ActivityModule:
		m, ok := s.catalog.Module(in.ModuleID)
		if !ok {
			return nil, fmt.Errorf("module %q: %w", in.ModuleID, ErrNotFound)
		}
		return s.RecordModuleCompletion(ctx, userID, m.ID, m.XP)

	case ActivityQuiz:
		m, ok := s.catalog.Module(in.ModuleID)
		if !ok {
			return nil, fmt.Errorf("module %q: %w", in.ModuleID, ErrNotFound)
		}
		if in.Score == nil {
			return nil, NewValidationError("score", "is required for quiz")
		}
		if *in.Score < 0 || *in.Score > maxQuizScore {
			return nil, NewValidationError("score", "must be between 0 and 100")
		}
		return s.RecordQuizCompletion(ctx, userID, m.ID, int(*in.Score), m.QuizXP)

	case ActivityGame:
		if _, ok := s.gameMaxScore(in.ModuleID); !ok {
			return nil, fmt.Errorf("game %q: %w", in.ModuleID, ErrNotFound)
		}
		if in.Score == nil {
			return nil, NewValidationError("score", "is required for game")
		}
		return s.RecordGameCompletion(ctx, userID, in.ModuleID, *in.Score)

	default:
		return nil, NewValidationError("type", "must be one of module, quiz, game")
	}
}

// SubmitQuiz grades the answers server-side and records the attempt.
func (s *ProgressService) SubmitQuiz(ctx context.Context, userID, moduleID string, answers []int) (*ProgressOutcome, int, error) {
	m, ok := s.catalog.Module(moduleID)
	if !ok {
		return nil, 0, fmt.Errorf("module %q: %w", moduleID, ErrNotFound)
	}
	score, err := s.catalog.ScoreQuiz(m.ID, answers)
	if err != nil {
		return nil, 0, NewValidationError("answers", "expected "+strconv.Itoa(len(m.Questions))+" answers")
	}
	out, err := s.RecordQuizCompletion(ctx, userID, m.ID, score, m.QuizXP)
	if err != nil {
		return nil, 0, err
	}
	return out, score, nil
}

// Games may be reported by game id or by the id of the module they belong to.
// A module id takes the cap of the module's game, or maxQuizScore when the
// module has none.
func (s *ProgressService) gameMaxScore(id string) (int64, bool) {
	if g, ok := s.catalog.Game(id); ok {
		return capOrDefault(g.MaxScore), true
	}
	if _, ok := s.catalog.Module(id); !ok {
		return maxQuizScore, false
	}
	for _, g := range s.catalog.Games() {
		if g.ModuleID == id {
			return capOrDefault(g.MaxScore), true
		}
	}
	return maxQuizScore, true
}

func capOrDefault(maxScore int64) int64 {
	if maxScore <= 0 {
		return maxQuizScore
	}
	return maxScore
}

func (s *ProgressService) outcome(ctx context.Context, userID string, p *models.Progress, applied bool, xp int64) *ProgressOutcome {
	out := &ProgressOutcome{
		Progress:         p,
		AlreadyCompleted: !applied,
		NewBadges:        []string{},
		LevelInfo:        s.calc.Summarize(p.XP),
	}
	if !applied {
		return out
	}
	out.XPGained = xp

	if s.badges != nil {
		unlocked, err := s.badges.Evaluate(ctx, userID, p)
		if err != nil {
			slog.Error("Badge evaluation failed",
				slog.String("user_id", userID),
				slog.Any("error", err))
		} else {
			out.NewBadges = unlocked
		}
	}
	return out
}
