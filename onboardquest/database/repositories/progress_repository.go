package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
)

const (
	setCompletedModules  = "completed_modules"
	setCompletedQuizzes  = "completed_quizzes"
	setUnlockedLocations = "unlocked_locations"
)

// ProgressStats are the aggregate figures shown on the HR dashboard.
type ProgressStats struct {
	Users   int64   `bun:"users"`
	AvgXP   float64 `bun:"avg_xp"`
	TotalXP int64   `bun:"total_xp"`
}

// ProgressRepository owns every write to the progress table. Each mutation
// is a single conditional UPDATE so membership, xp and level change together.
type ProgressRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Progress, error)
	// CompleteModule adds moduleID and xp only if the module is not already
	// completed. The bool reports whether the update was applied.
	CompleteModule(ctx context.Context, userID, moduleID string, xp int64) (*models.Progress, bool, error)
	// CompleteQuiz always appends result, then completes the quiz the same
	// way CompleteModule completes a module.
	CompleteQuiz(ctx context.Context, result *models.QuizResult, xp int64) (*models.Progress, bool, error)
	AddXP(ctx context.Context, userID string, xp int64) (*models.Progress, error)
	UnlockLocation(ctx context.Context, userID, locationID string) (*models.Progress, bool, error)
	ListInInsertionOrder(ctx context.Context) ([]models.LeaderboardRow, error)
	Stats(ctx context.Context) (*ProgressStats, error)
	LevelDistribution(ctx context.Context) ([]models.CountByKey, error)
	ModuleCompletionCounts(ctx context.Context) ([]models.CountByKey, error)
	Upsert(ctx context.Context, progress *models.Progress) error
}

type progressRepository struct {
	*BaseRepository
	xpPerLevel int64
}

func NewProgressRepository(db *bun.DB, timeout time.Duration, xpPerLevel int64) ProgressRepository {
	return &progressRepository{
		BaseRepository: NewBaseRepository(db, timeout),
		xpPerLevel:     xpPerLevel,
	}
}

func (r *progressRepository) ensure(ctx context.Context, db bun.IDB, userID string) error {
	_, err := db.NewInsert().
		Model(models.NewProgress(userID)).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *progressRepository) get(ctx context.Context, db bun.IDB, userID string) (*models.Progress, error) {
	progress := new(models.Progress)
	if err := db.NewSelect().Model(progress).Where("user_id = ?", userID).Scan(ctx); err != nil {
		return nil, err
	}
	return progress.Normalize(), nil
}

func (r *progressRepository) GetOrCreate(ctx context.Context, userID string) (*models.Progress, error) {
	var progress *models.Progress
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := r.ensure(ctx, tx, userID); err != nil {
			return err
		}
		var err error
		progress, err = r.get(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, r.HandleErrorWithID("get_or_create", "progress", userID, err)
	}
	return progress, nil
}

// appendToSet adds item to the named jsonb set and awards xp in one
// statement. The NOT @> predicate is re-checked by Postgres on the locked
// row, so concurrent callers cannot both apply the same item.
func (r *progressRepository) appendToSet(ctx context.Context, tx bun.Tx, column, userID, item string, xp int64) (*models.Progress, bool, error) {
	if err := r.ensure(ctx, tx, userID); err != nil {
		return nil, false, err
	}

	progress := new(models.Progress)
	res, err := tx.NewUpdate().
		Model(progress).
		Set("? = ? || jsonb_build_array(?::text)", bun.Ident(column), bun.Ident(column), item).
		Set("xp = xp + ?", xp).
		Set("level = (xp + ?) / ? + 1", xp, r.xpPerLevel).
		Set("updated_at = current_timestamp").
		Where("user_id = ?", userID).
		Where("NOT (? @> jsonb_build_array(?::text))", bun.Ident(column), item).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, false, err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		current, err := r.get(ctx, tx, userID)
		return current, false, err
	}
	return progress.Normalize(), true, nil
}

func (r *progressRepository) CompleteModule(ctx context.Context, userID, moduleID string, xp int64) (*models.Progress, bool, error) {
	var (
		progress *models.Progress
		applied  bool
	)
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		progress, applied, err = r.appendToSet(ctx, tx, setCompletedModules, userID, moduleID, xp)
		return err
	})
	if err != nil {
		return nil, false, r.HandleErrorWithID("complete_module", "progress", userID, err)
	}

	slog.Debug("Module completion recorded",
		slog.String("type", "db"),
		slog.String("user_id", userID),
		slog.String("module_id", moduleID),
		slog.Bool("applied", applied))
	return progress, applied, nil
}

func (r *progressRepository) CompleteQuiz(ctx context.Context, result *models.QuizResult, xp int64) (*models.Progress, bool, error) {
	var (
		progress *models.Progress
		applied  bool
	)
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(result).Returning("*").Exec(ctx); err != nil {
			return err
		}
		var err error
		progress, applied, err = r.appendToSet(ctx, tx, setCompletedQuizzes, result.UserID, result.ModuleID, xp)
		return err
	})
	if err != nil {
		return nil, false, r.HandleErrorWithID("complete_quiz", "progress", result.UserID, err)
	}

	slog.Debug("Quiz attempt recorded",
		slog.String("type", "db"),
		slog.String("user_id", result.UserID),
		slog.String("module_id", result.ModuleID),
		slog.Int("score", result.Score),
		slog.Bool("applied", applied))
	return progress, applied, nil
}

func (r *progressRepository) AddXP(ctx context.Context, userID string, xp int64) (*models.Progress, error) {
	progress := new(models.Progress)
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := r.ensure(ctx, tx, userID); err != nil {
			return err
		}
		return tx.NewUpdate().
			Model(progress).
			Set("xp = xp + ?", xp).
			Set("level = (xp + ?) / ? + 1", xp, r.xpPerLevel).
			Set("updated_at = current_timestamp").
			Where("user_id = ?", userID).
			Returning("*").
			Scan(ctx)
	})
	if err != nil {
		return nil, r.HandleErrorWithID("add_xp", "progress", userID, err)
	}
	return progress.Normalize(), nil
}

func (r *progressRepository) UnlockLocation(ctx context.Context, userID, locationID string) (*models.Progress, bool, error) {
	var (
		progress *models.Progress
		applied  bool
	)
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		progress, applied, err = r.appendToSet(ctx, tx, setUnlockedLocations, userID, locationID, 0)
		return err
	})
	if err != nil {
		return nil, false, r.HandleErrorWithID("unlock_location", "progress", userID, err)
	}
	return progress, applied, nil
}

func (r *progressRepository) ListInInsertionOrder(ctx context.Context) ([]models.LeaderboardRow, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []models.LeaderboardRow
	err := r.db.NewSelect().
		TableExpr("progress AS p").
		ColumnExpr("p.seq, p.user_id, u.name, u.department, p.xp, p.level").
		Join("JOIN users AS u ON u.id = p.user_id").
		OrderExpr("p.seq ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, r.HandleError("list", "progress", err)
	}
	return rows, nil
}

func (r *progressRepository) Stats(ctx context.Context) (*ProgressStats, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	stats := new(ProgressStats)
	err := r.db.NewSelect().
		TableExpr("progress AS p").
		ColumnExpr("count(*) AS users").
		ColumnExpr("coalesce(avg(p.xp), 0)::float8 AS avg_xp").
		ColumnExpr("coalesce(sum(p.xp), 0)::bigint AS total_xp").
		Scan(ctx, stats)
	if err != nil {
		return nil, r.HandleError("stats", "progress", err)
	}
	return stats, nil
}

func (r *progressRepository) LevelDistribution(ctx context.Context) ([]models.CountByKey, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []models.CountByKey
	err := r.db.NewSelect().
		TableExpr("progress AS p").
		ColumnExpr("p.level::text AS key").
		ColumnExpr("count(*) AS count").
		GroupExpr("p.level").
		OrderExpr("p.level ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, r.HandleError("level_distribution", "progress", err)
	}
	return rows, nil
}

func (r *progressRepository) ModuleCompletionCounts(ctx context.Context) ([]models.CountByKey, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []models.CountByKey
	err := r.db.NewRaw(`
		SELECT m.key AS key, count(*) AS count
		FROM progress AS p, jsonb_array_elements_text(p.completed_modules) AS m(key)
		GROUP BY m.key
		ORDER BY m.key ASC`).
		Scan(ctx, &rows)
	if err != nil {
		return nil, r.HandleError("module_completion_counts", "progress", err)
	}
	return rows, nil
}

// Upsert overwrites a progress row. Used by the legacy import only.
func (r *progressRepository) Upsert(ctx context.Context, progress *models.Progress) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	progress.Normalize()
	progress.Level = progress.XP/r.xpPerLevel + 1
	_, err := r.db.NewInsert().
		Model(progress).
		On("CONFLICT (user_id) DO UPDATE").
		Set("xp = EXCLUDED.xp").
		Set("level = EXCLUDED.level").
		Set("completed_modules = EXCLUDED.completed_modules").
		Set("completed_quizzes = EXCLUDED.completed_quizzes").
		Set("unlocked_locations = EXCLUDED.unlocked_locations").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	return r.HandleErrorWithID("upsert", "progress", progress.UserID, err)
}
