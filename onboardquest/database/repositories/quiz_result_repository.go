package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
)

type QuizResultRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*models.QuizResult, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	AveragesByModule(ctx context.Context) ([]models.AverageByKey, error)
}

type quizResultRepository struct {
	*BaseRepository
}

func NewQuizResultRepository(db *bun.DB, timeout time.Duration) QuizResultRepository {
	return &quizResultRepository{BaseRepository: NewBaseRepository(db, timeout)}
}

func (r *quizResultRepository) ListByUser(ctx context.Context, userID string) ([]*models.QuizResult, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var results []*models.QuizResult
	err := r.db.NewSelect().
		Model(&results).
		Where("user_id = ?", userID).
		OrderExpr("completed_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("list", "quiz_result", userID, err)
	}
	return results, nil
}

func (r *quizResultRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.db.NewSelect().
		Model((*models.QuizResult)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, r.HandleErrorWithID("count", "quiz_result", userID, err)
	}
	return count, nil
}

func (r *quizResultRepository) AveragesByModule(ctx context.Context) ([]models.AverageByKey, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []models.AverageByKey
	err := r.db.NewSelect().
		TableExpr("quiz_results AS qr").
		ColumnExpr("qr.module_id AS key").
		ColumnExpr("avg(qr.score)::float8 AS average").
		ColumnExpr("count(*) AS count").
		GroupExpr("qr.module_id").
		OrderExpr("qr.module_id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, r.HandleError("averages", "quiz_result", err)
	}
	return rows, nil
}
