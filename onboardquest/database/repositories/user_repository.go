package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
)

type UserRepository interface {
	// CreateWithProgress inserts the user and its zero-state progress row
	// in one transaction.
	CreateWithProgress(ctx context.Context, user *models.User, progress *models.Progress) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	Upsert(ctx context.Context, user *models.User) error
	CountByDepartment(ctx context.Context) ([]models.CountByKey, error)
	ListEmployees(ctx context.Context, department string) ([]models.EmployeeProgress, error)
}

type userRepository struct {
	*BaseRepository
}

func NewUserRepository(db *bun.DB, timeout time.Duration) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db, timeout)}
}

func (r *userRepository) CreateWithProgress(ctx context.Context, user *models.User, progress *models.Progress) error {
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(user).Returning("*").Exec(ctx); err != nil {
			return err
		}
		progress.UserID = user.ID
		_, err := tx.NewInsert().
			Model(progress.Normalize()).
			On("CONFLICT (user_id) DO NOTHING").
			Returning("*").
			Exec(ctx)
		return err
	})
	if err != nil {
		err = r.HandleErrorWithID("create", "user", user.Username, err)
		if IsConflict(err) {
			return &ConflictError{Entity: "user", Field: "username", Value: user.Username}
		}
		return err
	}

	slog.Debug("User created",
		slog.String("type", "db"),
		slog.String("user_id", user.ID),
		slog.String("username", user.Username))
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().Model(user).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "user", id, err)
	}
	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().Model(user).Where("username = ?", username).Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "user", username, err)
	}
	return user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model(user).
		Set("name = ?", user.Name).
		Set("department = ?", user.Department).
		Set("experience = ?", user.Experience).
		Set("email = ?", user.Email).
		Set("updated_at = current_timestamp").
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("update", "user", user.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Entity: "user", ID: user.ID}
	}
	return nil
}

// Upsert writes a user keyed by id. Used by the legacy import.
func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().
		Model(user).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("department = EXCLUDED.department").
		Set("role = EXCLUDED.role").
		Set("experience = EXCLUDED.experience").
		Set("email = EXCLUDED.email").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	return r.HandleErrorWithID("upsert", "user", user.ID, err)
}

func (r *userRepository) CountByDepartment(ctx context.Context) ([]models.CountByKey, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []models.CountByKey
	err := r.db.NewSelect().
		TableExpr("users AS u").
		ColumnExpr("u.department AS key").
		ColumnExpr("count(*) AS count").
		GroupExpr("u.department").
		OrderExpr("u.department ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, r.HandleError("count_by_department", "user", err)
	}
	return rows, nil
}

func (r *userRepository) ListEmployees(ctx context.Context, department string) ([]models.EmployeeProgress, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var rows []models.EmployeeProgress
	q := r.db.NewSelect().
		TableExpr("users AS u").
		ColumnExpr("u.id AS user_id, u.username, u.name, u.department, u.role").
		ColumnExpr("coalesce(p.xp, 0) AS xp, coalesce(p.level, 1) AS level").
		ColumnExpr("coalesce(p.completed_modules, '[]'::jsonb) AS completed_modules").
		ColumnExpr("coalesce(p.completed_quizzes, '[]'::jsonb) AS completed_quizzes").
		Join("LEFT JOIN progress AS p ON p.user_id = u.id").
		OrderExpr("u.name ASC")
	if department != "" {
		q = q.Where("lower(u.department) = lower(?)", department)
	}
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, r.HandleError("list_employees", "user", err)
	}
	return rows, nil
}
