package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/questforge/onboard-quest/onboardquest/database/models"
)

type TrainingModuleRepository interface {
	Upsert(ctx context.Context, module *models.TrainingModule) error
	GetByID(ctx context.Context, moduleID string) (*models.TrainingModule, error)
	List(ctx context.Context) ([]*models.TrainingModule, error)
}

type trainingModuleRepository struct {
	*BaseRepository
}

func NewTrainingModuleRepository(db *bun.DB, timeout time.Duration) TrainingModuleRepository {
	return &trainingModuleRepository{BaseRepository: NewBaseRepository(db, timeout)}
}

// Upsert keeps an existing file reference when the new upload omits it.
func (r *trainingModuleRepository) Upsert(ctx context.Context, module *models.TrainingModule) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().
		Model(module).
		On("CONFLICT (module_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("title = EXCLUDED.title").
		Set("duration = EXCLUDED.duration").
		Set("presentation_ref = coalesce(nullif(EXCLUDED.presentation_ref, ''), tm.presentation_ref)").
		Set("infographic_ref = coalesce(nullif(EXCLUDED.infographic_ref, ''), tm.infographic_ref)").
		Set("uploaded_by = EXCLUDED.uploaded_by").
		Set("updated_at = current_timestamp").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("upsert", "training_module", module.ModuleID, err)
	}

	slog.Debug("Training module saved",
		slog.String("type", "db"),
		slog.String("module_id", module.ModuleID),
		slog.String("uploaded_by", module.UploadedBy))
	return nil
}

func (r *trainingModuleRepository) GetByID(ctx context.Context, moduleID string) (*models.TrainingModule, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	module := new(models.TrainingModule)
	if err := r.db.NewSelect().Model(module).Where("module_id = ?", moduleID).Scan(ctx); err != nil {
		return nil, r.HandleErrorWithID("get", "training_module", moduleID, err)
	}
	return module, nil
}

func (r *trainingModuleRepository) List(ctx context.Context) ([]*models.TrainingModule, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var modules []*models.TrainingModule
	if err := r.db.NewSelect().Model(&modules).OrderExpr("module_id ASC").Scan(ctx); err != nil {
		return nil, r.HandleError("list", "training_module", err)
	}
	return modules, nil
}
