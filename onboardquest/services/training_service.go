package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/questforge/onboard-quest/onboardquest/content"
	"github.com/questforge/onboard-quest/onboardquest/database/models"
	"github.com/questforge/onboard-quest/onboardquest/database/repositories"
)

var (
	presentationExts = map[string]struct{}{".pdf": {}, ".ppt": {}, ".pptx": {}, ".zip": {}}
	infographicExts  = map[string]struct{}{".png": {}, ".jpg": {}, ".jpeg": {}, ".svg": {}, ".pdf": {}}
)

type FileInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadInput struct {
	ModuleID     string
	Name         string
	Title        string
	Duration     string
	UploadedBy   string
	Presentation *FileInput
	Infographic  *FileInput
}

// ModuleMaterial is a catalog module with the admin-uploaded material, if any.
type ModuleMaterial struct {
	content.Module
	Material *models.TrainingModule `json:"material,omitempty"`
}

type TrainingService struct {
	repo    repositories.TrainingModuleRepository
	store   FileStore
	catalog *content.Catalog
}

func NewTrainingService(repo repositories.TrainingModuleRepository, store FileStore, catalog *content.Catalog) *TrainingService {
	return &TrainingService{repo: repo, store: store, catalog: catalog}
}

// Upload stores the given files and upserts the module record. Files that
// are not supplied keep their previous reference.
func (s *TrainingService) Upload(ctx context.Context, in UploadInput) (*models.TrainingModule, error) {
	if _, ok := s.catalog.Module(in.ModuleID); !ok {
		return nil, fmt.Errorf("module %q: %w", in.ModuleID, ErrNotFound)
	}

	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "is required"
	}
	if strings.TrimSpace(in.Duration) == "" {
		fields["duration"] = "is required"
	}
	if in.Presentation != nil && !allowedExt(in.Presentation.Filename, presentationExts) {
		fields["presentation"] = "unsupported file type"
	}
	if in.Infographic != nil && !allowedExt(in.Infographic.Filename, infographicExts) {
		fields["infographic"] = "unsupported file type"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	module := &models.TrainingModule{
		ModuleID:   in.ModuleID,
		Name:       strings.TrimSpace(in.Name),
		Title:      strings.TrimSpace(in.Title),
		Duration:   strings.TrimSpace(in.Duration),
		UploadedBy: in.UploadedBy,
	}

	var (
		stored []string
		key    string
		err    error
	)
	if in.Presentation != nil {
		if key, module.PresentationRef, err = s.put(ctx, in.ModuleID, "presentation", in.Presentation); err != nil {
			return nil, err
		}
		stored = append(stored, key)
	}
	if in.Infographic != nil {
		if key, module.InfographicRef, err = s.put(ctx, in.ModuleID, "infographic", in.Infographic); err != nil {
			s.discard(ctx, stored)
			return nil, err
		}
		stored = append(stored, key)
	}

	if err := s.repo.Upsert(ctx, module); err != nil {
		s.discard(ctx, stored)
		return nil, translate("upload training module", err)
	}

	slog.Info("Training module uploaded",
		slog.String("module_id", module.ModuleID),
		slog.String("uploaded_by", module.UploadedBy),
		slog.Bool("presentation", in.Presentation != nil),
		slog.Bool("infographic", in.Infographic != nil))
	return module, nil
}

func (s *TrainingService) put(ctx context.Context, moduleID, kind string, f *FileInput) (key, ref string, err error) {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	key = fmt.Sprintf("training/%s/%s-%s%s", moduleID, kind, uuid.NewString(), ext)
	ref, err = s.store.Put(ctx, key, f.ContentType, f.Body, f.Size)
	if err != nil {
		return "", "", fmt.Errorf("store %s: %w: %w", kind, ErrStorageUnavailable, err)
	}
	return key, ref, nil
}

// discard removes objects stored for an upload that was not recorded.
func (s *TrainingService) discard(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			slog.Warn("Orphaned training material left in store",
				slog.String("key", key),
				slog.Any("error", err))
		}
	}
}

func (s *TrainingService) List(ctx context.Context) ([]*models.TrainingModule, error) {
	modules, err := s.repo.List(ctx)
	if err != nil {
		return nil, translate("list training modules", err)
	}
	return modules, nil
}

func (s *TrainingService) Get(ctx context.Context, moduleID string) (*models.TrainingModule, error) {
	module, err := s.repo.GetByID(ctx, moduleID)
	if err != nil {
		return nil, translate("get training module", err)
	}
	return module, nil
}

// Catalog joins every catalog module with its uploaded material.
func (s *TrainingService) Catalog(ctx context.Context) ([]ModuleMaterial, error) {
	uploaded, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.TrainingModule, len(uploaded))
	for _, m := range uploaded {
		byID[m.ModuleID] = m
	}

	modules := s.catalog.Modules()
	out := make([]ModuleMaterial, len(modules))
	for i, m := range modules {
		out[i] = ModuleMaterial{Module: m, Material: byID[m.ID]}
	}
	return out, nil
}

// ModuleDetail returns one catalog module with its material.
func (s *TrainingService) ModuleDetail(ctx context.Context, moduleID string) (*ModuleMaterial, error) {
	m, ok := s.catalog.Module(moduleID)
	if !ok {
		return nil, fmt.Errorf("module %q: %w", moduleID, ErrNotFound)
	}
	material, err := s.Get(ctx, moduleID)
	if errors.Is(err, ErrNotFound) {
		material, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ModuleMaterial{Module: m, Material: material}, nil
}

func allowedExt(filename string, allowed map[string]struct{}) bool {
	_, ok := allowed[strings.ToLower(filepath.Ext(filename))]
	return ok
}
