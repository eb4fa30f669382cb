package generationrepo

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/database/entities"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// Repository handles generation and generated file persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FilesInCreationOrder orders files the way "first file" is defined.
func FilesInCreationOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

func (r *Repository) Create(ctx context.Context, g *domain.Generation) error {
	entity := toEntity(g)
	if err := r.db.WithContext(ctx).Omit("Files").Create(&entity).Error; err != nil {
		return dbError(ctx, "failed to create generation", err, "generation-create-failed")
	}
	*g = ToDomain(entity)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Generation, error) {
	g, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"Generation not found", nil, "generation-not-found", map[string]any{"generation_id": id})
	}
	return g, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Generation, error) {
	var entity entities.Generation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError(ctx, "failed to get generation", err, "generation-get-failed")
	}
	g := ToDomain(entity)
	return &g, nil
}

// MarkQueued moves a pending generation to queued. A generation that left
// pending meanwhile keeps its status and only gains the task id if it has none.
func (r *Repository) MarkQueued(ctx context.Context, id string, taskID string) (*domain.Generation, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Generation{}).
			Where("id = ? AND status = ?", id, string(domain.StatusPending)).
			Updates(map[string]any{
				"status":            string(domain.StatusQueued),
				"scheduler_task_id": taskID,
				"error_message":     nil,
			})
		if res.Error != nil || res.RowsAffected > 0 {
			return res.Error
		}
		return tx.Model(&entities.Generation{}).
			Where("id = ? AND scheduler_task_id IS NULL", id).
			Update("scheduler_task_id", taskID).Error
	})
	if err != nil {
		return nil, dbError(ctx, "failed to mark generation queued", err, "generation-queue-failed")
	}
	return r.GetByID(ctx, id)
}

// FailPending marks a generation failed only while it is still pending.
func (r *Repository) FailPending(ctx context.Context, id string, message string) (*domain.Generation, error) {
	res := r.db.WithContext(ctx).Model(&entities.Generation{}).
		Where("id = ? AND status = ?", id, string(domain.StatusPending)).
		Updates(map[string]any{
			"status":        string(domain.StatusFailed),
			"error_message": message,
		})
	if res.Error != nil {
		return nil, dbError(ctx, "failed to update generation", res.Error, "generation-update-failed")
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) MarkFailed(ctx context.Context, id string, message string) (*domain.Generation, error) {
	return r.update(ctx, id, map[string]any{
		"status":        string(domain.StatusFailed),
		"error_message": message,
	})
}

func (r *Repository) update(ctx context.Context, id string, values map[string]any) (*domain.Generation, error) {
	res := r.db.WithContext(ctx).Model(&entities.Generation{ID: id}).Updates(values)
	if res.Error != nil {
		return nil, dbError(ctx, "failed to update generation", res.Error, "generation-update-failed")
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Complete(ctx context.Context, id string, files []domain.File, warning *string) (*domain.Generation, error) {
	rows := make([]entities.GeneratedFile, 0, len(files))
	for _, f := range files {
		rows = append(rows, toFileEntity(f))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return tx.Model(&entities.Generation{ID: id}).Updates(map[string]any{
			"status":            string(domain.StatusCompleted),
			"moderation_status": string(domain.ModerationPending),
			"error_message":     warning,
		}).Error
	})
	if err != nil {
		return nil, dbError(ctx, "failed to complete generation", err, "generation-complete-failed")
	}

	g, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Files = MapFiles(rows)
	return g, nil
}

func (r *Repository) GetFile(ctx context.Context, id int64) (*domain.File, error) {
	var entity entities.GeneratedFile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"GeneratedFile not found", err, "generated-file-not-found", map[string]any{"generated_file_id": id})
		}
		return nil, dbError(ctx, "failed to get generated file", err, "generated-file-get-failed")
	}
	f := ToDomainFile(entity)
	return &f, nil
}

func (r *Repository) FirstFile(ctx context.Context, generationID string) (*domain.File, error) {
	var entity entities.GeneratedFile
	err := FilesInCreationOrder(r.db.WithContext(ctx).Where("generation_id = ?", generationID)).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError(ctx, "failed to get first generated file", err, "generated-file-first-failed")
	}
	f := ToDomainFile(entity)
	return &f, nil
}

func (r *Repository) FileExistsByPath(ctx context.Context, path string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.GeneratedFile{}).Where("file_path = ?", path).Count(&count).Error; err != nil {
		return false, dbError(ctx, "failed to check generated file", err, "generated-file-exists-failed")
	}
	return count > 0, nil
}

func (r *Repository) CreateImported(ctx context.Context, g *domain.Generation, f *domain.File) error {
	generation := toEntity(g)
	file := toFileEntity(*f)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Files").Create(&generation).Error; err != nil {
			return err
		}
		file.GenerationID = generation.ID
		return tx.Create(&file).Error
	})
	if err != nil {
		return dbError(ctx, "failed to import generation", err, "generation-import-failed")
	}
	*g = ToDomain(generation)
	*f = ToDomainFile(file)
	g.Files = []domain.File{*f}
	return nil
}

func (r *Repository) ListForProjects(ctx context.Context, collectionID int64, projectIDs []string, statuses []domain.Status) ([]domain.Generation, error) {
	if len(projectIDs) == 0 {
		return []domain.Generation{}, nil
	}
	query := r.db.WithContext(ctx).
		Preload("Files", FilesInCreationOrder).
		Where("collection_id = ? AND project_id IN ?", collectionID, projectIDs)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(statuses))
	}

	var rows []entities.Generation
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, dbError(ctx, "failed to list generations", err, "generation-list-failed")
	}
	return MapAll(rows), nil
}

func (r *Repository) ProjectIDsWithGenerations(ctx context.Context, collectionID int64, statuses []domain.Status) ([]string, error) {
	query := r.db.WithContext(ctx).Model(&entities.Generation{}).Where("collection_id = ?", collectionID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(statuses))
	}
	ids := []string{}
	if err := query.Distinct().Order("project_id").Pluck("project_id", &ids).Error; err != nil {
		return nil, dbError(ctx, "failed to list projects with generations", err, "generation-projects-failed")
	}
	return ids, nil
}

func statusStrings(statuses []domain.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func dbError(ctx context.Context, message string, err error, id string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, message, err, id)
}

func toEntity(g *domain.Generation) entities.Generation {
	params := datatypes.JSONMap(g.GenerationParams)
	if params == nil {
		params = datatypes.JSONMap{}
	}
	return entities.Generation{
		ID:                  g.ID,
		ProjectID:           g.ProjectID,
		CollectionID:        g.CollectionID,
		SchedulerTaskID:     g.SchedulerTaskID,
		Status:              string(g.Status),
		ModerationStatus:    string(g.ModerationStatus),
		FinalPositivePrompt: g.FinalPositivePrompt,
		FinalNegativePrompt: g.FinalNegativePrompt,
		GenerationParams:    params,
		ErrorMessage:        g.ErrorMessage,
		CreatedAt:           g.CreatedAt,
		UpdatedAt:           g.UpdatedAt,
	}
}

func toFileEntity(f domain.File) entities.GeneratedFile {
	return entities.GeneratedFile{
		ID:               f.ID,
		GenerationID:     f.GenerationID,
		FilePath:         f.FilePath,
		OriginalFilename: f.OriginalFilename,
		MimeType:         f.MimeType,
		SizeBytes:        f.SizeBytes,
		Infotext:         f.Infotext,
		CreatedAt:        f.CreatedAt,
	}
}

// ToDomain maps a generation row with any preloaded files.
func ToDomain(entity entities.Generation) domain.Generation {
	g := domain.Generation{
		ID:                  entity.ID,
		ProjectID:           entity.ProjectID,
		CollectionID:        entity.CollectionID,
		SchedulerTaskID:     entity.SchedulerTaskID,
		Status:              domain.Status(entity.Status),
		ModerationStatus:    domain.ModerationStatus(entity.ModerationStatus),
		FinalPositivePrompt: entity.FinalPositivePrompt,
		FinalNegativePrompt: entity.FinalNegativePrompt,
		GenerationParams:    domain.Params(entity.GenerationParams),
		ErrorMessage:        entity.ErrorMessage,
		CreatedAt:           entity.CreatedAt,
		UpdatedAt:           entity.UpdatedAt,
	}
	if g.GenerationParams == nil {
		g.GenerationParams = domain.Params{}
	}
	if entity.Files != nil {
		g.Files = MapFiles(entity.Files)
	}
	return g
}

// ToDomainFile maps a generated file row.
func ToDomainFile(entity entities.GeneratedFile) domain.File {
	return domain.File{
		ID:               entity.ID,
		GenerationID:     entity.GenerationID,
		FilePath:         entity.FilePath,
		OriginalFilename: entity.OriginalFilename,
		MimeType:         entity.MimeType,
		SizeBytes:        entity.SizeBytes,
		Infotext:         entity.Infotext,
		CreatedAt:        entity.CreatedAt,
	}
}

// MapAll maps generation rows preserving order.
func MapAll(rows []entities.Generation) []domain.Generation {
	out := make([]domain.Generation, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDomain(row))
	}
	return out
}

// MapFiles maps generated file rows preserving order.
func MapFiles(rows []entities.GeneratedFile) []domain.File {
	out := make([]domain.File, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDomainFile(row))
	}
	return out
}
