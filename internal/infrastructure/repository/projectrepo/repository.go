package projectrepo

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/Romer4ig/image-moderation/internal/domain/project"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/database/entities"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/repository/cascade"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// Repository handles project persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *domain.Project) error {
	entity := toEntity(p)
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create project", err, "project-create-failed")
	}
	*p = ToDomain(entity)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var entity entities.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"Project not found", err, "project-not-found", map[string]any{"project_id": id})
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to get project", err, "project-get-failed")
	}
	p := ToDomain(entity)
	return &p, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Project, error) {
	var rows []entities.Project
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list projects", err, "project-list-failed")
	}
	return mapAll(rows), nil
}

// ListByIDs returns the existing projects among ids ordered by name.
func (r *Repository) ListByIDs(ctx context.Context, ids []string) ([]domain.Project, error) {
	if len(ids) == 0 {
		return []domain.Project{}, nil
	}
	var rows []entities.Project
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list projects by id", err, "project-list-ids-failed")
	}
	return mapAll(rows), nil
}

func (r *Repository) Update(ctx context.Context, p *domain.Project) error {
	entity := toEntity(p)
	err := r.db.WithContext(ctx).Model(&entities.Project{ID: p.ID}).Select(
		"name", "source_path", "selection_path", "base_positive_prompt", "base_negative_prompt",
		"base_generation_params_json", "default_width", "default_height", "updated_at",
	).Updates(&entity).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update project", err, "project-update-failed")
	}
	updated, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) ([]string, error) {
	var generationIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		generationIDs, err = cascade.Delete(tx, cascade.OwnerProject, id)
		if err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Project{}).Error
	})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete project", err, "project-delete-failed")
	}
	return generationIDs, nil
}

func toEntity(p *domain.Project) entities.Project {
	params := datatypes.JSONMap(p.BaseGenerationParams)
	if params == nil {
		params = datatypes.JSONMap{}
	}
	return entities.Project{
		ID:                   p.ID,
		Name:                 p.Name,
		SourcePath:           p.SourcePath,
		SelectionPath:        p.SelectionPath,
		BasePositivePrompt:   p.BasePositivePrompt,
		BaseNegativePrompt:   p.BaseNegativePrompt,
		BaseGenerationParams: params,
		DefaultWidth:         p.DefaultWidth,
		DefaultHeight:        p.DefaultHeight,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// ToDomain maps a project row.
func ToDomain(entity entities.Project) domain.Project {
	params := map[string]any(entity.BaseGenerationParams)
	if params == nil {
		params = map[string]any{}
	}
	return domain.Project{
		ID:                   entity.ID,
		Name:                 entity.Name,
		SourcePath:           entity.SourcePath,
		SelectionPath:        entity.SelectionPath,
		BasePositivePrompt:   entity.BasePositivePrompt,
		BaseNegativePrompt:   entity.BaseNegativePrompt,
		BaseGenerationParams: params,
		DefaultWidth:         entity.DefaultWidth,
		DefaultHeight:        entity.DefaultHeight,
		CreatedAt:            entity.CreatedAt,
		UpdatedAt:            entity.UpdatedAt,
	}
}

func mapAll(rows []entities.Project) []domain.Project {
	out := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDomain(row))
	}
	return out
}
