package collectionrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/database/entities"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/repository/cascade"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// Repository handles collection persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *domain.Collection) error {
	entity := toEntity(c)
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
				"Collection with this ID already exists", err, "collection-duplicate-id")
		}
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create collection", err, "collection-create-failed")
	}
	*c = ToDomain(entity)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Collection, error) {
	var entity entities.Collection
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"Collection not found", err, "collection-not-found", map[string]any{"collection_id": id})
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to get collection", err, "collection-get-failed")
	}
	c := ToDomain(entity)
	return &c, nil
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Collection{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to check collection", err, "collection-exists-failed")
	}
	return count > 0, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Collection, error) {
	var rows []entities.Collection
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list collections", err, "collection-list-failed")
	}
	return MapAll(rows), nil
}

func (r *Repository) Update(ctx context.Context, c *domain.Collection) error {
	entity := toEntity(c)
	err := r.db.WithContext(ctx).Model(&entities.Collection{ID: c.ID}).Select(
		"name", "type", "collection_positive_prompt", "collection_negative_prompt", "comment", "updated_at",
	).Updates(&entity).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update collection", err, "collection-update-failed")
	}
	updated, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) ([]string, error) {
	var generationIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		generationIDs, err = cascade.Delete(tx, cascade.OwnerCollection, id)
		if err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Collection{}).Error
	})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to delete collection", err, "collection-delete-failed")
	}
	return generationIDs, nil
}

func toEntity(c *domain.Collection) entities.Collection {
	return entities.Collection{
		ID:                       c.ID,
		Name:                     c.Name,
		Type:                     c.Type,
		CollectionPositivePrompt: c.CollectionPositivePrompt,
		CollectionNegativePrompt: c.CollectionNegativePrompt,
		Comment:                  c.Comment,
		CreatedAt:                c.CreatedAt,
		UpdatedAt:                c.UpdatedAt,
	}
}

// ToDomain maps a collection row.
func ToDomain(entity entities.Collection) domain.Collection {
	return domain.Collection{
		ID:                       entity.ID,
		Name:                     entity.Name,
		Type:                     entity.Type,
		CollectionPositivePrompt: entity.CollectionPositivePrompt,
		CollectionNegativePrompt: entity.CollectionNegativePrompt,
		Comment:                  entity.Comment,
		CreatedAt:                entity.CreatedAt,
		UpdatedAt:                entity.UpdatedAt,
	}
}

// MapAll maps collection rows preserving order.
func MapAll(rows []entities.Collection) []domain.Collection {
	out := make([]domain.Collection, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDomain(row))
	}
	return out
}
