package selectionrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/Romer4ig/image-moderation/internal/domain/selection"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/database/entities"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// Repository handles selected cover persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, collectionID int64, projectID string) (*domain.SelectedCover, error) {
	var entity entities.SelectedCover
	err := r.db.WithContext(ctx).
		Where("collection_id = ? AND project_id = ?", collectionID, projectID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to get selected cover", err, "selection-get-failed")
	}
	sc := toDomain(entity)
	return &sc, nil
}

// Upsert inserts the selection or replaces the pair's existing row in a single
// statement, so concurrent selections of a pair never produce duplicates.
func (r *Repository) Upsert(ctx context.Context, sc *domain.SelectedCover) error {
	entity := entities.SelectedCover{
		CollectionID:    sc.CollectionID,
		ProjectID:       sc.ProjectID,
		GenerationID:    sc.GenerationID,
		GeneratedFileID: sc.GeneratedFileID,
		SelectedAt:      time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection_id"}, {Name: "project_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"generation_id", "generated_file_id", "selected_at"}),
	}).Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to save selected cover", err, "selection-upsert-failed")
	}
	*sc = toDomain(entity)
	return nil
}

func (r *Repository) ListByCollection(ctx context.Context, collectionID int64) ([]domain.SelectedCover, error) {
	var rows []entities.SelectedCover
	if err := r.db.WithContext(ctx).Where("collection_id = ?", collectionID).Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list selected covers", err, "selection-list-failed")
	}
	return mapAll(rows), nil
}

// ListForCells returns the selections inside the collections x projects product.
func (r *Repository) ListForCells(ctx context.Context, collectionIDs []int64, projectIDs []string) ([]domain.SelectedCover, error) {
	if len(collectionIDs) == 0 || len(projectIDs) == 0 {
		return []domain.SelectedCover{}, nil
	}
	var rows []entities.SelectedCover
	err := r.db.WithContext(ctx).
		Where("collection_id IN ? AND project_id IN ?", collectionIDs, projectIDs).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list selected covers for cells", err, "selection-list-cells-failed")
	}
	return mapAll(rows), nil
}

func toDomain(entity entities.SelectedCover) domain.SelectedCover {
	return domain.SelectedCover{
		CollectionID:    entity.CollectionID,
		ProjectID:       entity.ProjectID,
		GenerationID:    entity.GenerationID,
		GeneratedFileID: entity.GeneratedFileID,
		SelectedAt:      entity.SelectedAt,
	}
}

func mapAll(rows []entities.SelectedCover) []domain.SelectedCover {
	out := make([]domain.SelectedCover, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out
}
