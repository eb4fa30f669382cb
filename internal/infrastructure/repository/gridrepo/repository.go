package gridrepo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/domain/grid"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/database/entities"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/repository/collectionrepo"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/repository/generationrepo"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

const (
	latestPerPairSQL = `SELECT id FROM (
	SELECT id, ROW_NUMBER() OVER (PARTITION BY collection_id, project_id ORDER BY updated_at DESC, id DESC) AS rn
	FROM generations
	WHERE collection_id IN ? AND project_id IN ?
) ranked WHERE rn = 1`

	latestPerCollectionSQL = `SELECT id FROM (
	SELECT id, ROW_NUMBER() OVER (PARTITION BY collection_id ORDER BY updated_at DESC, id DESC) AS rn
	FROM generations
	WHERE collection_id IN ?
) ranked WHERE rn = 1`

	firstFilePerGenerationSQL = `SELECT id FROM (
	SELECT id, ROW_NUMBER() OVER (PARTITION BY generation_id ORDER BY created_at ASC, id ASC) AS rn
	FROM generated_files
	WHERE generation_id IN ?
) ranked WHERE rn = 1`

	lastGenerationJoin = `LEFT JOIN (
	SELECT collection_id, MAX(updated_at) AS last_generation_at FROM generations GROUP BY collection_id
) lg ON lg.collection_id = collections.id`
)

var sortColumns = map[grid.SortField]string{
	grid.SortByID:        "collections.id",
	grid.SortByName:      "collections.name",
	grid.SortByCreatedAt: "collections.created_at",
	grid.SortByType:      "collections.type",
}

// Repository runs the bulk grid reads.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) PageCollections(ctx context.Context, f grid.CollectionFilter) ([]domain.Collection, int64, error) {
	filtered := func() *gorm.DB {
		return applyFilters(r.db.WithContext(ctx).Model(&entities.Collection{}), f)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, dbError(ctx, "failed to count collections", err, "grid-count-failed")
	}
	if total == 0 {
		return []domain.Collection{}, 0, nil
	}

	direction := "ASC"
	if f.Order == grid.OrderDesc {
		direction = "DESC"
	}
	query := filtered().Select("collections.*")
	if f.Sort == grid.SortByLastGenerationAt {
		// Collections that never had a generation go last in both directions.
		query = query.Joins(lastGenerationJoin).
			Order("(lg.last_generation_at IS NULL) ASC").
			Order("lg.last_generation_at " + direction)
	} else {
		column, ok := sortColumns[f.Sort]
		if !ok {
			column = sortColumns[grid.SortByID]
		}
		query = query.Order(column + " " + direction)
	}
	if f.Sort != grid.SortByID && f.Sort != "" {
		query = query.Order("collections.id ASC")
	}

	var rows []entities.Collection
	if err := query.Offset(f.Offset).Limit(f.Limit).Find(&rows).Error; err != nil {
		return nil, 0, dbError(ctx, "failed to page collections", err, "grid-page-failed")
	}
	return collectionrepo.MapAll(rows), total, nil
}

func applyFilters(q *gorm.DB, f grid.CollectionFilter) *gorm.DB {
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		if id, ok := domain.ParseID(f.Search); ok {
			q = q.Where(`(LOWER(collections.name) LIKE ? ESCAPE '\' OR collections.id = ?)`, pattern, id)
		} else {
			q = q.Where(`LOWER(collections.name) LIKE ? ESCAPE '\'`, pattern)
		}
	}
	if f.Type != "" {
		q = q.Where("collections.type = ?", f.Type)
	}

	switch f.Advanced {
	case grid.AdvancedEmptyPositive:
		q = q.Where("COALESCE(collections.collection_positive_prompt, '') = ''")
	case grid.AdvancedHasComment:
		q = q.Where("COALESCE(collections.comment, '') <> ''")
	case grid.AdvancedNoDynamic:
		q = q.Where(`COALESCE(collections.collection_positive_prompt, '') NOT LIKE ? AND COALESCE(collections.collection_positive_prompt, '') NOT LIKE ? ESCAPE '\'`,
			"%{%", `%\_\_%`)
	}

	if len(f.VisibleProjectIDs) > 0 {
		switch f.StatusFilter {
		case grid.StatusFilterNotSelected:
			q = q.Where(`(SELECT COUNT(*) FROM selected_covers sc
				WHERE sc.collection_id = collections.id AND sc.project_id IN ?) < ?`,
				f.VisibleProjectIDs, len(f.VisibleProjectIDs))
		case grid.StatusFilterNotGenerated:
			q = q.Where(`NOT EXISTS (SELECT 1 FROM generations g
				WHERE g.collection_id = collections.id AND g.project_id IN ?)`,
				f.VisibleProjectIDs)
		}
	}
	return q
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *Repository) LastGenerationTimes(ctx context.Context, collectionIDs []int64) (map[int64]time.Time, error) {
	out := make(map[int64]time.Time, len(collectionIDs))
	if len(collectionIDs) == 0 {
		return out, nil
	}

	var ids []string
	if err := r.db.WithContext(ctx).Raw(latestPerCollectionSQL, collectionIDs).Scan(&ids).Error; err != nil {
		return nil, dbError(ctx, "failed to rank generations per collection", err, "grid-last-generation-rank-failed")
	}
	if len(ids) == 0 {
		return out, nil
	}

	var rows []entities.Generation
	err := r.db.WithContext(ctx).
		Select("id", "collection_id", "updated_at").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, dbError(ctx, "failed to load last generations", err, "grid-last-generation-failed")
	}
	for _, row := range rows {
		out[row.CollectionID] = row.UpdatedAt
	}
	return out, nil
}

func (r *Repository) LatestGenerations(ctx context.Context, collectionIDs []int64, projectIDs []string) ([]generation.Generation, error) {
	if len(collectionIDs) == 0 || len(projectIDs) == 0 {
		return []generation.Generation{}, nil
	}

	var ids []string
	if err := r.db.WithContext(ctx).Raw(latestPerPairSQL, collectionIDs, projectIDs).Scan(&ids).Error; err != nil {
		return nil, dbError(ctx, "failed to rank generations per cell", err, "grid-latest-rank-failed")
	}
	return r.GenerationsByIDs(ctx, ids)
}

func (r *Repository) GenerationsByIDs(ctx context.Context, ids []string) ([]generation.Generation, error) {
	if len(ids) == 0 {
		return []generation.Generation{}, nil
	}
	var rows []entities.Generation
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, dbError(ctx, "failed to load generations", err, "grid-generations-failed")
	}
	return generationrepo.MapAll(rows), nil
}

func (r *Repository) FilesByIDs(ctx context.Context, ids []int64) ([]generation.File, error) {
	if len(ids) == 0 {
		return []generation.File{}, nil
	}
	var rows []entities.GeneratedFile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, dbError(ctx, "failed to load generated files", err, "grid-files-failed")
	}
	return generationrepo.MapFiles(rows), nil
}

func (r *Repository) FirstFiles(ctx context.Context, generationIDs []string) ([]generation.File, error) {
	if len(generationIDs) == 0 {
		return []generation.File{}, nil
	}

	var ids []int64
	if err := r.db.WithContext(ctx).Raw(firstFilePerGenerationSQL, generationIDs).Scan(&ids).Error; err != nil {
		return nil, dbError(ctx, "failed to rank generated files", err, "grid-first-files-rank-failed")
	}
	return r.FilesByIDs(ctx, ids)
}

func dbError(ctx context.Context, message string, err error, id string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, message, err, id)
}
