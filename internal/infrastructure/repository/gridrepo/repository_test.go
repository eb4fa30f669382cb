package gridrepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/grid"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/database/dbtest"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/database/entities"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/repository/gridrepo"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type seeder struct {
	t  *testing.T
	db *gorm.DB
}

func (s seeder) project(id string) {
	s.t.Helper()
	require.NoError(s.t, s.db.Create(&entities.Project{
		ID:                   id,
		Name:                 id,
		BaseGenerationParams: datatypes.JSONMap{},
		DefaultWidth:         512,
		DefaultHeight:        512,
	}).Error)
}

func (s seeder) collection(c entities.Collection) {
	s.t.Helper()
	if c.Type == "" {
		c.Type = "default"
	}
	if c.Name == "" {
		c.Name = fmt.Sprintf("Collection %d", c.ID)
	}
	require.NoError(s.t, s.db.Create(&c).Error)
}

func (s seeder) generation(id string, collectionID int64, projectID, status string, updatedAt time.Time) {
	s.t.Helper()
	require.NoError(s.t, s.db.Create(&entities.Generation{
		ID:               id,
		ProjectID:        projectID,
		CollectionID:     collectionID,
		Status:           status,
		ModerationStatus: "pending_moderation",
		GenerationParams: datatypes.JSONMap{},
		CreatedAt:        updatedAt,
		UpdatedAt:        updatedAt,
	}).Error)
}

func (s seeder) file(generationID, path string, createdAt time.Time) int64 {
	s.t.Helper()
	f := &entities.GeneratedFile{
		GenerationID:     generationID,
		FilePath:         path,
		OriginalFilename: path,
		MimeType:         "image/png",
		SizeBytes:        10,
		CreatedAt:        createdAt,
	}
	require.NoError(s.t, s.db.Create(f).Error)
	return f.ID
}

func (s seeder) selection(collectionID int64, projectID, generationID string) {
	s.t.Helper()
	require.NoError(s.t, s.db.Create(&entities.SelectedCover{
		CollectionID: collectionID,
		ProjectID:    projectID,
		GenerationID: generationID,
		SelectedAt:   base,
	}).Error)
}

func ids(collections []domain.Collection) []int64 {
	out := make([]int64, 0, len(collections))
	for _, c := range collections {
		out = append(out, c.ID)
	}
	return out
}

func TestPageCollectionsPagination(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	s := seeder{t: t, db: db}
	for i := int64(1); i <= 25; i++ {
		s.collection(entities.Collection{ID: i})
	}
	repo := gridrepo.NewRepository(db)

	seen := map[int64]bool{}
	for page := 1; page <= 3; page++ {
		rows, total, err := repo.PageCollections(ctx, grid.CollectionFilter{
			Sort:   grid.SortByID,
			Order:  grid.OrderAsc,
			Offset: (page - 1) * 10,
			Limit:  10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		for _, id := range ids(rows) {
			assert.False(t, seen[id], "collection %d returned twice", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 25)
}

func TestPageCollectionsSortByLastGeneration(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	s := seeder{t: t, db: db}
	s.project("p1")
	for i := int64(1); i <= 3; i++ {
		s.collection(entities.Collection{ID: i})
	}
	s.generation("g2", 2, "p1", "completed", base)
	s.generation("g3", 3, "p1", "completed", base.Add(time.Hour))
	repo := gridrepo.NewRepository(db)

	tests := []struct {
		order  grid.SortOrder
		expect []int64
	}{
		{grid.OrderAsc, []int64{2, 3, 1}},
		{grid.OrderDesc, []int64{3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			rows, _, err := repo.PageCollections(ctx, grid.CollectionFilter{
				Sort:  grid.SortByLastGenerationAt,
				Order: tt.order,
				Limit: 10,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expect, ids(rows))
		})
	}
}

func TestPageCollectionsFilters(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	s := seeder{t: t, db: db}
	s.project("p1")
	s.project("p2")
	s.collection(entities.Collection{ID: 1, Name: "Dark Forest", Type: "nature", CollectionPositivePrompt: "{oak|pine} trees"})
	s.collection(entities.Collection{ID: 2, Name: "Harbor", Type: "urban", CollectionPositivePrompt: "__boats__ at dawn", Comment: "needs review"})
	s.collection(entities.Collection{ID: 3, Name: "100% Desert", Type: "nature"})
	s.collection(entities.Collection{ID: 13, Name: "Meadow", Type: "nature", CollectionPositivePrompt: "flowers"})

	s.generation("g1", 1, "p1", "completed", base)
	s.generation("g2", 2, "p1", "completed", base)
	s.generation("g2b", 2, "p2", "completed", base)
	s.selection(1, "p1", "g1")
	s.selection(2, "p1", "g2")
	s.selection(2, "p2", "g2b")

	repo := gridrepo.NewRepository(db)

	tests := []struct {
		name   string
		filter grid.CollectionFilter
		expect []int64
	}{
		{"search by name is case insensitive", grid.CollectionFilter{Search: "forest"}, []int64{1}},
		{"search by id also matches names", grid.CollectionFilter{Search: "1"}, []int64{1, 3}},
		{"numeric search matches the id", grid.CollectionFilter{Search: "13"}, []int64{13}},
		{"percent sign is literal", grid.CollectionFilter{Search: "100%"}, []int64{3}},
		{"type", grid.CollectionFilter{Type: "urban"}, []int64{2}},
		{"empty positive", grid.CollectionFilter{Advanced: grid.AdvancedEmptyPositive}, []int64{3}},
		{"has comment", grid.CollectionFilter{Advanced: grid.AdvancedHasComment}, []int64{2}},
		{"no dynamic prompt syntax", grid.CollectionFilter{Advanced: grid.AdvancedNoDynamic}, []int64{3, 13}},
		{
			"not selected for every visible project",
			grid.CollectionFilter{StatusFilter: grid.StatusFilterNotSelected, VisibleProjectIDs: []string{"p1", "p2"}},
			[]int64{1, 3, 13},
		},
		{
			"not selected with one visible project",
			grid.CollectionFilter{StatusFilter: grid.StatusFilterNotSelected, VisibleProjectIDs: []string{"p1"}},
			[]int64{3, 13},
		},
		{
			"not generated for any visible project",
			grid.CollectionFilter{StatusFilter: grid.StatusFilterNotGenerated, VisibleProjectIDs: []string{"p2"}},
			[]int64{1, 3, 13},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Sort = grid.SortByID
			tt.filter.Order = grid.OrderAsc
			tt.filter.Limit = 100
			rows, total, err := repo.PageCollections(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, ids(rows))
			assert.Equal(t, int64(len(tt.expect)), total)
		})
	}
}

func TestLatestGenerationsAndFirstFiles(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	s := seeder{t: t, db: db}
	s.project("p1")
	s.project("p2")
	s.collection(entities.Collection{ID: 1})
	s.generation("old", 1, "p1", "completed", base)
	s.generation("new", 1, "p1", "failed", base.Add(time.Minute))
	s.generation("other", 1, "p2", "queued", base)

	later := s.file("old", "old/b.png", base.Add(time.Second))
	first := s.file("old", "old/a.png", base)

	repo := gridrepo.NewRepository(db)

	latest, err := repo.LatestGenerations(ctx, []int64{1}, []string{"p1", "p2"})
	require.NoError(t, err)
	byProject := map[string]string{}
	for _, g := range latest {
		byProject[g.ProjectID] = g.ID
	}
	assert.Equal(t, map[string]string{"p1": "new", "p2": "other"}, byProject)

	files, err := repo.FirstFiles(ctx, []string{"old"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, first, files[0].ID)
	assert.NotEqual(t, later, files[0].ID)

	times, err := repo.LastGenerationTimes(ctx, []int64{1})
	require.NoError(t, err)
	assert.True(t, times[1].Equal(base.Add(time.Minute)))
}
