package collection_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/database/dbtest"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/database/entities"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/repository/collectionrepo"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

type recordingCleaner struct {
	removed []string
}

func (c *recordingCleaner) RemoveGeneration(_ context.Context, generationID string) error {
	c.removed = append(c.removed, generationID)
	return nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestCreateCollection(t *testing.T) {
	ctx := context.Background()
	svc := collection.NewService(collectionrepo.NewRepository(dbtest.New(t)), &recordingCleaner{}, zerolog.Nop())

	created, err := svc.Create(ctx, collection.CreateParams{ID: int64Ptr(5), Name: " Forest ", Type: "nature"})
	require.NoError(t, err)
	assert.Equal(t, "Forest", created.Name)

	_, err = svc.Create(ctx, collection.CreateParams{ID: int64Ptr(5), Name: "Again", Type: "nature"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))

	_, err = svc.Create(ctx, collection.CreateParams{ID: int64Ptr(6), Name: "No type"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = svc.Get(ctx, 404)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestImportCSVIsolatesRows(t *testing.T) {
	ctx := context.Background()
	svc := collection.NewService(collectionrepo.NewRepository(dbtest.New(t)), &recordingCleaner{}, zerolog.Nop())
	_, err := svc.Create(ctx, collection.CreateParams{ID: int64Ptr(3), Name: "Existing", Type: "nature"})
	require.NoError(t, err)

	csvData := "\ufeffID,Name,Type,collection_positive_prompt,comment\n" +
		"1,Forest,nature,tall trees,\n" +
		"abc,Broken,nature,,\n" +
		"2,,nature,,\n" +
		"3,Existing,nature,,\n" +
		"4,Harbor,urban,boats,check lighting\n"

	report, err := svc.ImportCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, 3, report.Errors[0].Row)
	assert.Equal(t, 4, report.Errors[1].Row)

	harbor, err := svc.Get(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "boats", harbor.CollectionPositivePrompt)
	assert.Equal(t, "check lighting", harbor.Comment)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImportCSVRejectsBadHeader(t *testing.T) {
	svc := collection.NewService(collectionrepo.NewRepository(dbtest.New(t)), &recordingCleaner{}, zerolog.Nop())

	tests := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"missing type column", "id,name\n1,Forest\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ImportCSV(context.Background(), strings.NewReader(tt.data))
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
		})
	}
}

func TestDeleteCollectionCascades(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	cleaner := &recordingCleaner{}
	svc := collection.NewService(collectionrepo.NewRepository(db), cleaner, zerolog.Nop())

	_, err := svc.Create(ctx, collection.CreateParams{ID: int64Ptr(9), Name: "Doomed", Type: "x"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.Generation{
		ID: "g9", ProjectID: "p1", CollectionID: 9, Status: "completed",
		ModerationStatus: "pending_moderation", GenerationParams: datatypes.JSONMap{},
	}).Error)
	require.NoError(t, db.Create(&entities.GeneratedFile{GenerationID: "g9", FilePath: "g9/a.png", OriginalFilename: "a.png", MimeType: "image/png"}).Error)
	require.NoError(t, db.Create(&entities.SelectedCover{CollectionID: 9, ProjectID: "p1", GenerationID: "g9"}).Error)

	deleted, err := svc.Delete(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "Doomed", deleted.Name)
	assert.Equal(t, []string{"g9"}, cleaner.removed)

	for _, table := range []string{"generations", "generated_files", "selected_covers", "collections"} {
		var n int64
		require.NoError(t, db.Table(table).Count(&n).Error)
		assert.Zero(t, n, table)
	}
}
