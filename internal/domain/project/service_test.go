package project_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Romer4ig/image-moderation/internal/domain/project"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/database/dbtest"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/repository/projectrepo"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

type noopCleaner struct{}

func (noopCleaner) RemoveGeneration(context.Context, string) error { return nil }

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func newService(t *testing.T) project.Service {
	t.Helper()
	return project.NewService(projectrepo.NewRepository(dbtest.New(t)), noopCleaner{}, zerolog.Nop())
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	p, err := svc.Create(ctx, project.CreateParams{
		Name:                 "  Anime ",
		SourcePath:           strPtr("   "),
		BaseGenerationParams: map[string]any{"steps": 28},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Anime", p.Name)
	assert.Nil(t, p.SourcePath)
	assert.Equal(t, project.DefaultWidth, p.DefaultWidth)
	assert.Equal(t, project.DefaultHeight, p.DefaultHeight)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 28, stored.BaseGenerationParams["steps"])
}

func TestCreateProjectValidation(t *testing.T) {
	svc := newService(t)

	tests := []struct {
		name   string
		params project.CreateParams
	}{
		{name: "blank name", params: project.CreateParams{Name: "   "}},
		{name: "zero width", params: project.CreateParams{Name: "A", DefaultWidth: intPtr(0)}},
		{name: "negative height", params: project.CreateParams{Name: "A", DefaultHeight: intPtr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.params)
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
		})
	}
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	p, err := svc.Create(ctx, project.CreateParams{
		Name:                 "Anime",
		BasePositivePrompt:   "masterpiece",
		BaseGenerationParams: map[string]any{"steps": 28, "cfg_scale": 7},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, project.UpdateParams{
		BaseNegativePrompt: strPtr("blurry"),
		DefaultWidth:       intPtr(768),
	})
	require.NoError(t, err)
	assert.Equal(t, "Anime", updated.Name)
	assert.Equal(t, "masterpiece", updated.BasePositivePrompt)
	assert.Equal(t, "blurry", updated.BaseNegativePrompt)
	assert.Equal(t, 768, updated.DefaultWidth)
	assert.Len(t, updated.BaseGenerationParams, 2)

	updated, err = svc.Update(ctx, p.ID, project.UpdateParams{ReplaceParams: true})
	require.NoError(t, err)
	assert.Empty(t, updated.BaseGenerationParams)

	_, err = svc.Update(ctx, p.ID, project.UpdateParams{Name: strPtr(" ")})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = svc.Update(ctx, "missing", project.UpdateParams{Name: strPtr("B")})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestListAndDeleteProjects(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	for _, name := range []string{"Realistic", "Anime", "Pixel"} {
		_, err := svc.Create(ctx, project.CreateParams{Name: name})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Anime", "Pixel", "Realistic"}, []string{list[0].Name, list[1].Name, list[2].Name})

	deleted, err := svc.Delete(ctx, list[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Pixel", deleted.Name)

	_, err = svc.Get(ctx, list[1].ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	_, err = svc.Delete(ctx, list[1].ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}
