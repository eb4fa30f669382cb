package generation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/domain/project"
)

func TestMergeParameters(t *testing.T) {
	tests := []struct {
		name           string
		project        project.Project
		collection     collection.Collection
		expectPositive string
		expectNegative string
		expectParams   generation.Params
	}{
		{
			name: "fragments joined with base first",
			project: project.Project{
				BasePositivePrompt:   "masterpiece",
				BaseNegativePrompt:   "blurry",
				BaseGenerationParams: map[string]any{"steps": 30},
				DefaultWidth:         512,
				DefaultHeight:        768,
			},
			collection: collection.Collection{
				CollectionPositivePrompt: "a red fox",
				CollectionNegativePrompt: "text",
			},
			expectPositive: "masterpiece, a red fox",
			expectNegative: "blurry, text",
			expectParams: generation.Params{
				"steps":           30,
				"width":           512,
				"height":          768,
				"prompt":          "masterpiece, a red fox",
				"negative_prompt": "blurry, text",
			},
		},
		{
			name: "empty fragments are skipped",
			project: project.Project{
				BaseGenerationParams: map[string]any{},
				DefaultWidth:         1024,
				DefaultHeight:        1024,
			},
			collection:     collection.Collection{CollectionPositivePrompt: "a castle"},
			expectPositive: "a castle",
			expectNegative: "",
			expectParams: generation.Params{
				"width":  1024,
				"height": 1024,
				"prompt": "a castle",
			},
		},
		{
			name: "defaults override stale size and negative prompt in base params",
			project: project.Project{
				BasePositivePrompt: "portrait",
				BaseGenerationParams: map[string]any{
					"width":           64,
					"height":          64,
					"negative_prompt": "stale",
					"sampler_name":    "Euler a",
				},
				DefaultWidth:  832,
				DefaultHeight: 1216,
			},
			collection:     collection.Collection{},
			expectPositive: "portrait",
			expectNegative: "",
			expectParams: generation.Params{
				"sampler_name": "Euler a",
				"width":        832,
				"height":       1216,
				"prompt":       "portrait",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, positive, negative := generation.MergeParameters(&tt.project, &tt.collection)
			assert.Equal(t, tt.expectPositive, positive)
			assert.Equal(t, tt.expectNegative, negative)
			assert.Equal(t, tt.expectParams, params)
		})
	}
}

func TestMergeParametersLeavesProjectUntouched(t *testing.T) {
	base := map[string]any{"steps": 20, "negative_prompt": "keep me"}
	p := project.Project{BaseGenerationParams: base, DefaultWidth: 512, DefaultHeight: 512}

	params, _, _ := generation.MergeParameters(&p, &collection.Collection{CollectionPositivePrompt: "x"})
	params["steps"] = 99

	assert.Equal(t, map[string]any{"steps": 20, "negative_prompt": "keep me"}, p.BaseGenerationParams)
}

func TestCollectionIDFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		expectID int64
		expectOK bool
	}{
		{"1042.png", 1042, true},
		{"77_variant_b.webp", 77, true},
		{"cover.png", 0, false},
		{"_12.png", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := generation.CollectionIDFromFilename(tt.name)
			assert.Equal(t, tt.expectOK, ok)
			assert.Equal(t, tt.expectID, id)
		})
	}
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "http://console:5001/api/scheduler_callback/abc", generation.CallbackURL("http://console:5001/", "abc"))
	assert.Equal(t, "/api/generated_files/7", generation.FileURL("", 7))
	assert.Equal(t, "http://cdn.local/api/generated_files/7", generation.FileURL("http://cdn.local/", 7))
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, generation.StatusCompleted.Terminal())
	assert.True(t, generation.StatusFailed.Terminal())
	assert.False(t, generation.StatusPending.Terminal())
	assert.False(t, generation.StatusQueued.Terminal())
}
