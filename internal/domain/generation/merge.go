package generation

import (
	"context"
	"strings"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/project"
)

const promptSeparator = ", "

// MergeParameters combines a project's base configuration with a collection's
// prompt fragments. The project's parameter bag is not modified.
func MergeParameters(p *project.Project, c *collection.Collection) (Params, string, string) {
	params := Params(p.BaseGenerationParams).Clone()
	params[ParamWidth] = p.DefaultWidth
	params[ParamHeight] = p.DefaultHeight

	positive := joinPrompts(p.BasePositivePrompt, c.CollectionPositivePrompt)
	negative := joinPrompts(p.BaseNegativePrompt, c.CollectionNegativePrompt)

	params[ParamPrompt] = positive
	if negative != "" {
		params[ParamNegativePrompt] = negative
	} else {
		delete(params, ParamNegativePrompt)
	}
	return params, positive, negative
}

func joinPrompts(fragments ...string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, promptSeparator)
}

// MergeResult is the outcome of merging a pair's configuration.
type MergeResult struct {
	Project    *project.Project
	Collection *collection.Collection
	Params     Params
	Positive   string
	Negative   string
}

// Merge loads both rows and merges them. Missing rows yield NOT_FOUND errors.
func (s *service) Merge(ctx context.Context, projectID string, collectionID int64) (*MergeResult, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	c, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	params, positive, negative := MergeParameters(p, c)
	return &MergeResult{
		Project:    p,
		Collection: c,
		Params:     params,
		Positive:   positive,
		Negative:   negative,
	}, nil
}
