package requests

import (
	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/domain/project"
)

// CreateProjectRequest represents a project creation request
type CreateProjectRequest struct {
	Name                 string         `json:"name"`
	SourcePath           *string        `json:"source_path"`
	SelectionPath        *string        `json:"selection_path"`
	BasePositivePrompt   string         `json:"base_positive_prompt"`
	BaseNegativePrompt   string         `json:"base_negative_prompt"`
	BaseGenerationParams map[string]any `json:"base_generation_params_json"`
	DefaultWidth         *int           `json:"default_width"`
	DefaultHeight        *int           `json:"default_height"`
}

// ToDomain converts request to domain params
func (r *CreateProjectRequest) ToDomain() project.CreateParams {
	return project.CreateParams{
		Name:                 r.Name,
		SourcePath:           r.SourcePath,
		SelectionPath:        r.SelectionPath,
		BasePositivePrompt:   r.BasePositivePrompt,
		BaseNegativePrompt:   r.BaseNegativePrompt,
		BaseGenerationParams: r.BaseGenerationParams,
		DefaultWidth:         r.DefaultWidth,
		DefaultHeight:        r.DefaultHeight,
	}
}

// UpdateProjectRequest is a partial project update. A present
// base_generation_params_json replaces the whole bag.
type UpdateProjectRequest struct {
	Name                 *string         `json:"name"`
	SourcePath           *string         `json:"source_path"`
	SelectionPath        *string         `json:"selection_path"`
	BasePositivePrompt   *string         `json:"base_positive_prompt"`
	BaseNegativePrompt   *string         `json:"base_negative_prompt"`
	BaseGenerationParams *map[string]any `json:"base_generation_params_json"`
	DefaultWidth         *int            `json:"default_width"`
	DefaultHeight        *int            `json:"default_height"`
}

// ToDomain converts request to domain params
func (r *UpdateProjectRequest) ToDomain() project.UpdateParams {
	params := project.UpdateParams{
		Name:               r.Name,
		SourcePath:         r.SourcePath,
		SelectionPath:      r.SelectionPath,
		BasePositivePrompt: r.BasePositivePrompt,
		BaseNegativePrompt: r.BaseNegativePrompt,
		DefaultWidth:       r.DefaultWidth,
		DefaultHeight:      r.DefaultHeight,
	}
	if r.BaseGenerationParams != nil {
		params.ReplaceParams = true
		params.BaseGenerationParams = *r.BaseGenerationParams
	}
	return params
}

// CreateCollectionRequest represents a collection creation request
type CreateCollectionRequest struct {
	ID                       FlexibleID `json:"id" swaggertype:"integer"`
	Name                     string     `json:"name"`
	Type                     string     `json:"type"`
	CollectionPositivePrompt string     `json:"collection_positive_prompt"`
	CollectionNegativePrompt string     `json:"collection_negative_prompt"`
	Comment                  string     `json:"comment"`
}

// ToDomain converts request to domain params. ok is false when an id was sent
// but is not an integer.
func (r *CreateCollectionRequest) ToDomain() (params collection.CreateParams, ok bool) {
	params = collection.CreateParams{
		Name:                     r.Name,
		Type:                     r.Type,
		CollectionPositivePrompt: r.CollectionPositivePrompt,
		CollectionNegativePrompt: r.CollectionNegativePrompt,
		Comment:                  r.Comment,
	}
	if r.ID.Empty() {
		return params, true
	}
	id, ok := r.ID.Int64()
	if !ok {
		return params, false
	}
	params.ID = &id
	return params, true
}

// UpdateCollectionRequest is a partial collection update.
type UpdateCollectionRequest struct {
	Name                     *string `json:"name"`
	Type                     *string `json:"type"`
	CollectionPositivePrompt *string `json:"collection_positive_prompt"`
	CollectionNegativePrompt *string `json:"collection_negative_prompt"`
	Comment                  *string `json:"comment"`
}

// ToDomain converts request to domain params
func (r *UpdateCollectionRequest) ToDomain() collection.UpdateParams {
	return collection.UpdateParams{
		Name:                     r.Name,
		Type:                     r.Type,
		CollectionPositivePrompt: r.CollectionPositivePrompt,
		CollectionNegativePrompt: r.CollectionNegativePrompt,
		Comment:                  r.Comment,
	}
}

// PairRequest is one (project, collection) pair of a batch.
type PairRequest struct {
	ProjectID    FlexibleID `json:"project_id" swaggertype:"string"`
	CollectionID FlexibleID `json:"collection_id" swaggertype:"integer"`
}

// GenerateBatchRequest asks for one generation per pair.
type GenerateBatchRequest struct {
	Pairs []PairRequest `json:"pairs"`
}

// ToDomain converts request to domain pairs
func (r *GenerateBatchRequest) ToDomain() []generation.Pair {
	pairs := make([]generation.Pair, 0, len(r.Pairs))
	for _, p := range r.Pairs {
		pairs = append(pairs, generation.Pair{
			ProjectID:    p.ProjectID.String(),
			CollectionID: p.CollectionID.String(),
		})
	}
	return pairs
}

// SelectCoverRequest pins a cover for a pair.
type SelectCoverRequest struct {
	CollectionID    FlexibleID `json:"collection_id" swaggertype:"integer"`
	ProjectID       string     `json:"project_id"`
	GenerationID    string     `json:"generation_id"`
	GeneratedFileID FlexibleID `json:"generated_file_id" swaggertype:"integer"`
}

// CallbackFileRequest is a base64 encoded file of a JSON callback.
type CallbackFileRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
}

// SchedulerCallbackRequest is the JSON form of a scheduler callback.
type SchedulerCallbackRequest struct {
	Status   string                `json:"status"`
	TaskID   FlexibleID            `json:"task_id" swaggertype:"string"`
	Error    string                `json:"error"`
	Infotext string                `json:"infotext"`
	Files    []CallbackFileRequest `json:"files"`
}
