package project

import "time"

const (
	DefaultWidth  = 512
	DefaultHeight = 512
)

// Project is a named generation configuration: base prompts, default size and a
// free-form parameter bag forwarded to the scheduler.
type Project struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	SourcePath           *string        `json:"source_path"`
	SelectionPath        *string        `json:"selection_path"`
	BasePositivePrompt   string         `json:"base_positive_prompt"`
	BaseNegativePrompt   string         `json:"base_negative_prompt"`
	BaseGenerationParams map[string]any `json:"base_generation_params_json"`
	DefaultWidth         int            `json:"default_width"`
	DefaultHeight        int            `json:"default_height"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// CreateParams carries the fields accepted when creating a project.
type CreateParams struct {
	Name                 string
	SourcePath           *string
	SelectionPath        *string
	BasePositivePrompt   string
	BaseNegativePrompt   string
	BaseGenerationParams map[string]any
	DefaultWidth         *int
	DefaultHeight        *int
}

// UpdateParams is a partial update; nil fields are left untouched.
type UpdateParams struct {
	Name                 *string
	SourcePath           *string
	SelectionPath        *string
	BasePositivePrompt   *string
	BaseNegativePrompt   *string
	BaseGenerationParams map[string]any
	ReplaceParams        bool
	DefaultWidth         *int
	DefaultHeight        *int
}
