package project

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// Repository exposes persistence for projects.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	ListByIDs(ctx context.Context, ids []string) ([]Project, error)
	Update(ctx context.Context, p *Project) error
	// Delete removes the project with its selections, generations and files and
	// returns the ids of the removed generations.
	Delete(ctx context.Context, id string) ([]string, error)
}

// FileCleaner removes the stored files of a generation.
type FileCleaner interface {
	RemoveGeneration(ctx context.Context, generationID string) error
}

// Service describes project management operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Project, error)
	Delete(ctx context.Context, id string) (*Project, error)
}

type service struct {
	repo    Repository
	cleaner FileCleaner
	log     zerolog.Logger
}

// NewService wires the project service with its repository.
func NewService(repo Repository, cleaner FileCleaner, log zerolog.Logger) Service {
	return &service{
		repo:    repo,
		cleaner: cleaner,
		log:     log.With().Str("component", "project-service").Logger(),
	}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Project, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Project name is required", nil, "project-name-required")
	}

	p := &Project{
		ID:                   uuid.NewString(),
		Name:                 name,
		SourcePath:           normalizePath(params.SourcePath),
		SelectionPath:        normalizePath(params.SelectionPath),
		BasePositivePrompt:   params.BasePositivePrompt,
		BaseNegativePrompt:   params.BaseNegativePrompt,
		BaseGenerationParams: params.BaseGenerationParams,
		DefaultWidth:         DefaultWidth,
		DefaultHeight:        DefaultHeight,
	}
	if p.BaseGenerationParams == nil {
		p.BaseGenerationParams = map[string]any{}
	}
	if params.DefaultWidth != nil {
		p.DefaultWidth = *params.DefaultWidth
	}
	if params.DefaultHeight != nil {
		p.DefaultHeight = *params.DefaultHeight
	}
	if err := validateSize(ctx, p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("project_id", p.ID).Str("name", p.Name).Msg("project created")
	return p, nil
}

func (s *service) Get(ctx context.Context, id string) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Project, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id string, params UpdateParams) (*Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"Project name must not be empty", nil, "project-name-empty")
		}
		p.Name = name
	}
	if params.SourcePath != nil {
		p.SourcePath = normalizePath(params.SourcePath)
	}
	if params.SelectionPath != nil {
		p.SelectionPath = normalizePath(params.SelectionPath)
	}
	if params.BasePositivePrompt != nil {
		p.BasePositivePrompt = *params.BasePositivePrompt
	}
	if params.BaseNegativePrompt != nil {
		p.BaseNegativePrompt = *params.BaseNegativePrompt
	}
	if params.ReplaceParams {
		p.BaseGenerationParams = params.BaseGenerationParams
		if p.BaseGenerationParams == nil {
			p.BaseGenerationParams = map[string]any{}
		}
	}
	if params.DefaultWidth != nil {
		p.DefaultWidth = *params.DefaultWidth
	}
	if params.DefaultHeight != nil {
		p.DefaultHeight = *params.DefaultHeight
	}
	if err := validateSize(ctx, p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) (*Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	generationIDs, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, generationID := range generationIDs {
		if err := s.cleaner.RemoveGeneration(ctx, generationID); err != nil {
			s.log.Warn().Err(err).Str("generation_id", generationID).Msg("remove generation files")
		}
	}
	s.log.Info().Str("project_id", id).Int("generations_removed", len(generationIDs)).Msg("project deleted")
	return p, nil
}

func validateSize(ctx context.Context, p *Project) error {
	if p.DefaultWidth <= 0 || p.DefaultHeight <= 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"default_width and default_height must be positive", nil, "project-size-invalid")
	}
	return nil
}

// normalizePath turns blank paths into nil so "unset" has a single representation.
func normalizePath(path *string) *string {
	if path == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*path)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
