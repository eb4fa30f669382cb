package collection

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// Repository exposes persistence for collections.
type Repository interface {
	Create(ctx context.Context, c *Collection) error
	GetByID(ctx context.Context, id int64) (*Collection, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]Collection, error)
	Update(ctx context.Context, c *Collection) error
	// Delete removes the collection with its selections, generations and files
	// and returns the ids of the removed generations.
	Delete(ctx context.Context, id int64) ([]string, error)
}

// FileCleaner removes the stored files of a generation.
type FileCleaner interface {
	RemoveGeneration(ctx context.Context, generationID string) error
}

// Service describes collection management operations.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Collection, error)
	Get(ctx context.Context, id int64) (*Collection, error)
	List(ctx context.Context) ([]Collection, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Collection, error)
	Delete(ctx context.Context, id int64) (*Collection, error)
	ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error)
}

type service struct {
	repo    Repository
	cleaner FileCleaner
	log     zerolog.Logger
}

// NewService wires the collection service with its repository.
func NewService(repo Repository, cleaner FileCleaner, log zerolog.Logger) Service {
	return &service{
		repo:    repo,
		cleaner: cleaner,
		log:     log.With().Str("component", "collection-service").Logger(),
	}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Collection, error) {
	c, err := buildCollection(ctx, params)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"Collection with this ID already exists", nil, "collection-duplicate-id",
			map[string]any{"collection_id": c.ID})
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info().Int64("collection_id", c.ID).Str("name", c.Name).Msg("collection created")
	return c, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Collection, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Collection, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id int64, params UpdateParams) (*Collection, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"Collection name must not be empty", nil, "collection-name-empty")
		}
		c.Name = name
	}
	if params.Type != nil {
		c.Type = strings.TrimSpace(*params.Type)
	}
	if params.CollectionPositivePrompt != nil {
		c.CollectionPositivePrompt = *params.CollectionPositivePrompt
	}
	if params.CollectionNegativePrompt != nil {
		c.CollectionNegativePrompt = *params.CollectionNegativePrompt
	}
	if params.Comment != nil {
		c.Comment = *params.Comment
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id int64) (*Collection, error) {
	c, err := s.repo.GetByID(ctx, id)
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
	s.log.Info().Int64("collection_id", id).Int("generations_removed", len(generationIDs)).Msg("collection deleted")
	return c, nil
}

func buildCollection(ctx context.Context, params CreateParams) (*Collection, error) {
	name := strings.TrimSpace(params.Name)
	typ := strings.TrimSpace(params.Type)
	if params.ID == nil || name == "" || typ == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Missing required fields: id, name, type", nil, "collection-required-fields")
	}
	return &Collection{
		ID:                       *params.ID,
		Name:                     name,
		Type:                     typ,
		CollectionPositivePrompt: params.CollectionPositivePrompt,
		CollectionNegativePrompt: params.CollectionNegativePrompt,
		Comment:                  params.Comment,
	}, nil
}
