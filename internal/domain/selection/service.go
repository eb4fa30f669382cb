package selection

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/events"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/domain/project"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// Repository persists selected covers.
type Repository interface {
	// Get returns nil without error when the pair has no selection.
	Get(ctx context.Context, collectionID int64, projectID string) (*SelectedCover, error)
	// Upsert writes the only selection row of the pair.
	Upsert(ctx context.Context, sc *SelectedCover) error
	ListByCollection(ctx context.Context, collectionID int64) ([]SelectedCover, error)
	ListForCells(ctx context.Context, collectionIDs []int64, projectIDs []string) ([]SelectedCover, error)
}

// ProjectReader loads projects.
type ProjectReader interface {
	GetByID(ctx context.Context, id string) (*project.Project, error)
}

// CollectionReader loads collections.
type CollectionReader interface {
	GetByID(ctx context.Context, id int64) (*collection.Collection, error)
}

// GenerationReader loads generations and their files.
type GenerationReader interface {
	GetByID(ctx context.Context, id string) (*generation.Generation, error)
	GetFile(ctx context.Context, id int64) (*generation.File, error)
	FirstFile(ctx context.Context, generationID string) (*generation.File, error)
}

// Mirror copies a selected file into a project's selection folder as
// <name><ext>, replacing earlier copies stored under the same name.
type Mirror interface {
	Copy(ctx context.Context, destination string, name string, storedPath string) error
}

// Service pins covers for grid cells.
type Service interface {
	Select(ctx context.Context, req Request) (*Result, error)
}

type service struct {
	repo          Repository
	projects      ProjectReader
	collections   CollectionReader
	generations   GenerationReader
	mirror        Mirror
	publisher     events.Publisher
	publicBaseURL string
	log           zerolog.Logger
}

// NewService wires the selection service.
func NewService(
	repo Repository,
	projects ProjectReader,
	collections CollectionReader,
	generations GenerationReader,
	mirror Mirror,
	publisher events.Publisher,
	publicBaseURL string,
	log zerolog.Logger,
) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{
		repo:          repo,
		projects:      projects,
		collections:   collections,
		generations:   generations,
		mirror:        mirror,
		publisher:     publisher,
		publicBaseURL: publicBaseURL,
		log:           log.With().Str("component", "selection-service").Logger(),
	}
}

func (s *service) Select(ctx context.Context, req Request) (*Result, error) {
	if req.ProjectID == "" || req.GenerationID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"collection_id, project_id and generation_id are required", nil, "selection-required-fields")
	}
	if _, err := s.collections.GetByID(ctx, req.CollectionID); err != nil {
		return nil, err
	}
	p, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	g, err := s.generations.GetByID(ctx, req.GenerationID)
	if err != nil {
		return nil, err
	}

	file, err := s.resolveFile(ctx, g.ID, req.GeneratedFileID)
	if err != nil {
		return nil, err
	}

	sc := &SelectedCover{
		CollectionID:    req.CollectionID,
		ProjectID:       req.ProjectID,
		GenerationID:    g.ID,
		GeneratedFileID: &file.ID,
	}
	previous, err := s.repo.Get(ctx, req.CollectionID, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, sc); err != nil {
		return nil, err
	}

	log := s.log.With().
		Int64("collection_id", req.CollectionID).
		Str("project_id", req.ProjectID).
		Str("generation_id", g.ID).
		Int64("generated_file_id", file.ID).
		Logger()
	event := log.Info()
	if previous != nil {
		event = event.Str("previous_generation_id", previous.GenerationID)
		if previous.GeneratedFileID != nil {
			event = event.Int64("previous_file_id", *previous.GeneratedFileID)
		}
	}
	event.Msg("cover selected")

	if p.SelectionPath != nil && *p.SelectionPath != "" && s.mirror != nil {
		name := strconv.FormatInt(req.CollectionID, 10)
		if err := s.mirror.Copy(ctx, *p.SelectionPath, name, file.FilePath); err != nil {
			log.Warn().Err(err).Str("selection_path", *p.SelectionPath).Msg("mirror selected cover")
		}
	}

	fileURL := generation.FileURL(s.publicBaseURL, file.ID)
	s.publisher.Publish(ctx, events.New(events.GridCellUpdate, map[string]any{
		"collection_id":     req.CollectionID,
		"project_id":        req.ProjectID,
		"status":            "selected",
		"generation_id":     g.ID,
		"generated_file_id": file.ID,
		"file_url":          fileURL,
	}))

	return &Result{
		Message:         "Cover selected successfully",
		Selection:       *sc,
		GeneratedFileID: file.ID,
		FileURL:         fileURL,
	}, nil
}

func (s *service) resolveFile(ctx context.Context, generationID string, fileID *int64) (*generation.File, error) {
	if fileID != nil {
		f, err := s.generations.GetFile(ctx, *fileID)
		if err != nil {
			return nil, err
		}
		if f.GenerationID != generationID {
			return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"File does not belong to the specified generation", nil, "selection-file-generation-mismatch",
				map[string]any{"generated_file_id": *fileID, "generation_id": generationID})
		}
		return f, nil
	}

	f, err := s.generations.FirstFile(ctx, generationID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Cannot select cover: Generation has no files", nil, "selection-no-files")
	}
	return f, nil
}
