package generation

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/domain/events"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// Service describes the generation lifecycle: dispatch, scheduler callbacks,
// filesystem import and access to stored files.
type Service interface {
	Merge(ctx context.Context, projectID string, collectionID int64) (*MergeResult, error)
	DispatchBatch(ctx context.Context, pairs []Pair, callbackBase string) (*BatchReport, error)
	ProcessCallback(ctx context.Context, generationID string, cb Callback) (*CallbackOutcome, error)
	Reindex(ctx context.Context, projectID string) (*ReindexReport, error)
	OpenFile(ctx context.Context, fileID int64) (*File, string, error)
}

// Options holds settings that are not collaborators.
type Options struct {
	// PublicBaseURL prefixes file URLs in published events; empty keeps them relative.
	PublicBaseURL string
}

type service struct {
	repo        Repository
	projects    ProjectReader
	collections CollectionReader
	scheduler   Scheduler
	store       FileStore
	scanner     SourceScanner
	publisher   events.Publisher
	opts        Options
	log         zerolog.Logger
}

// NewService wires the generation service. scheduler may be nil when no
// scheduler is configured; dispatch then fails before writing anything.
func NewService(
	repo Repository,
	projects ProjectReader,
	collections CollectionReader,
	scheduler Scheduler,
	store FileStore,
	scanner SourceScanner,
	publisher events.Publisher,
	opts Options,
	log zerolog.Logger,
) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{
		repo:        repo,
		projects:    projects,
		collections: collections,
		scheduler:   scheduler,
		store:       store,
		scanner:     scanner,
		publisher:   publisher,
		opts:        opts,
		log:         log.With().Str("component", "generation-service").Logger(),
	}
}

func (s *service) OpenFile(ctx context.Context, fileID int64) (*File, string, error) {
	f, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		return nil, "", err
	}
	abs, err := s.store.Resolve(f.FilePath)
	if err != nil {
		return nil, "", err
	}
	f.FileURL = FileURL(s.opts.PublicBaseURL, f.ID)
	return f, abs, nil
}

// publishUpdate emits a generation_update event for already committed state.
func (s *service) publishUpdate(ctx context.Context, g *Generation, files []File) {
	data := map[string]any{
		"id":                g.ID,
		"project_id":        g.ProjectID,
		"collection_id":     g.CollectionID,
		"status":            g.Status,
		"moderation_status": g.ModerationStatus,
		"error_message":     g.ErrorMessage,
	}
	if files != nil {
		data["generated_files"] = WithURLs(s.opts.PublicBaseURL, files)
	}
	s.publisher.Publish(ctx, events.New(events.GenerationUpdate, data))
}

func messageOf(err error) string {
	var pe *platformerrors.PlatformError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
