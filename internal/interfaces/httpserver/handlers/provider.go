package handlers

import (
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/config"
	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/domain/grid"
	"github.com/Romer4ig/image-moderation/internal/domain/project"
	"github.com/Romer4ig/image-moderation/internal/domain/selection"
)

// Provider wires HTTP handlers.
type Provider struct {
	Project    *ProjectHandler
	Collection *CollectionHandler
	Generation *GenerationHandler
	Grid       *GridHandler
	Selection  *SelectionHandler
	File       *FileHandler
	Events     *EventsHandler
}

func NewProvider(
	cfg *config.Config,
	projects project.Service,
	collections collection.Service,
	generations generation.Service,
	grids grid.Service,
	selections selection.Service,
	events EventSource,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Project:    NewProjectHandler(projects, generations, log),
		Collection: NewCollectionHandler(collections, log),
		Generation: NewGenerationHandler(cfg, generations, log),
		Grid:       NewGridHandler(grids, log),
		Selection:  NewSelectionHandler(selections, log),
		File:       NewFileHandler(generations, log),
		Events:     NewEventsHandler(events, log),
	}
}
