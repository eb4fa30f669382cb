package grid

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/domain/project"
	"github.com/Romer4ig/image-moderation/internal/domain/selection"
)

// CollectionFilter is the SQL side of a grid query.
type CollectionFilter struct {
	Search            string
	Type              string
	Advanced          AdvancedFilter
	StatusFilter      StatusFilter
	VisibleProjectIDs []string
	Sort              SortField
	Order             SortOrder
	Offset            int
	Limit             int
}

// Repository runs the bulk reads behind the grid. Every method is one round
// trip regardless of how many ids it receives.
type Repository interface {
	// PageCollections filters, sorts and pages collections and returns the
	// filtered total.
	PageCollections(ctx context.Context, f CollectionFilter) ([]collection.Collection, int64, error)
	// LastGenerationTimes returns the newest generation update time per collection.
	LastGenerationTimes(ctx context.Context, collectionIDs []int64) (map[int64]time.Time, error)
	// LatestGenerations returns the most recently updated generation of every
	// (collection, project) pair in the cross product, ties broken by id.
	LatestGenerations(ctx context.Context, collectionIDs []int64, projectIDs []string) ([]generation.Generation, error)
	GenerationsByIDs(ctx context.Context, ids []string) ([]generation.Generation, error)
	FilesByIDs(ctx context.Context, ids []int64) ([]generation.File, error)
	// FirstFiles returns the earliest created file of each generation.
	FirstFiles(ctx context.Context, generationIDs []string) ([]generation.File, error)
}

// ProjectLister loads projects ordered by name.
type ProjectLister interface {
	GetByID(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
	ListByIDs(ctx context.Context, ids []string) ([]project.Project, error)
}

// CollectionReader loads collections.
type CollectionReader interface {
	GetByID(ctx context.Context, id int64) (*collection.Collection, error)
}

// SelectionReader loads selected covers.
type SelectionReader interface {
	ListByCollection(ctx context.Context, collectionID int64) ([]selection.SelectedCover, error)
	ListForCells(ctx context.Context, collectionIDs []int64, projectIDs []string) ([]selection.SelectedCover, error)
}

// GenerationReader loads the generations of one collection.
type GenerationReader interface {
	ListForProjects(ctx context.Context, collectionID int64, projectIDs []string, statuses []generation.Status) ([]generation.Generation, error)
	ProjectIDsWithGenerations(ctx context.Context, collectionID int64, statuses []generation.Status) ([]string, error)
}

// Service computes the grid and the cover picker views.
type Service interface {
	Grid(ctx context.Context, q Query) (*Page, error)
	SelectionData(ctx context.Context, collectionID int64, projectIDs []string, initialProjectID string) (*SelectionData, error)
	SelectionShell(ctx context.Context, collectionID int64, initialProjectID string) (*SelectionShell, error)
	SelectionAttempts(ctx context.Context, collectionID int64, projectID string) ([]generation.Generation, error)
}

type service struct {
	repo          Repository
	projects      ProjectLister
	collections   CollectionReader
	selections    SelectionReader
	generations   GenerationReader
	publicBaseURL string
	log           zerolog.Logger
}

// NewService wires the grid service.
func NewService(
	repo Repository,
	projects ProjectLister,
	collections CollectionReader,
	selections SelectionReader,
	generations GenerationReader,
	publicBaseURL string,
	log zerolog.Logger,
) Service {
	return &service{
		repo:          repo,
		projects:      projects,
		collections:   collections,
		selections:    selections,
		generations:   generations,
		publicBaseURL: publicBaseURL,
		log:           log.With().Str("component", "grid-service").Logger(),
	}
}

func (s *service) Grid(ctx context.Context, q Query) (*Page, error) {
	page := &Page{
		Projects:    []project.Project{},
		Collections: []Row{},
		Pagination:  Pagination{Page: q.Page, PerPage: q.PerPage},
	}
	if q.ExplicitProjects && len(q.VisibleProjectIDs) == 0 {
		return page, nil
	}

	var (
		projects []project.Project
		err      error
	)
	if q.ExplicitProjects {
		projects, err = s.projects.ListByIDs(ctx, q.VisibleProjectIDs)
	} else {
		projects, err = s.projects.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	page.Projects = projects

	visible := make([]string, 0, len(projects))
	for _, p := range projects {
		visible = append(visible, p.ID)
	}

	statusFilter := q.StatusFilter
	if len(visible) == 0 {
		statusFilter = StatusFilterNone
	}
	collections, total, err := s.repo.PageCollections(ctx, CollectionFilter{
		Search:            q.Search,
		Type:              q.Type,
		Advanced:          q.Advanced,
		StatusFilter:      statusFilter,
		VisibleProjectIDs: visible,
		Sort:              q.Sort,
		Order:             q.Order,
		Offset:            q.Offset(),
		Limit:             q.PerPage,
	})
	if err != nil {
		return nil, err
	}
	page.Pagination.Total = total
	page.Pagination.TotalPages = totalPages(total, q.PerPage)
	if len(collections) == 0 {
		return page, nil
	}

	collectionIDs := make([]int64, 0, len(collections))
	for _, c := range collections {
		collectionIDs = append(collectionIDs, c.ID)
	}

	var (
		lastTimes map[int64]time.Time
		index     *cellIndex
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lastTimes, err = s.repo.LastGenerationTimes(gctx, collectionIDs)
		return err
	})
	g.Go(func() error {
		var err error
		index, err = s.loadCells(gctx, collectionIDs, visible)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	page.Collections = make([]Row, 0, len(collections))
	for _, c := range collections {
		row := Row{Collection: c, Cells: make(map[string]Cell, len(visible))}
		if t, ok := lastTimes[c.ID]; ok {
			row.LastGenerationAt = &t
		}
		for _, projectID := range visible {
			row.Cells[projectID] = index.cell(c.ID, projectID, s.publicBaseURL)
		}
		page.Collections = append(page.Collections, row)
	}

	s.log.Debug().
		Int("collections", len(page.Collections)).
		Int("projects", len(visible)).
		Int64("total", total).
		Msg("grid computed")
	return page, nil
}

// loadCells fetches everything needed to resolve the cells of a page with a
// fixed number of queries.
func (s *service) loadCells(ctx context.Context, collectionIDs []int64, projectIDs []string) (*cellIndex, error) {
	index := newCellIndex()
	if len(projectIDs) == 0 {
		return index, nil
	}

	selections, err := s.selections.ListForCells(ctx, collectionIDs, projectIDs)
	if err != nil {
		return nil, err
	}
	if err := s.indexSelections(ctx, index, selections); err != nil {
		return nil, err
	}

	latest, err := s.repo.LatestGenerations(ctx, collectionIDs, projectIDs)
	if err != nil {
		return nil, err
	}
	for i := range latest {
		g := &latest[i]
		index.latest[pairKey{collectionID: g.CollectionID, projectID: g.ProjectID}] = g
	}
	return index, nil
}

// indexSelections loads the generations and files referenced by selections.
func (s *service) indexSelections(ctx context.Context, index *cellIndex, selections []selection.SelectedCover) error {
	if len(selections) == 0 {
		return nil
	}

	generationIDs := make([]string, 0, len(selections))
	var explicitFiles []int64
	var implicitFiles []string
	for i := range selections {
		sel := &selections[i]
		index.selections[pairKey{collectionID: sel.CollectionID, projectID: sel.ProjectID}] = sel
		generationIDs = append(generationIDs, sel.GenerationID)
		if sel.GeneratedFileID != nil {
			explicitFiles = append(explicitFiles, *sel.GeneratedFileID)
		} else {
			implicitFiles = append(implicitFiles, sel.GenerationID)
		}
	}

	generations, err := s.repo.GenerationsByIDs(ctx, generationIDs)
	if err != nil {
		return err
	}
	for i := range generations {
		index.generations[generations[i].ID] = &generations[i]
	}

	if len(explicitFiles) > 0 {
		files, err := s.repo.FilesByIDs(ctx, explicitFiles)
		if err != nil {
			return err
		}
		for i := range files {
			index.files[files[i].ID] = &files[i]
		}
	}
	if len(implicitFiles) > 0 {
		files, err := s.repo.FirstFiles(ctx, implicitFiles)
		if err != nil {
			return err
		}
		for i := range files {
			index.firstFiles[files[i].GenerationID] = &files[i]
		}
	}
	return nil
}

func totalPages(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
