package grid

import (
	"context"
	"time"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/domain/project"
)

// SelectedCoverRef is the resolved cover shown in the picker header.
type SelectedCoverRef struct {
	GenerationID    string `json:"generation_id"`
	GeneratedFileID int64  `json:"generated_file_id"`
	FileURL         string `json:"file_url"`
}

// TopRowProject is one project in the picker header.
type TopRowProject struct {
	ProjectID     string            `json:"project_id"`
	ProjectName   string            `json:"project_name"`
	SelectedCover *SelectedCoverRef `json:"selected_cover"`
}

// Attempt is one generated file offered in the picker body.
type Attempt struct {
	GenerationID    string    `json:"generation_id"`
	GeneratedFileID int64     `json:"generated_file_id"`
	FileURL         string    `json:"file_url"`
	CreatedAt       time.Time `json:"created_at"`
	OriginProjectID string    `json:"origin_project_id"`
}

// SelectionShell is the picker header: the target cell and every project with
// its current cover.
type SelectionShell struct {
	Collection     collection.Collection `json:"collection"`
	TargetProject  project.Project       `json:"target_project"`
	TopRowProjects []TopRowProject       `json:"top_row_projects"`
}

// SelectionData combines the shell with the completed attempts of the
// requested projects.
type SelectionData struct {
	SelectionShell
	GenerationAttempts        []Attempt `json:"generation_attempts"`
	ProjectIDsWithGenerations []string  `json:"project_ids_with_generations"`
}

var (
	completedOnly    = []generation.Status{generation.StatusCompleted}
	finishedStatuses = []generation.Status{generation.StatusCompleted, generation.StatusFailed}
)

func (s *service) SelectionShell(ctx context.Context, collectionID int64, initialProjectID string) (*SelectionShell, error) {
	c, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	target, err := s.projects.GetByID(ctx, initialProjectID)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	selections, err := s.selections.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	index := newCellIndex()
	if err := s.indexSelections(ctx, index, selections); err != nil {
		return nil, err
	}

	topRow := make([]TopRowProject, 0, len(projects))
	for _, p := range projects {
		item := TopRowProject{ProjectID: p.ID, ProjectName: p.Name}
		if sel := index.selections[pairKey{collectionID: collectionID, projectID: p.ID}]; sel != nil {
			if f := index.selectedFile(sel); f != nil {
				item.SelectedCover = &SelectedCoverRef{
					GenerationID:    sel.GenerationID,
					GeneratedFileID: f.ID,
					FileURL:         generation.FileURL(s.publicBaseURL, f.ID),
				}
			}
		}
		topRow = append(topRow, item)
	}

	return &SelectionShell{
		Collection:     *c,
		TargetProject:  *target,
		TopRowProjects: topRow,
	}, nil
}

func (s *service) SelectionData(ctx context.Context, collectionID int64, projectIDs []string, initialProjectID string) (*SelectionData, error) {
	shell, err := s.SelectionShell(ctx, collectionID, initialProjectID)
	if err != nil {
		return nil, err
	}
	data := &SelectionData{
		SelectionShell:            *shell,
		GenerationAttempts:        []Attempt{},
		ProjectIDsWithGenerations: []string{},
	}
	if len(projectIDs) == 0 {
		return data, nil
	}

	withGenerations, err := s.generations.ProjectIDsWithGenerations(ctx, collectionID, completedOnly)
	if err != nil {
		return nil, err
	}
	data.ProjectIDsWithGenerations = withGenerations

	generations, err := s.generations.ListForProjects(ctx, collectionID, projectIDs, completedOnly)
	if err != nil {
		return nil, err
	}

	for _, g := range generations {
		for _, f := range g.Files {
			data.GenerationAttempts = append(data.GenerationAttempts, Attempt{
				GenerationID:    g.ID,
				GeneratedFileID: f.ID,
				FileURL:         generation.FileURL(s.publicBaseURL, f.ID),
				CreatedAt:       f.CreatedAt,
				OriginProjectID: g.ProjectID,
			})
		}
	}
	return data, nil
}

func (s *service) SelectionAttempts(ctx context.Context, collectionID int64, projectID string) ([]generation.Generation, error) {
	if _, err := s.collections.GetByID(ctx, collectionID); err != nil {
		return nil, err
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	generations, err := s.generations.ListForProjects(ctx, collectionID, []string{projectID}, finishedStatuses)
	if err != nil {
		return nil, err
	}
	for i := range generations {
		generations[i].Files = generation.WithURLs(s.publicBaseURL, generations[i].Files)
	}
	return generations, nil
}
