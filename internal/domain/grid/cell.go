package grid

import (
	"time"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/domain/project"
	"github.com/Romer4ig/image-moderation/internal/domain/selection"
)

// CellStatus is the display state of one (collection, project) cell.
type CellStatus string

const (
	CellNotGenerated         CellStatus = "not_generated"
	CellSelected             CellStatus = "selected"
	CellGeneratedNotSelected CellStatus = "generated_not_selected"
	CellQueued               CellStatus = "queued"
	CellError                CellStatus = "error"
	CellUnknown              CellStatus = "unknown"
)

const (
	msgSelectedFileMissing       = "Selected cover data inconsistent (file missing?)"
	msgSelectedGenerationMissing = "Selected cover data inconsistent (generation missing?)"
)

// Cell is the resolved state of a grid cell.
type Cell struct {
	Status          CellStatus `json:"status"`
	GenerationID    *string    `json:"generation_id"`
	GeneratedFileID *int64     `json:"generated_file_id"`
	FileURL         *string    `json:"file_url"`
	FilePath        *string    `json:"file_path"`
	IsSelected      bool       `json:"is_selected"`
	ErrorMessage    *string    `json:"error_message"`
}

// Row is one collection of the grid with its cells keyed by project id.
type Row struct {
	collection.Collection
	LastGenerationAt *time.Time      `json:"last_generation_at"`
	Cells            map[string]Cell `json:"cells"`
}

// Pagination describes the returned page.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Page is the grid response.
type Page struct {
	Projects    []project.Project `json:"projects"`
	Collections []Row             `json:"collections"`
	Pagination  Pagination        `json:"pagination"`
}

// resolveCell applies the display precedence for one cell: a selection wins,
// then the most recently updated generation, then not_generated.
// selectedGen and selectedFile are the rows the selection points to, nil when
// missing; latest is the pair's most recent generation, nil when none.
func resolveCell(
	sel *selection.SelectedCover,
	selectedGen *generation.Generation,
	selectedFile *generation.File,
	latest *generation.Generation,
	baseURL string,
) Cell {
	cell := Cell{Status: CellNotGenerated}

	if sel != nil {
		cell.IsSelected = true
		switch {
		case selectedGen == nil:
			cell.Status = CellError
			cell.ErrorMessage = ptr(msgSelectedGenerationMissing)
		case selectedFile == nil:
			cell.Status = CellError
			cell.GenerationID = ptr(selectedGen.ID)
			cell.ErrorMessage = ptr(msgSelectedFileMissing)
		default:
			cell.Status = CellSelected
			cell.GenerationID = ptr(selectedGen.ID)
			cell.GeneratedFileID = ptr(selectedFile.ID)
			cell.FileURL = ptr(generation.FileURL(baseURL, selectedFile.ID))
			cell.FilePath = ptr(selectedFile.FilePath)
		}
		return cell
	}

	if latest == nil {
		return cell
	}
	cell.GenerationID = ptr(latest.ID)
	switch latest.Status {
	case generation.StatusCompleted:
		cell.Status = CellGeneratedNotSelected
	case generation.StatusPending, generation.StatusQueued:
		cell.Status = CellQueued
	case generation.StatusFailed:
		cell.Status = CellError
		cell.ErrorMessage = latest.ErrorMessage
	default:
		cell.Status = CellUnknown
	}
	return cell
}

type pairKey struct {
	collectionID int64
	projectID    string
}

// cellIndex holds the bulk loaded rows of one page, joined in memory.
type cellIndex struct {
	selections  map[pairKey]*selection.SelectedCover
	generations map[string]*generation.Generation
	files       map[int64]*generation.File
	firstFiles  map[string]*generation.File
	latest      map[pairKey]*generation.Generation
}

func newCellIndex() *cellIndex {
	return &cellIndex{
		selections:  map[pairKey]*selection.SelectedCover{},
		generations: map[string]*generation.Generation{},
		files:       map[int64]*generation.File{},
		firstFiles:  map[string]*generation.File{},
		latest:      map[pairKey]*generation.Generation{},
	}
}

// selectedFile resolves the file a selection points to: the explicit file
// when set, otherwise the earliest created file of its generation.
func (ix *cellIndex) selectedFile(sel *selection.SelectedCover) *generation.File {
	if sel.GeneratedFileID != nil {
		f := ix.files[*sel.GeneratedFileID]
		if f == nil || f.GenerationID != sel.GenerationID {
			return nil
		}
		return f
	}
	return ix.firstFiles[sel.GenerationID]
}

func (ix *cellIndex) cell(collectionID int64, projectID, baseURL string) Cell {
	key := pairKey{collectionID: collectionID, projectID: projectID}
	sel := ix.selections[key]
	if sel != nil {
		return resolveCell(sel, ix.generations[sel.GenerationID], ix.selectedFile(sel), nil, baseURL)
	}
	return resolveCell(nil, nil, nil, ix.latest[key], baseURL)
}

func ptr[T any](v T) *T {
	return &v
}
