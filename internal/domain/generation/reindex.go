package generation

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

var leadingCollectionID = regexp.MustCompile(`^(\d+)`)

// ReindexError explains why one file in the source folder was not imported.
type ReindexError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// ReindexReport summarizes an import of pre-existing images.
type ReindexReport struct {
	Message     string         `json:"message"`
	PathChecked string         `json:"path_checked"`
	EntryCount  int            `json:"entry_count"`
	Imported    int            `json:"imported"`
	Skipped     int            `json:"skipped"`
	Errors      []ReindexError `json:"errors"`
}

// CollectionIDFromFilename extracts the collection id encoded as the leading
// digits of a file name.
func CollectionIDFromFilename(name string) (int64, bool) {
	m := leadingCollectionID.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	return collection.ParseID(m[1])
}

// Reindex imports images found in the project's source folder as completed
// generations. Files already indexed are skipped.
func (s *service) Reindex(ctx context.Context, projectID string) (*ReindexReport, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.SourcePath == nil || *p.SourcePath == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Project has no source_path configured", nil, "reindex-no-source-path")
	}

	images, err := s.scanner.Scan(ctx, *p.SourcePath)
	if err != nil {
		return nil, err
	}

	report := &ReindexReport{
		PathChecked: *p.SourcePath,
		EntryCount:  len(images),
		Errors:      []ReindexError{},
	}
	for _, img := range images {
		imported, err := s.importImage(ctx, p.ID, img)
		switch {
		case err != nil:
			report.Errors = append(report.Errors, ReindexError{File: img.Name, Error: messageOf(err)})
		case imported:
			report.Imported++
		default:
			report.Skipped++
		}
	}
	report.Message = fmt.Sprintf("Reindex finished: %d imported, %d skipped, %d errors.",
		report.Imported, report.Skipped, len(report.Errors))

	s.log.Info().
		Str("project_id", p.ID).
		Str("path", *p.SourcePath).
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Int("errors", len(report.Errors)).
		Msg("project reindexed")
	return report, nil
}

func (s *service) importImage(ctx context.Context, projectID string, img SourceImage) (bool, error) {
	collectionID, ok := CollectionIDFromFilename(img.Name)
	if !ok {
		return false, nil
	}
	exists, err := s.collections.Exists(ctx, collectionID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("Collection %d not found", collectionID), nil, "reindex-collection-missing")
	}
	indexed, err := s.repo.FileExistsByPath(ctx, img.AbsPath)
	if err != nil {
		return false, err
	}
	if indexed {
		return false, nil
	}

	g := &Generation{
		ID:               uuid.NewString(),
		ProjectID:        projectID,
		CollectionID:     collectionID,
		Status:           StatusCompleted,
		ModerationStatus: ModerationPending,
		GenerationParams: Params{},
	}
	f := &File{
		GenerationID:     g.ID,
		FilePath:         img.AbsPath,
		OriginalFilename: img.Name,
		MimeType:         img.MimeType,
		SizeBytes:        img.Size,
	}
	if err := s.repo.CreateImported(ctx, g, f); err != nil {
		return false, err
	}
	return true, nil
}
