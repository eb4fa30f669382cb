package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// SupportedImageExtensions are the file types imported and mirrored.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// IsSupportedImage reports whether name has a supported image extension.
func IsSupportedImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedImageExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// SourceScanner lists images directly inside a project's source folder.
type SourceScanner struct {
	log zerolog.Logger
}

func NewSourceScanner(log zerolog.Logger) *SourceScanner {
	return &SourceScanner{log: log.With().Str("component", "source-scanner").Logger()}
}

// Scan returns supported images in dir sorted by name. Sub folders are not
// visited.
func (s *SourceScanner) Scan(ctx context.Context, dir string) ([]generation.SourceImage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation,
			"Invalid source_path", err, "source-path-invalid")
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound,
				"Source path does not exist", err, "source-path-missing", map[string]any{"path": abs})
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeFilesystem,
			"Failed to read source path", err, "source-path-read-failed")
	}

	images := make([]generation.SourceImage, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsSupportedImage(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			s.log.Warn().Err(err).Str("file", entry.Name()).Msg("stat source image")
			continue
		}
		path := filepath.Join(abs, entry.Name())
		mimeType := "application/octet-stream"
		if detected, err := mimetype.DetectFile(path); err == nil {
			mimeType = detected.String()
		}
		images = append(images, generation.SourceImage{
			Name:     entry.Name(),
			AbsPath:  path,
			Size:     info.Size(),
			MimeType: mimeType,
		})
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images, nil
}
