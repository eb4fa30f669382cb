package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/config"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/metrics"
	"github.com/Romer4ig/image-moderation/internal/utils/fileid"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// FileStore keeps generated files under <root>/<generation_id>/<ulid>.<ext>.
type FileStore struct {
	root string
	log  zerolog.Logger
}

// NewFileStore creates the root folder when missing.
func NewFileStore(cfg *config.Config, log zerolog.Logger) (*FileStore, error) {
	logger := log.With().Str("component", "file-store").Logger()

	root, err := filepath.Abs(strings.TrimSpace(cfg.GeneratedFilesFolder))
	if err != nil {
		return nil, fmt.Errorf("resolve generated files folder: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create generated files folder: %w", err)
	}

	logger.Info().Str("path", root).Msg("file store initialized")
	return &FileStore{root: root, log: logger}, nil
}

// Root returns the absolute files root.
func (s *FileStore) Root() string {
	return s.root
}

// Save writes r to a new file of the generation and returns its root
// relative path. A partially written file is removed on error.
func (s *FileStore) Save(ctx context.Context, generationID string, originalName string, r io.Reader) (*generation.StoredFile, error) {
	if !validSegment(generationID) {
		return nil, fsError(ctx, platformerrors.ErrorTypeValidation, "invalid generation id for storage", nil)
	}

	dir := filepath.Join(s.root, generationID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		metrics.StoredFilesTotal.WithLabelValues("save", "error").Inc()
		return nil, fsError(ctx, platformerrors.ErrorTypeFilesystem, "failed to create generation folder", err)
	}

	name := fileid.StoredName(originalName)
	absPath := filepath.Join(dir, name)
	size, err := writeFile(absPath, r)
	if err != nil {
		_ = os.Remove(absPath)
		metrics.StoredFilesTotal.WithLabelValues("save", "error").Inc()
		return nil, fsError(ctx, platformerrors.ErrorTypeFilesystem, fmt.Sprintf("failed to save file %q", originalName), err)
	}

	mimeType := "application/octet-stream"
	if detected, err := mimetype.DetectFile(absPath); err == nil {
		mimeType = detected.String()
	}

	metrics.StoredFilesTotal.WithLabelValues("save", "success").Inc()
	metrics.StoredBytesTotal.Add(float64(size))
	s.log.Debug().
		Str("generation_id", generationID).
		Str("file", name).
		Int64("bytes", size).
		Msg("generated file stored")

	return &generation.StoredFile{
		Path:     filepath.ToSlash(filepath.Join(generationID, name)),
		AbsPath:  absPath,
		Size:     size,
		MimeType: mimeType,
	}, nil
}

// writeFile copies r to path and returns the size found on disk.
func writeFile(path string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Remove deletes a stored file. Absolute paths outside the root belong to
// imported source folders and are left alone.
func (s *FileStore) Remove(ctx context.Context, path string) error {
	if filepath.IsAbs(path) && !within(s.root, filepath.Clean(path)) {
		return nil
	}
	abs, err := s.resolvePath(ctx, path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		metrics.StoredFilesTotal.WithLabelValues("remove", "error").Inc()
		return fsError(ctx, platformerrors.ErrorTypeFilesystem, "failed to remove file", err)
	}
	metrics.StoredFilesTotal.WithLabelValues("remove", "success").Inc()
	return nil
}

// RemoveGeneration deletes the folder holding a generation's files.
func (s *FileStore) RemoveGeneration(ctx context.Context, generationID string) error {
	if !validSegment(generationID) {
		return nil
	}
	if err := os.RemoveAll(filepath.Join(s.root, generationID)); err != nil {
		metrics.StoredFilesTotal.WithLabelValues("remove_generation", "error").Inc()
		return fsError(ctx, platformerrors.ErrorTypeFilesystem, "failed to remove generation folder", err)
	}
	return nil
}

// Resolve maps a stored path to an existing file on disk. Relative paths may
// not escape the root.
func (s *FileStore) Resolve(path string) (string, error) {
	ctx := context.Background()
	abs, err := s.resolvePath(ctx, path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound,
			"File not found on disk", err, "stored-file-missing", map[string]any{"path": path})
	}
	return abs, nil
}

func (s *FileStore) resolvePath(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fsError(ctx, platformerrors.ErrorTypeValidation, "empty file path", nil)
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	abs := filepath.Join(s.root, filepath.FromSlash(path))
	if !within(s.root, abs) {
		return "", fsError(ctx, platformerrors.ErrorTypeValidation, "file path escapes the generated files folder", nil)
	}
	return abs, nil
}

// Health checks that the root folder is writable.
func (s *FileStore) Health(ctx context.Context) error {
	probe := filepath.Join(s.root, ".health_check")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("generated files folder not writable: %w", err)
	}
	_ = os.Remove(probe)
	return nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func fsError(ctx context.Context, errorType platformerrors.ErrorType, message string, err error) error {
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, errorType, message, err, "file-store")
}
