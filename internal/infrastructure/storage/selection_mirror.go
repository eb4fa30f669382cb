package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/infrastructure/metrics"
	"github.com/Romer4ig/image-moderation/internal/utils/fileid"
)

const s3Scheme = "s3://"

// PathResolver maps stored file paths to files on disk.
type PathResolver interface {
	Resolve(path string) (string, error)
}

// SelectionMirror copies selected covers into a project's selection folder.
// Destinations starting with s3:// are written to object storage.
type SelectionMirror struct {
	files PathResolver
	s3    *S3Mirror
	log   zerolog.Logger
}

func NewSelectionMirror(files PathResolver, s3 *S3Mirror, log zerolog.Logger) *SelectionMirror {
	return &SelectionMirror{
		files: files,
		s3:    s3,
		log:   log.With().Str("component", "selection-mirror").Logger(),
	}
}

// Copy writes the stored file as <name><ext> into destination and removes
// earlier copies of name with another extension.
func (m *SelectionMirror) Copy(ctx context.Context, destination string, name string, storedPath string) error {
	src, err := m.files.Resolve(storedPath)
	if err != nil {
		return err
	}
	ext := fileid.Extension(src)

	if strings.HasPrefix(destination, s3Scheme) {
		err = m.s3.Put(ctx, destination, name, ext, src)
		metrics.MirrorOperationsTotal.WithLabelValues("s3", metrics.Status(err)).Inc()
		return err
	}

	err = copyLocal(destination, name, ext, src)
	metrics.MirrorOperationsTotal.WithLabelValues("local", metrics.Status(err)).Inc()
	if err == nil {
		m.log.Debug().Str("destination", destination).Str("file", name+ext).Msg("selected cover mirrored")
	}
	return err
}

func copyLocal(dir, name, ext, src string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create selection folder: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open selected file: %w", err)
	}
	defer in.Close()

	target := filepath.Join(dir, name+ext)
	tmp, err := os.CreateTemp(dir, "."+name+"-*"+ext)
	if err != nil {
		return fmt.Errorf("create temp copy: %w", err)
	}
	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("copy selected file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp copy: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("move selected file into place: %w", err)
	}

	for _, other := range staleExtensions(ext) {
		if err := os.Remove(filepath.Join(dir, name+other)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove previous selection: %w", err)
		}
	}
	return nil
}

// staleExtensions lists the image extensions a previous copy may have used.
func staleExtensions(current string) []string {
	out := make([]string, 0, len(SupportedImageExtensions))
	for _, ext := range SupportedImageExtensions {
		if ext != current {
			out = append(out, ext)
		}
	}
	return out
}
