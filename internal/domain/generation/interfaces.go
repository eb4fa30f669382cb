package generation

import (
	"context"
	"io"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/project"
)

// Repository persists generations and their files.
type Repository interface {
	Create(ctx context.Context, g *Generation) error
	GetByID(ctx context.Context, id string) (*Generation, error)
	// FindByID returns nil without error when the generation does not exist.
	FindByID(ctx context.Context, id string) (*Generation, error)
	// MarkQueued and FailPending only move a generation out of pending; a
	// generation already finished by its callback is returned unchanged.
	MarkQueued(ctx context.Context, id string, taskID string) (*Generation, error)
	FailPending(ctx context.Context, id string, message string) (*Generation, error)
	MarkFailed(ctx context.Context, id string, message string) (*Generation, error)
	// Complete inserts the files and marks the generation completed in one transaction.
	Complete(ctx context.Context, id string, files []File, warning *string) (*Generation, error)
	GetFile(ctx context.Context, id int64) (*File, error)
	// FirstFile returns the earliest created file of a generation or nil.
	FirstFile(ctx context.Context, generationID string) (*File, error)
	FileExistsByPath(ctx context.Context, path string) (bool, error)
	CreateImported(ctx context.Context, g *Generation, f *File) error
	// ListForProjects returns the collection's generations for the given
	// projects with their files, newest first.
	ListForProjects(ctx context.Context, collectionID int64, projectIDs []string, statuses []Status) ([]Generation, error)
	// ProjectIDsWithGenerations lists the distinct projects having generations in
	// one of the statuses for the collection.
	ProjectIDsWithGenerations(ctx context.Context, collectionID int64, statuses []Status) ([]string, error)
}

// ProjectReader loads projects.
type ProjectReader interface {
	GetByID(ctx context.Context, id string) (*project.Project, error)
}

// CollectionReader loads collections.
type CollectionReader interface {
	GetByID(ctx context.Context, id int64) (*collection.Collection, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// EnqueueResult is the scheduler's acknowledgement of a queued task.
type EnqueueResult struct {
	TaskID        string
	QueuePosition *int
}

// Scheduler submits generation requests to the external scheduler.
type Scheduler interface {
	Enqueue(ctx context.Context, payload Params) (*EnqueueResult, error)
}

// StoredFile describes a file written by a FileStore.
type StoredFile struct {
	Path     string
	AbsPath  string
	Size     int64
	MimeType string
}

// FileStore keeps generated files under a root folder partitioned by generation id.
type FileStore interface {
	Save(ctx context.Context, generationID string, originalName string, r io.Reader) (*StoredFile, error)
	Remove(ctx context.Context, path string) error
	RemoveGeneration(ctx context.Context, generationID string) error
	// Resolve maps a stored path to an absolute path on disk.
	Resolve(path string) (string, error)
}

// SourceImage is an image found in a project's source folder.
type SourceImage struct {
	Name     string
	AbsPath  string
	Size     int64
	MimeType string
}

// SourceScanner lists importable images in a folder.
type SourceScanner interface {
	Scan(ctx context.Context, dir string) ([]SourceImage, error)
}
