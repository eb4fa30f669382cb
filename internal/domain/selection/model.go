package selection

import "time"

// SelectedCover pins the canonical cover of a (collection, project) pair.
// When GeneratedFileID is nil the earliest created file of the generation is
// the effective cover.
type SelectedCover struct {
	CollectionID    int64     `json:"collection_id"`
	ProjectID       string    `json:"project_id"`
	GenerationID    string    `json:"generation_id"`
	GeneratedFileID *int64    `json:"generated_file_id"`
	SelectedAt      time.Time `json:"selected_at"`
}

// Request selects a cover for a pair.
type Request struct {
	CollectionID    int64
	ProjectID       string
	GenerationID    string
	GeneratedFileID *int64
}

// Result describes the stored selection and the file it resolves to.
type Result struct {
	Message         string        `json:"message"`
	Selection       SelectedCover `json:"selection"`
	GeneratedFileID int64         `json:"generated_file_id"`
	FileURL         string        `json:"file_url"`
}
