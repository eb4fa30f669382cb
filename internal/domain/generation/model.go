package generation

import (
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle state of a generation attempt.
type Status string

const (
	StatusPending   Status = "pending"
	StatusQueued    Status = "queued"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is expected under normal flow.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ModerationStatus is a review axis independent from the lifecycle status.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending_moderation"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// Reserved parameter keys; every other key is passed to the scheduler untouched.
const (
	ParamWidth          = "width"
	ParamHeight         = "height"
	ParamPrompt         = "prompt"
	ParamNegativePrompt = "negative_prompt"
	ParamCallbackURL    = "callback_url"
)

// Params is the open-ended parameter bag sent to the scheduler.
type Params map[string]any

// Clone returns a shallow copy so callers can modify top-level keys freely.
func (p Params) Clone() Params {
	out := make(Params, len(p)+4)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Generation is one dispatched attempt to produce images for a
// (project, collection) pair.
type Generation struct {
	ID                  string           `json:"id"`
	ProjectID           string           `json:"project_id"`
	CollectionID        int64            `json:"collection_id"`
	SchedulerTaskID     *string          `json:"scheduler_task_id"`
	Status              Status           `json:"status"`
	ModerationStatus    ModerationStatus `json:"moderation_status"`
	FinalPositivePrompt string           `json:"final_positive_prompt"`
	FinalNegativePrompt string           `json:"final_negative_prompt"`
	GenerationParams    Params           `json:"generation_params"`
	ErrorMessage        *string          `json:"error_message"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	Files               []File           `json:"generated_files,omitempty"`
}

// File is one stored output belonging to a generation. FilePath is either
// absolute or relative to the generated files root.
type File struct {
	ID               int64     `json:"id"`
	GenerationID     string    `json:"generation_id"`
	FilePath         string    `json:"file_path"`
	OriginalFilename string    `json:"original_filename"`
	MimeType         string    `json:"mime_type"`
	SizeBytes        int64     `json:"size_bytes"`
	Infotext         *string   `json:"infotext"`
	CreatedAt        time.Time `json:"created_at"`
	FileURL          string    `json:"file_url"`
}

// FileURL builds the public address of a stored file.
func FileURL(base string, fileID int64) string {
	return strings.TrimRight(base, "/") + "/api/generated_files/" + strconv.FormatInt(fileID, 10)
}

// WithURLs fills FileURL on every file.
func WithURLs(base string, files []File) []File {
	for i := range files {
		files[i].FileURL = FileURL(base, files[i].ID)
	}
	return files
}

func stringPtr(s string) *string {
	return &s
}
