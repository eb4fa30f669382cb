package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Project is the persisted generation configuration.
type Project struct {
	ID                   string            `gorm:"type:varchar(36);primaryKey"`
	Name                 string            `gorm:"type:varchar(255);not null;index"`
	SourcePath           *string           `gorm:"type:text"`
	SelectionPath        *string           `gorm:"type:text"`
	BasePositivePrompt   string            `gorm:"type:text;not null"`
	BaseNegativePrompt   string            `gorm:"type:text;not null"`
	BaseGenerationParams datatypes.JSONMap `gorm:"column:base_generation_params_json"`
	DefaultWidth         int               `gorm:"not null"`
	DefaultHeight        int               `gorm:"not null"`
	CreatedAt            time.Time         `gorm:"autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}

// Collection uses an operator assigned id.
type Collection struct {
	ID                       int64     `gorm:"primaryKey;autoIncrement:false"`
	Name                     string    `gorm:"type:varchar(255);not null;index"`
	Type                     string    `gorm:"type:varchar(100);not null;index"`
	CollectionPositivePrompt string    `gorm:"type:text;not null"`
	CollectionNegativePrompt string    `gorm:"type:text;not null"`
	Comment                  string    `gorm:"type:text;not null"`
	CreatedAt                time.Time `gorm:"autoCreateTime"`
	UpdatedAt                time.Time `gorm:"autoUpdateTime"`
}

func (Collection) TableName() string {
	return "collections"
}

// Generation is one dispatched attempt for a (project, collection) pair.
type Generation struct {
	ID                  string            `gorm:"type:varchar(36);primaryKey"`
	ProjectID           string            `gorm:"type:varchar(36);not null;index;index:idx_generations_pair,priority:2"`
	CollectionID        int64             `gorm:"not null;index:idx_generations_pair,priority:1"`
	SchedulerTaskID     *string           `gorm:"type:varchar(255);index"`
	Status              string            `gorm:"type:varchar(16);not null;index"`
	ModerationStatus    string            `gorm:"type:varchar(32);not null"`
	FinalPositivePrompt string            `gorm:"type:text;not null"`
	FinalNegativePrompt string            `gorm:"type:text;not null"`
	GenerationParams    datatypes.JSONMap `gorm:"column:generation_params"`
	ErrorMessage        *string           `gorm:"type:text"`
	CreatedAt           time.Time         `gorm:"autoCreateTime"`
	UpdatedAt           time.Time         `gorm:"autoUpdateTime;index:idx_generations_pair,priority:3"`
	Files               []GeneratedFile   `gorm:"foreignKey:GenerationID"`
}

func (Generation) TableName() string {
	return "generations"
}

// GeneratedFile is one stored output of a generation. FilePath is absolute or
// relative to the generated files root.
type GeneratedFile struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	GenerationID     string    `gorm:"type:varchar(36);not null;index"`
	FilePath         string    `gorm:"type:varchar(1024);not null;uniqueIndex"`
	OriginalFilename string    `gorm:"type:varchar(512);not null"`
	MimeType         string    `gorm:"type:varchar(128);not null"`
	SizeBytes        int64     `gorm:"not null"`
	Infotext         *string   `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (GeneratedFile) TableName() string {
	return "generated_files"
}

// SelectedCover is keyed by the (collection_id, project_id) pair.
type SelectedCover struct {
	CollectionID    int64     `gorm:"primaryKey;autoIncrement:false"`
	ProjectID       string    `gorm:"type:varchar(36);primaryKey"`
	GenerationID    string    `gorm:"type:varchar(36);not null;index"`
	GeneratedFileID *int64    `gorm:"index"`
	SelectedAt      time.Time `gorm:"not null"`
}

func (SelectedCover) TableName() string {
	return "selected_covers"
}
