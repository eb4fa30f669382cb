package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Romer4ig/image-moderation/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.Project{},
		&entities.Collection{},
		&entities.Generation{},
		&entities.GeneratedFile{},
		&entities.SelectedCover{},
	); err != nil {
		return err
	}
	log.Info().Msg("database schema up to date")
	return nil
}
