// Package cascade removes the rows owned by a project or a collection.
package cascade

import (
	"gorm.io/gorm"

	"github.com/Romer4ig/image-moderation/internal/infrastructure/database/entities"
)

// Owner names the column linking generations and selections to their owner.
type Owner string

const (
	OwnerProject    Owner = "project_id"
	OwnerCollection Owner = "collection_id"
)

// Delete removes selections, generations and generated files belonging to
// the owner inside tx and returns the ids of the removed generations.
func Delete(tx *gorm.DB, owner Owner, id any) ([]string, error) {
	column := string(owner)

	if err := tx.Where(column+" = ?", id).Delete(&entities.SelectedCover{}).Error; err != nil {
		return nil, err
	}

	var generationIDs []string
	if err := tx.Model(&entities.Generation{}).Where(column+" = ?", id).Pluck("id", &generationIDs).Error; err != nil {
		return nil, err
	}
	if len(generationIDs) == 0 {
		return generationIDs, nil
	}

	if err := tx.Where("generation_id IN ?", generationIDs).Delete(&entities.GeneratedFile{}).Error; err != nil {
		return nil, err
	}
	// Selections of other owners may still point at these generations.
	if err := tx.Where("generation_id IN ?", generationIDs).Delete(&entities.SelectedCover{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("id IN ?", generationIDs).Delete(&entities.Generation{}).Error; err != nil {
		return nil, err
	}
	return generationIDs, nil
}
