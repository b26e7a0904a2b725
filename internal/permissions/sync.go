package permissions

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/evencio/evencio/internal/models"
)

// SyncRegistry persists every registered permission as a database row so
// role assignments can reference them. Existing rows are updated in place.
func SyncRegistry(ctx context.Context, db *gorm.DB) error {
	ctx = ensureContext(ctx)

	defs := GetAll()
	rows := make([]models.Permission, 0, len(defs))
	for _, def := range defs {
		implies, err := json.Marshal(def.Implies)
		if err != nil {
			return fmt.Errorf("permission sync: marshal implies for %s: %w", def.ID, err)
		}
		rows = append(rows, models.Permission{
			BaseModel:   models.BaseModel{ID: def.ID},
			Module:      def.Module,
			Description: def.Description,
			Implies:     string(implies),
		})
	}

	if len(rows) == 0 {
		return nil
	}

	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"module", "description", "implies"}),
		}).
		Create(&rows).Error; err != nil {
		return fmt.Errorf("permission sync: upsert permissions: %w", err)
	}

	return nil
}
