package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant-availability-backend/internal/model"
)

// SyncRoster upserts the upstream tables of a restaurant by external id and
// deactivates previously synced tables missing from the feed. It returns the
// number of tables deactivated. An empty feed changes nothing.
func (s *gormStore) SyncRoster(ctx context.Context, tenantID string, restaurantID int64, tables []model.Table) (int64, error) {
	if len(tables) == 0 {
		return 0, nil
	}

	externalIDs := make([]int64, 0, len(tables))
	for i := range tables {
		if tables[i].ExternalID == nil {
			return 0, fmt.Errorf("%w: roster table %q has no external id", ErrInvalidInput, tables[i].Label)
		}
		tables[i].TenantID = tenantID
		tables[i].RestaurantID = restaurantID
		externalIDs = append(externalIDs, *tables[i].ExternalID)
	}

	var deactivated int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "restaurant_id"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"zone", "number", "label", "capacity", "is_active", "status", "updated_at",
			}),
		}).Create(&tables).Error; err != nil {
			return fmt.Errorf("failed to upsert roster: %w", err)
		}

		res := tx.Model(&model.Table{}).
			Where("tenant_id = ? AND restaurant_id = ? AND external_id IS NOT NULL AND external_id NOT IN ? AND is_active = ?",
				tenantID, restaurantID, externalIDs, true).
			Update("is_active", false)
		if res.Error != nil {
			return fmt.Errorf("failed to deactivate missing tables: %w", res.Error)
		}
		deactivated = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deactivated, nil
}
