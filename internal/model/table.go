package model

import (
	"time"

	"restaurant-availability-backend/internal/availability"
)

// Table is a seating resource of a restaurant.
type Table struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	TenantID     string `gorm:"index;size:64;not null" json:"-"`
	RestaurantID int64  `gorm:"not null;uniqueIndex:idx_tables_external" json:"restaurant_id"`
	// ExternalID is the upstream POS id of tables maintained by roster sync.
	ExternalID *int64    `gorm:"uniqueIndex:idx_tables_external" json:"external_id,omitempty"`
	Zone       string    `gorm:"size:64" json:"zone"`
	Number     int       `json:"number"`
	Label      string    `gorm:"size:128" json:"label"`
	Capacity   int       `gorm:"not null" json:"capacity"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	Status     string    `gorm:"size:16;not null" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Engine returns the read-only view the availability engine schedules against.
func (t Table) Engine() availability.Table {
	return availability.Table{
		ID:       t.ID,
		Capacity: t.Capacity,
		Active:   t.IsActive,
		Status:   availability.TableStatus(t.Status),
	}
}
