package model

import "time"

// Restaurant is a venue owned by a tenant.
type Restaurant struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	TenantID  string    `gorm:"index;size:64;not null" json:"-"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Tables []Table `gorm:"foreignKey:RestaurantID" json:"-"`
}
