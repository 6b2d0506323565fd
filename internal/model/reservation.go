package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/parse"
)

// Reservation is a booking. Date is "YYYY-MM-DD" and Time is "HH:MM" in the
// restaurant's local time.
type Reservation struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID        string    `gorm:"size:64;not null;index:idx_reservations_day" json:"-"`
	RestaurantID    int64     `gorm:"not null;index:idx_reservations_day" json:"restaurant_id"`
	Date            string    `gorm:"size:10;not null;index:idx_reservations_day" json:"date"`
	Time            string    `gorm:"size:5;not null" json:"time"`
	TableID         *int64    `gorm:"index" json:"table_id"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	PartySize       int       `gorm:"not null" json:"party_size"`
	Status          string    `gorm:"size:16;not null;index" json:"status"`
	CustomerName    string    `gorm:"size:128" json:"customer_name"`
	CustomerPhone   string    `gorm:"size:32" json:"customer_phone"`
	Notes           string    `gorm:"size:512" json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BeforeCreate assigns a random id to new reservations.
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Engine converts the stored row into the engine's view.
func (r Reservation) Engine() (availability.Reservation, error) {
	date, err := parse.Date(r.Date)
	if err != nil {
		return availability.Reservation{}, fmt.Errorf("reservation %s: %w", r.ID, err)
	}
	start, err := parse.Clock(r.Time)
	if err != nil {
		return availability.Reservation{}, fmt.Errorf("reservation %s: %w", r.ID, err)
	}
	return availability.Reservation{
		ID:              r.ID,
		TableID:         r.TableID,
		Date:            date,
		Start:           start,
		DurationMinutes: r.DurationMinutes,
		PartySize:       r.PartySize,
		Status:          availability.ReservationStatus(r.Status),
	}, nil
}
