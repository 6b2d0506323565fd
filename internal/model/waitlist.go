package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Waitlist entry states.
const (
	WaitlistWaiting   = "waiting"
	WaitlistNotified  = "notified"
	WaitlistCancelled = "cancelled"
	WaitlistExpired   = "expired"
)

// WaitlistEntry is a guest waiting for a table to open up on a given day.
// The push fields hold the guest's browser push subscription.
type WaitlistEntry struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	TenantID        string     `gorm:"size:64;not null;index:idx_waitlist_day" json:"-"`
	RestaurantID    int64      `gorm:"not null;index:idx_waitlist_day" json:"restaurant_id"`
	Date            string     `gorm:"size:10;not null;index:idx_waitlist_day" json:"date"`
	PreferredTime   string     `gorm:"size:5;not null" json:"preferred_time"`
	PartySize       int        `gorm:"not null" json:"party_size"`
	DurationMinutes int        `gorm:"not null" json:"duration_minutes"`
	ContactName     string     `gorm:"size:128" json:"contact_name"`
	Endpoint        string     `gorm:"not null" json:"-"`
	P256DH          string     `gorm:"column:p256dh;not null" json:"-"`
	Auth            string     `gorm:"not null" json:"-"`
	Status          string     `gorm:"size:16;not null;index" json:"status"`
	NotifiedAt      *time.Time `json:"notified_at,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
}

// BeforeCreate assigns a random id to new entries.
func (w *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
