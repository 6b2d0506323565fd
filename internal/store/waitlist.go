package store

import (
	"context"
	"fmt"
	"time"

	"restaurant-availability-backend/internal/model"
)

func (s *gormStore) CreateWaitlistEntry(ctx context.Context, e *model.WaitlistEntry) error {
	if e.PartySize < 1 || e.Endpoint == "" || e.P256DH == "" || e.Auth == "" {
		return fmt.Errorf("%w: waitlist entry needs a party size and a push subscription", ErrInvalidInput)
	}
	e.Status = model.WaitlistWaiting
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}
	return nil
}

// CancelWaitlistEntry withdraws a waiting entry. Entries that were already
// notified, cancelled or expired are reported as not found.
func (s *gormStore) CancelWaitlistEntry(ctx context.Context, tenantID string, restaurantID int64, id string) error {
	res := s.db.WithContext(ctx).Model(&model.WaitlistEntry{}).
		Where("tenant_id = ? AND restaurant_id = ? AND id = ? AND status = ?", tenantID, restaurantID, id, model.WaitlistWaiting).
		Update("status", model.WaitlistCancelled)
	if res.Error != nil {
		return fmt.Errorf("failed to cancel waitlist entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("waitlist entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// WaitingEntries returns the entries still waiting for the given day,
// oldest first.
func (s *gormStore) WaitingEntries(ctx context.Context, tenantID string, restaurantID int64, date string) ([]model.WaitlistEntry, error) {
	var entries []model.WaitlistEntry
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND restaurant_id = ? AND date = ? AND status = ?", tenantID, restaurantID, date, model.WaitlistWaiting).
		Order("created_at, id").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list waitlist: %w", err)
	}
	return entries, nil
}

// ClaimWaitlistEntry marks a waiting entry as notified. It returns false
// when another worker claimed the entry first.
func (s *gormStore) ClaimWaitlistEntry(ctx context.Context, id string, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.WaitlistEntry{}).
		Where("id = ? AND status = ?", id, model.WaitlistWaiting).
		Updates(map[string]any{"status": model.WaitlistNotified, "notified_at": at})
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim waitlist entry: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ExpireWaitlistEntry marks an entry whose push subscription is gone.
func (s *gormStore) ExpireWaitlistEntry(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Model(&model.WaitlistEntry{}).
		Where("id = ?", id).
		Update("status", model.WaitlistExpired).Error; err != nil {
		return fmt.Errorf("failed to expire waitlist entry: %w", err)
	}
	return nil
}
