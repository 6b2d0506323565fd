package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/model"
)

var liveStatuses = []string{string(availability.StatusConfirmed), string(availability.StatusSeated)}

// allowedTransitions lists the statuses a reservation may move to.
var allowedTransitions = map[availability.ReservationStatus][]availability.ReservationStatus{
	availability.StatusConfirmed: {
		availability.StatusSeated,
		availability.StatusCompleted,
		availability.StatusCancelled,
		availability.StatusNoShow,
	},
	availability.StatusSeated: {availability.StatusCompleted},
}

// CanTransition reports whether a reservation may move from one status to another.
func CanTransition(from, to availability.ReservationStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ListReservations returns the reservations dated within [from, to], both
// given as YYYY-MM-DD.
func (s *gormStore) ListReservations(ctx context.Context, tenantID string, restaurantID int64, from, to string) ([]model.Reservation, error) {
	var rows []model.Reservation
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND restaurant_id = ? AND date >= ? AND date <= ?", tenantID, restaurantID, from, to).
		Order("date, time").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return rows, nil
}

func (s *gormStore) GetReservation(ctx context.Context, tenantID string, restaurantID int64, id string) (*model.Reservation, error) {
	var r model.Reservation
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND restaurant_id = ? AND id = ?", tenantID, restaurantID, id).
		First(&r).Error
	if err != nil {
		return nil, notFound(err, "reservation %s", id)
	}
	return &r, nil
}

// CreateReservation inserts a reservation after checking that its table can
// hold the party and is free for the whole booked interval.
func (s *gormStore) CreateReservation(ctx context.Context, r *model.Reservation) error {
	if err := normalizeReservation(r); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkAssignment(tx, r); err != nil {
			return err
		}
		if err := tx.Create(r).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil
	})
}

// UpdateReservation replaces a reservation's booking details. The status
// is not changed here; use SetReservationStatus.
func (s *gormStore) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Reservation
		if err := tx.Where("tenant_id = ? AND restaurant_id = ? AND id = ?", r.TenantID, r.RestaurantID, r.ID).
			First(&current).Error; err != nil {
			return notFound(err, "reservation %s", r.ID)
		}
		r.Status = current.Status
		r.CreatedAt = current.CreatedAt
		if err := normalizeReservation(r); err != nil {
			return err
		}
		if err := checkAssignment(tx, r); err != nil {
			return err
		}
		if err := tx.Save(r).Error; err != nil {
			return fmt.Errorf("failed to update reservation: %w", err)
		}
		return nil
	})
}

// SetReservationStatus moves a reservation through its lifecycle.
func (s *gormStore) SetReservationStatus(ctx context.Context, tenantID string, restaurantID int64, id string, status availability.ReservationStatus) (*model.Reservation, error) {
	var r model.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockIfSupported(tx).
			Where("tenant_id = ? AND restaurant_id = ? AND id = ?", tenantID, restaurantID, id).
			First(&r).Error; err != nil {
			return notFound(err, "reservation %s", id)
		}
		from := availability.ReservationStatus(r.Status)
		if !CanTransition(from, status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidStatus, from, status)
		}
		if err := tx.Model(&r).Update("status", string(status)).Error; err != nil {
			return fmt.Errorf("failed to update reservation status: %w", err)
		}
		r.Status = string(status)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// normalizeReservation applies defaults and rejects malformed bookings.
func normalizeReservation(r *model.Reservation) error {
	if r.Status == "" {
		r.Status = string(availability.StatusConfirmed)
	}
	if r.DurationMinutes == 0 {
		r.DurationMinutes = availability.DefaultDurationMinutes
	}
	if !availability.ReservationStatus(r.Status).Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, r.Status)
	}
	if r.PartySize < 1 {
		return fmt.Errorf("%w: party size must be at least 1", ErrInvalidInput)
	}
	if r.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if _, err := r.Engine(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// checkAssignment verifies that the reservation's table belongs to the
// restaurant, is schedulable, fits the party, and has no live reservation
// overlapping [start, start+duration). It uses the same overlap and
// liveness rules as the availability engine.
func checkAssignment(tx *gorm.DB, r *model.Reservation) error {
	if r.TableID == nil || !availability.ReservationStatus(r.Status).IsLive() {
		return nil
	}

	var table model.Table
	if err := lockIfSupported(tx).
		Where("tenant_id = ? AND restaurant_id = ? AND id = ?", r.TenantID, r.RestaurantID, *r.TableID).
		First(&table).Error; err != nil {
		return notFound(err, "table %d", *r.TableID)
	}
	engineTable := table.Engine()
	if !engineTable.Active || !engineTable.Status.Schedulable() {
		return fmt.Errorf("table %d: %w", table.ID, ErrTableUnavailable)
	}
	if table.Capacity < r.PartySize {
		return fmt.Errorf("table %d seats %d: %w", table.ID, table.Capacity, ErrTableTooSmall)
	}

	mine, err := r.Engine()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var others []model.Reservation
	if err := tx.Where("tenant_id = ? AND restaurant_id = ? AND table_id = ? AND date = ? AND status IN ? AND id <> ?",
		r.TenantID, r.RestaurantID, *r.TableID, r.Date, liveStatuses, r.ID).
		Find(&others).Error; err != nil {
		return fmt.Errorf("failed to load table reservations: %w", err)
	}
	for _, o := range others {
		theirs, err := o.Engine()
		if err != nil {
			return err
		}
		if availability.Overlaps(mine.Start, mine.End(), theirs.Start, theirs.End()) {
			return fmt.Errorf("%w: reservation %s at %s", ErrTableConflict, o.ID, o.Time)
		}
	}
	return nil
}

// lockIfSupported takes a row lock on postgres so concurrent writers to the
// same table serialize. SQLite serializes writers on its own.
func lockIfSupported(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
