package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/model"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrTableConflict    = errors.New("table already booked for an overlapping time")
	ErrTableTooSmall    = errors.New("table capacity is smaller than the party")
	ErrTableUnavailable = errors.New("table is inactive or not schedulable")
	ErrInvalidStatus    = errors.New("invalid reservation status transition")
	ErrInvalidInput     = errors.New("invalid input")
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	CreateRestaurant(ctx context.Context, r *model.Restaurant) error
	ListRestaurants(ctx context.Context, tenantID string) ([]model.Restaurant, error)
	GetRestaurant(ctx context.Context, tenantID string, id int64) (*model.Restaurant, error)

	ListTables(ctx context.Context, tenantID string, restaurantID int64) ([]model.Table, error)
	GetTable(ctx context.Context, tenantID string, restaurantID, id int64) (*model.Table, error)
	SaveTable(ctx context.Context, t *model.Table) error
	SyncRoster(ctx context.Context, tenantID string, restaurantID int64, tables []model.Table) (int64, error)

	ListReservations(ctx context.Context, tenantID string, restaurantID int64, from, to string) ([]model.Reservation, error)
	GetReservation(ctx context.Context, tenantID string, restaurantID int64, id string) (*model.Reservation, error)
	CreateReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	SetReservationStatus(ctx context.Context, tenantID string, restaurantID int64, id string, status availability.ReservationStatus) (*model.Reservation, error)

	CreateWaitlistEntry(ctx context.Context, e *model.WaitlistEntry) error
	CancelWaitlistEntry(ctx context.Context, tenantID string, restaurantID int64, id string) error
	WaitingEntries(ctx context.Context, tenantID string, restaurantID int64, date string) ([]model.WaitlistEntry, error)
	ClaimWaitlistEntry(ctx context.Context, id string, at time.Time) (bool, error)
	ExpireWaitlistEntry(ctx context.Context, id string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) CreateRestaurant(ctx context.Context, r *model.Restaurant) error {
	if r.TenantID == "" || r.Name == "" {
		return fmt.Errorf("%w: restaurant needs a tenant and a name", ErrInvalidInput)
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

func (s *gormStore) ListRestaurants(ctx context.Context, tenantID string) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("id").Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return restaurants, nil
}

func (s *gormStore) GetRestaurant(ctx context.Context, tenantID string, id int64) (*model.Restaurant, error) {
	var r model.Restaurant
	err := s.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&r).Error
	if err != nil {
		return nil, notFound(err, "restaurant %d", id)
	}
	return &r, nil
}

func (s *gormStore) ListTables(ctx context.Context, tenantID string, restaurantID int64) ([]model.Table, error) {
	var tables []model.Table
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND restaurant_id = ?", tenantID, restaurantID).
		Order("number, id").
		Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (s *gormStore) GetTable(ctx context.Context, tenantID string, restaurantID, id int64) (*model.Table, error) {
	var t model.Table
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND restaurant_id = ? AND id = ?", tenantID, restaurantID, id).
		First(&t).Error
	if err != nil {
		return nil, notFound(err, "table %d", id)
	}
	return &t, nil
}

// SaveTable creates the table when it has no id and replaces it otherwise.
func (s *gormStore) SaveTable(ctx context.Context, t *model.Table) error {
	if t.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidInput)
	}
	if t.Status == "" {
		t.Status = string(availability.TableAvailable)
	}
	if !availability.TableStatus(t.Status).Valid() {
		return fmt.Errorf("%w: unknown table status %q", ErrInvalidInput, t.Status)
	}
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}
	return nil
}

// notFound maps gorm's missing-record error onto ErrNotFound.
func notFound(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
