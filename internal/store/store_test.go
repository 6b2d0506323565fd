package store

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/db"
	"restaurant-availability-backend/internal/model"
)

const tenant = "acme"

// newSQLiteStore opens a private in-memory database for one test.
func newSQLiteStore(t *testing.T) Store {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gormDB, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return NewGormStore(gormDB)
}

// newMockStore returns a store on a postgres dialector backed by sqlmock.
func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewGormStore(gormDB), mock
}

// seed creates a restaurant with the given table capacities.
func seed(t *testing.T, s Store, capacities ...int) (*model.Restaurant, []model.Table) {
	ctx := context.Background()
	r := &model.Restaurant{TenantID: tenant, Name: "Trattoria"}
	require.NoError(t, s.CreateRestaurant(ctx, r))

	tables := make([]model.Table, 0, len(capacities))
	for i, c := range capacities {
		tbl := model.Table{
			TenantID: tenant, RestaurantID: r.ID, Number: i + 1,
			Capacity: c, IsActive: true, Status: string(availability.TableAvailable),
		}
		require.NoError(t, s.SaveTable(ctx, &tbl))
		tables = append(tables, tbl)
	}
	return r, tables
}

func booking(r *model.Restaurant, tableID int64, at string, duration, party int) *model.Reservation {
	return &model.Reservation{
		TenantID: tenant, RestaurantID: r.ID, TableID: &tableID,
		Date: "2024-06-10", Time: at, DurationMinutes: duration, PartySize: party,
	}
}

func TestGormStore_ListTablesQuery(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tables" WHERE tenant_id = $1 AND restaurant_id = $2 ORDER BY number, id`)).
		WithArgs(tenant, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restaurant_id", "number", "capacity", "is_active", "status"}).
			AddRow(1, 7, 1, 4, true, "available").
			AddRow(2, 7, 2, 6, false, "maintenance"))

	tables, err := s.ListTables(context.Background(), tenant, 7)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, 4, tables[0].Capacity)
	assert.False(t, tables[1].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateReservation(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r, tables := seed(t, s, 4)
	tableID := tables[0].ID

	require.NoError(t, s.CreateReservation(ctx, booking(r, tableID, "19:00", 90, 2)))

	testCases := []struct {
		name        string
		reservation *model.Reservation
		expectedErr error
	}{
		{
			name:        "Overlaps the tail of the existing booking",
			reservation: booking(r, tableID, "20:00", 90, 2),
			expectedErr: ErrTableConflict,
		},
		{
			name:        "Starts before and runs into the existing booking",
			reservation: booking(r, tableID, "18:00", 90, 2),
			expectedErr: ErrTableConflict,
		},
		{
			name:        "Starts exactly when the existing booking ends",
			reservation: booking(r, tableID, "20:30", 90, 2),
		},
		{
			name:        "Ends exactly when the existing booking starts",
			reservation: booking(r, tableID, "17:30", 90, 2),
		},
		{
			name:        "Party larger than the table",
			reservation: booking(r, tableID, "12:00", 60, 6),
			expectedErr: ErrTableTooSmall,
		},
		{
			name:        "Unknown table",
			reservation: booking(r, tableID+100, "12:00", 60, 2),
			expectedErr: ErrNotFound,
		},
		{
			name:        "Malformed time",
			reservation: booking(r, tableID, "7pm", 60, 2),
			expectedErr: ErrInvalidInput,
		},
		{
			name: "No table assigned",
			reservation: &model.Reservation{
				TenantID: tenant, RestaurantID: r.ID, Date: "2024-06-10", Time: "19:00", PartySize: 2,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.CreateReservation(ctx, tc.reservation)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tc.reservation.ID)
			assert.Equal(t, string(availability.StatusConfirmed), tc.reservation.Status)
			assert.Equal(t, 90, tc.reservation.DurationMinutes)
		})
	}
}

func TestGormStore_UnschedulableTableRejected(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r, tables := seed(t, s, 4)

	tbl := tables[0]
	tbl.Status = string(availability.TableMaintenance)
	require.NoError(t, s.SaveTable(ctx, &tbl))

	err := s.CreateReservation(ctx, booking(r, tbl.ID, "19:00", 90, 2))
	assert.ErrorIs(t, err, ErrTableUnavailable)
}

// Every slot the engine reports as free must be bookable on the write path,
// and every slot it reports as taken must be rejected.
func TestGormStore_WritePathAgreesWithEngine(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r, tables := seed(t, s, 4)
	tableID := tables[0].ID
	require.NoError(t, s.CreateReservation(ctx, booking(r, tableID, "13:15", 45, 2)))
	require.NoError(t, s.CreateReservation(ctx, booking(r, tableID, "19:00", 120, 4)))

	svc := availability.NewService(NewAvailabilitySource(s), availability.DefaultHours(), nil)
	scope := availability.Scope{TenantID: tenant, RestaurantID: r.ID}
	date := availability.NewDate(2024, time.June, 10)

	for _, duration := range []int{30, 90, 150} {
		resp, err := svc.Availability(ctx, scope, availability.Query{Date: date, PartySize: 2, DurationMinutes: duration})
		require.NoError(t, err)
		free := map[string]bool{}
		for _, slot := range resp.AvailableSlots {
			free[slot.Time.String()] = true
		}

		for _, at := range availability.DefaultHours().SlotTimes() {
			res := booking(r, tableID, at.String(), duration, 2)
			err := s.CreateReservation(ctx, res)
			if free[at.String()] {
				assert.NoError(t, err, "%s for %d minutes", at, duration)
				if err == nil {
					require.NoError(t, s.DB().Delete(&model.Reservation{}, "id = ?", res.ID).Error)
				}
			} else {
				assert.ErrorIs(t, err, ErrTableConflict, "%s for %d minutes", at, duration)
			}
		}
	}
}

func TestGormStore_SetReservationStatus(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r, tables := seed(t, s, 4)

	first := booking(r, tables[0].ID, "19:00", 90, 2)
	require.NoError(t, s.CreateReservation(ctx, first))

	updated, err := s.SetReservationStatus(ctx, tenant, r.ID, first.ID, availability.StatusSeated)
	require.NoError(t, err)
	assert.Equal(t, string(availability.StatusSeated), updated.Status)

	_, err = s.SetReservationStatus(ctx, tenant, r.ID, first.ID, availability.StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.SetReservationStatus(ctx, tenant, r.ID, "missing", availability.StatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)

	// A seated table stays blocked until the party leaves.
	assert.ErrorIs(t, s.CreateReservation(ctx, booking(r, tables[0].ID, "19:30", 60, 2)), ErrTableConflict)

	_, err = s.SetReservationStatus(ctx, tenant, r.ID, first.ID, availability.StatusCompleted)
	require.NoError(t, err)
	assert.NoError(t, s.CreateReservation(ctx, booking(r, tables[0].ID, "19:30", 60, 2)))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(availability.StatusConfirmed, availability.StatusNoShow))
	assert.True(t, CanTransition(availability.StatusSeated, availability.StatusCompleted))
	assert.False(t, CanTransition(availability.StatusSeated, availability.StatusNoShow))
	assert.False(t, CanTransition(availability.StatusCancelled, availability.StatusConfirmed))
	assert.False(t, CanTransition(availability.StatusCompleted, availability.StatusSeated))
}

func TestGormStore_UpdateReservation(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r, tables := seed(t, s, 4, 2)

	early := booking(r, tables[0].ID, "18:00", 60, 2)
	late := booking(r, tables[0].ID, "20:00", 60, 2)
	require.NoError(t, s.CreateReservation(ctx, early))
	require.NoError(t, s.CreateReservation(ctx, late))

	// Re-saving in place does not conflict with itself.
	early.Notes = "window seat"
	require.NoError(t, s.UpdateReservation(ctx, early))

	early.Time = "19:30"
	assert.ErrorIs(t, s.UpdateReservation(ctx, early), ErrTableConflict)

	early.TableID = &tables[1].ID
	require.NoError(t, s.UpdateReservation(ctx, early))

	got, err := s.GetReservation(ctx, tenant, r.ID, early.ID)
	require.NoError(t, err)
	assert.Equal(t, "19:30", got.Time)
	assert.Equal(t, tables[1].ID, *got.TableID)
	assert.Equal(t, "window seat", got.Notes)

	missing := booking(r, tables[0].ID, "12:00", 60, 2)
	missing.ID = "does-not-exist"
	assert.ErrorIs(t, s.UpdateReservation(ctx, missing), ErrNotFound)
}

func TestGormStore_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r, tables := seed(t, s, 4)

	_, err := s.GetRestaurant(ctx, "other", r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetTable(ctx, "other", r.ID, tables[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	foreign := booking(r, tables[0].ID, "19:00", 90, 2)
	foreign.TenantID = "other"
	assert.ErrorIs(t, s.CreateReservation(ctx, foreign), ErrNotFound)
}

func TestGormStore_SyncRoster(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r, _ := seed(t, s, 8) // a manually managed table without an external id

	ext := func(id int64) *int64 { return &id }
	feed := []model.Table{
		{ExternalID: ext(501), Zone: "Patio", Number: 1, Label: "Patio 1", Capacity: 2, IsActive: true, Status: "available"},
		{ExternalID: ext(502), Zone: "Patio", Number: 2, Label: "Patio 2", Capacity: 4, IsActive: true, Status: "reserved"},
	}
	deactivated, err := s.SyncRoster(ctx, tenant, r.ID, feed)
	require.NoError(t, err)
	assert.Zero(t, deactivated)

	second := []model.Table{
		{ExternalID: ext(501), Zone: "Patio", Number: 1, Label: "Patio 1", Capacity: 3, IsActive: true, Status: "occupied"},
	}
	deactivated, err = s.SyncRoster(ctx, tenant, r.ID, second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deactivated)

	tables, err := s.ListTables(ctx, tenant, r.ID)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	byLabel := map[string]model.Table{}
	for _, tbl := range tables {
		byLabel[tbl.Label] = tbl
	}
	assert.Equal(t, 3, byLabel["Patio 1"].Capacity)
	assert.Equal(t, "occupied", byLabel["Patio 1"].Status)
	assert.False(t, byLabel["Patio 2"].IsActive)
	assert.True(t, byLabel[""].IsActive, "manual tables are never deactivated by sync")

	deactivated, err = s.SyncRoster(ctx, tenant, r.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, deactivated)
}

func TestGormStore_Waitlist(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r, _ := seed(t, s, 4)

	entry := &model.WaitlistEntry{
		TenantID: tenant, RestaurantID: r.ID, Date: "2024-06-10", PreferredTime: "19:00",
		PartySize: 2, DurationMinutes: 90, Endpoint: "https://push.example/1", P256DH: "key", Auth: "auth",
	}
	require.NoError(t, s.CreateWaitlistEntry(ctx, entry))
	assert.Equal(t, model.WaitlistWaiting, entry.Status)

	assert.ErrorIs(t, s.CreateWaitlistEntry(ctx, &model.WaitlistEntry{TenantID: tenant, RestaurantID: r.ID, PartySize: 2}), ErrInvalidInput)

	waiting, err := s.WaitingEntries(ctx, tenant, r.ID, "2024-06-10")
	require.NoError(t, err)
	require.Len(t, waiting, 1)

	claimed, err := s.ClaimWaitlistEntry(ctx, entry.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, claimed)
	claimed, err = s.ClaimWaitlistEntry(ctx, entry.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, claimed, "an entry is claimed at most once")

	assert.ErrorIs(t, s.CancelWaitlistEntry(ctx, tenant, r.ID, entry.ID), ErrNotFound)

	waiting, err = s.WaitingEntries(ctx, tenant, r.ID, "2024-06-10")
	require.NoError(t, err)
	assert.Empty(t, waiting)
}

func TestAvailabilitySource(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r, tables := seed(t, s, 4)
	require.NoError(t, s.CreateReservation(ctx, booking(r, tables[0].ID, "19:00", 90, 2)))
	other := booking(r, tables[0].ID, "19:00", 90, 2)
	other.Date = "2024-06-12"
	require.NoError(t, s.CreateReservation(ctx, other))

	src := NewAvailabilitySource(s)
	scope := availability.Scope{TenantID: tenant, RestaurantID: r.ID}

	engineTables, err := src.Tables(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, []availability.Table{{ID: tables[0].ID, Capacity: 4, Active: true, Status: availability.TableAvailable}}, engineTables)

	day := availability.NewDate(2024, time.June, 10)
	res, err := src.Reservations(ctx, scope, day, day.AddDays(1))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, availability.NewClock(19, 0), res[0].Start)
	assert.Equal(t, availability.NewClock(20, 30), res[0].End())

	// Rows written around the store are still parsed, and bad ones surface as errors.
	require.NoError(t, s.DB().Create(&model.Reservation{
		TenantID: tenant, RestaurantID: r.ID, Date: "2024-06-11", Time: "late", PartySize: 2,
		DurationMinutes: 60, Status: "confirmed",
	}).Error)
	_, err = src.Reservations(ctx, scope, day, day.AddDays(1))
	assert.Error(t, err)
}
