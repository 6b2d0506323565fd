package store

import (
	"context"

	"restaurant-availability-backend/internal/availability"
)

type engineSource struct {
	store Store
}

// NewAvailabilitySource exposes the store as the availability engine's
// read-only data source.
func NewAvailabilitySource(s Store) availability.Source {
	return engineSource{store: s}
}

func (e engineSource) Tables(ctx context.Context, scope availability.Scope) ([]availability.Table, error) {
	rows, err := e.store.ListTables(ctx, scope.TenantID, scope.RestaurantID)
	if err != nil {
		return nil, err
	}
	tables := make([]availability.Table, 0, len(rows))
	for _, t := range rows {
		tables = append(tables, t.Engine())
	}
	return tables, nil
}

func (e engineSource) Reservations(ctx context.Context, scope availability.Scope, from, to availability.Date) ([]availability.Reservation, error) {
	rows, err := e.store.ListReservations(ctx, scope.TenantID, scope.RestaurantID, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	out := make([]availability.Reservation, 0, len(rows))
	for _, r := range rows {
		res, err := r.Engine()
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
