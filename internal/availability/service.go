package availability

import (
	"context"
	"fmt"
	"time"
)

// Source supplies the read-only snapshots the engine computes over.
type Source interface {
	// Tables returns the full table roster of a restaurant.
	Tables(ctx context.Context, scope Scope) ([]Table, error)
	// Reservations returns every reservation dated within [from, to].
	Reservations(ctx context.Context, scope Scope, from, to Date) ([]Reservation, error)
}

// Service loads fresh snapshots from a Source on every call and runs the
// engine over them. It holds no mutable state and is safe for concurrent use.
type Service struct {
	source Source
	hours  OperatingHours
	loc    *time.Location
	now    func() time.Time
}

// NewService creates a Service. A nil location means UTC.
func NewService(source Source, hours OperatingHours, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{source: source, hours: hours, loc: loc, now: time.Now}
}

// Hours returns the operating window the service schedules against.
func (s *Service) Hours() OperatingHours { return s.hours }

// Today returns the current date in the restaurant's timezone.
func (s *Service) Today() Date {
	return DateOf(s.now().In(s.loc))
}

// Availability answers a single-day availability query.
func (s *Service) Availability(ctx context.Context, scope Scope, q Query) (Response, error) {
	tables, reservations, err := s.load(ctx, scope, q.Date, q.Date)
	if err != nil {
		return Response{}, err
	}
	return AvailableSlots(s.hours, tables, reservations, q), nil
}

// Range answers the query for every day in [from, to].
func (s *Service) Range(ctx context.Context, scope Scope, from, to Date, partySize, durationMinutes int) ([]DayAvailability, error) {
	tables, reservations, err := s.load(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	return DayRange(s.hours, tables, reservations, from, to, partySize, durationMinutes), nil
}

// Monthly builds the availability calendar of a month.
func (s *Service) Monthly(ctx context.Context, scope Scope, year int, month time.Month) (Calendar, error) {
	first, last := MonthBounds(year, month)
	tables, reservations, err := s.load(ctx, scope, first, last)
	if err != nil {
		return Calendar{}, err
	}
	return MonthlyCalendar(s.hours, tables, reservations, year, month), nil
}

// Alternatives finds up to five slots near a preferred date and time.
func (s *Service) Alternatives(ctx context.Context, scope Scope, q Query) ([]Slot, error) {
	from := q.Date.AddDays(-otherDaySearchRadiusDays)
	to := q.Date.AddDays(otherDaySearchRadiusDays)
	tables, reservations, err := s.load(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	return AlternativeSlots(s.hours, tables, reservations, q, s.Today()), nil
}

// Capacity computes the capacity optimization signals for a day.
func (s *Service) Capacity(ctx context.Context, scope Scope, date Date) (CapacityOptimization, error) {
	tables, reservations, err := s.load(ctx, scope, date, date)
	if err != nil {
		return CapacityOptimization{}, err
	}
	return OptimizeCapacity(s.hours, tables, reservations, date), nil
}

func (s *Service) load(ctx context.Context, scope Scope, from, to Date) ([]Table, []Reservation, error) {
	tables, err := s.source.Tables(ctx, scope)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tables for restaurant %d: %w", scope.RestaurantID, err)
	}
	reservations, err := s.source.Reservations(ctx, scope, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load reservations for restaurant %d: %w", scope.RestaurantID, err)
	}
	return tables, reservations, nil
}
