package availability

import (
	"fmt"
	"time"
)

// Clock is a time of day expressed in minutes since midnight.
type Clock int

// NewClock builds a Clock from an hour and minute.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 60 }

// Add shifts the clock by the given number of minutes.
func (c Clock) Add(minutes int) Clock { return c + Clock(minutes) }

// String renders the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// MarshalJSON encodes the clock as an "HH:MM" string.
func (c Clock) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// Date is a calendar day. The underlying time is always midnight UTC.
type Date time.Time

// NewDate builds a Date; out-of-range values are normalized like time.Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Time returns the underlying midnight-UTC time.
func (d Date) Time() time.Time { return time.Time(d) }

// AddDays returns the date n days later (earlier when n is negative).
func (d Date) AddDays(n int) Date { return Date(d.Time().AddDate(0, 0, n)) }

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.Time().After(o.Time()) }

// Equal reports whether d and o are the same day.
func (d Date) Equal(o Date) bool { return d.Time().Equal(o.Time()) }

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.Time().IsZero() }

// DaysUntil returns the number of days from d to o.
func (d Date) DaysUntil(o Date) int {
	return int(o.Time().Sub(d.Time()).Hours() / 24)
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string { return d.Time().Format("2006-01-02") }

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// TableStatus is the operational status of a table.
type TableStatus string

const (
	TableAvailable   TableStatus = "available"
	TableOccupied    TableStatus = "occupied"
	TableReserved    TableStatus = "reserved"
	TableMaintenance TableStatus = "maintenance"
)

// Valid reports whether s is a known table status.
func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved, TableMaintenance:
		return true
	}
	return false
}

// Schedulable reports whether a table in this status can take new reservations.
func (s TableStatus) Schedulable() bool {
	return s == TableAvailable || s == TableReserved
}

// ReservationStatus is the lifecycle status of a reservation.
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusSeated    ReservationStatus = "seated"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusNoShow    ReservationStatus = "no_show"
)

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusSeated, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsLive reports whether a reservation in this status occupies its table.
// The reservation write path uses the same rule for conflict checks.
func (s ReservationStatus) IsLive() bool {
	return s == StatusConfirmed || s == StatusSeated
}

// countsTowardOccupancy reports whether the reservation is included in
// capacity utilization figures.
func (s ReservationStatus) countsTowardOccupancy() bool {
	return s.IsLive() || s == StatusCompleted
}

// Table is the read-only view of a table the engine schedules against.
type Table struct {
	ID       int64
	Capacity int
	Active   bool
	Status   TableStatus
}

// Reservation is the read-only view of a booking.
// A nil TableID means the reservation has no table assigned yet.
type Reservation struct {
	ID              string
	TableID         *int64
	Date            Date
	Start           Clock
	DurationMinutes int
	PartySize       int
	Status          ReservationStatus
}

// End returns the exclusive end of the reservation's occupancy interval.
func (r Reservation) End() Clock {
	return r.Start.Add(r.DurationMinutes)
}

// Query describes a single-day availability request.
type Query struct {
	Date            Date
	PartySize       int
	PreferredTime   *Clock
	DurationMinutes int
}

// Slot is one candidate start time and the free capacity behind it.
type Slot struct {
	Date            Date  `json:"date"`
	Time            Clock `json:"time"`
	AvailableTables int   `json:"available_tables"`
	TotalCapacity   int   `json:"total_capacity"`
	IsAvailable     bool  `json:"is_available"`
}

// Response is the result of a single-day availability query.
type Response struct {
	Date            Date   `json:"date"`
	AvailableSlots  []Slot `json:"available_slots"`
	Recommendations []Slot `json:"recommendations"`
	IsFullyBooked   bool   `json:"is_fully_booked"`
}

// DayAvailability summarizes one day of a calendar view.
type DayAvailability struct {
	Date   Date   `json:"date"`
	Slots  []Slot `json:"slots"`
	IsOpen bool   `json:"is_open"`
}

// Calendar is a month of DayAvailability entries.
type Calendar struct {
	Year  int               `json:"year"`
	Month int               `json:"month"`
	Days  []DayAvailability `json:"days"`
}

// HourlyOccupancy is the utilization of one hour bucket.
type HourlyOccupancy struct {
	Hour             int     `json:"hour"`
	OccupiedCapacity int     `json:"occupied_capacity"`
	OccupancyRate    float64 `json:"occupancy_rate"`
	IsPeak           bool    `json:"is_peak"`
}

// CapacityOptimization carries advisory utilization signals for a day.
type CapacityOptimization struct {
	Date                  Date              `json:"date"`
	CurrentOccupancyRate  float64           `json:"current_occupancy_rate"`
	SuggestedImprovements []string          `json:"suggested_improvements"`
	PeakHours             []int             `json:"peak_hours"`
	RecommendedActions    []string          `json:"recommended_actions"`
	HourlyOccupancy       []HourlyOccupancy `json:"hourly_occupancy"`
}

// Scope identifies the restaurant a query runs against.
type Scope struct {
	TenantID     string
	RestaurantID int64
}
