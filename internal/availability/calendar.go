package availability

import "time"

// MonthBounds returns the first and last day of a month. The last day is the
// first of the following month minus one day, so December rolls into January.
func MonthBounds(year int, month time.Month) (Date, Date) {
	first := NewDate(year, month, 1)
	next := Date(first.Time().AddDate(0, 1, 0))
	return first, next.AddDays(-1)
}

// DayRange runs the single-day query for every day in [from, to].
func DayRange(hours OperatingHours, tables []Table, reservations []Reservation, from, to Date, partySize, durationMinutes int) []DayAvailability {
	days := []DayAvailability{}
	for d := from; !d.After(to); d = d.AddDays(1) {
		resp := AvailableSlots(hours, tables, reservations, Query{
			Date:            d,
			PartySize:       partySize,
			DurationMinutes: durationMinutes,
		})
		days = append(days, DayAvailability{
			Date:   d,
			Slots:  resp.AvailableSlots,
			IsOpen: !resp.IsFullyBooked,
		})
	}
	return days
}

// MonthlyCalendar runs the default two-guest, 90-minute query for every day
// of the month.
func MonthlyCalendar(hours OperatingHours, tables []Table, reservations []Reservation, year int, month time.Month) Calendar {
	first, last := MonthBounds(year, month)
	return Calendar{
		Year:  year,
		Month: int(month),
		Days:  DayRange(hours, tables, reservations, first, last, DefaultPartySize, DefaultDurationMinutes),
	}
}
