package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotKey struct {
	date string
	time string
}

func keysOf(slots []Slot) []slotKey {
	out := make([]slotKey, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotKey{s.Date.String(), s.Time.String()})
	}
	return out
}

func TestAlternativeSlots_FullyBookedPreferredSlot(t *testing.T) {
	tables := []Table{{ID: 1, Capacity: 4, Active: true, Status: TableAvailable}}
	reservations := []Reservation{{
		ID: "r", TableID: idPtr(1), Date: june10, Start: NewClock(19, 0),
		DurationMinutes: 90, PartySize: 4, Status: StatusConfirmed,
	}}
	q := Query{Date: june10, PartySize: 2, PreferredTime: clockPtr(NewClock(19, 0)), DurationMinutes: 90}

	alts := AlternativeSlots(DefaultHours(), tables, reservations, q, NewDate(2024, 6, 1))

	require.Len(t, alts, 5)
	assert.NotContains(t, keysOf(alts), slotKey{"2024-06-10", "19:00"})
	assert.Equal(t, []slotKey{
		{"2024-06-09", "19:00"},
		{"2024-06-11", "19:00"},
		{"2024-06-08", "19:00"},
		{"2024-06-12", "19:00"},
		{"2024-06-07", "19:00"},
	}, keysOf(alts))
}

func TestAlternativeSlots_SkipsPastDays(t *testing.T) {
	tables := []Table{{ID: 1, Capacity: 4, Active: true, Status: TableAvailable}}
	reservations := []Reservation{{
		ID: "r", TableID: idPtr(1), Date: june10, Start: NewClock(19, 0),
		DurationMinutes: 90, PartySize: 4, Status: StatusConfirmed,
	}}
	q := Query{Date: june10, PartySize: 2, PreferredTime: clockPtr(NewClock(19, 0)), DurationMinutes: 90}

	alts := AlternativeSlots(DefaultHours(), tables, reservations, q, june10)

	assert.Equal(t, []slotKey{
		{"2024-06-11", "19:00"},
		{"2024-06-12", "19:00"},
		{"2024-06-13", "19:00"},
		{"2024-06-10", "17:30"},
		{"2024-06-10", "20:30"},
	}, keysOf(alts))
	for _, s := range alts {
		assert.False(t, s.Date.Before(june10))
	}
}

func TestAlternativeSlots_SameDayProbesStayInsideHours(t *testing.T) {
	tables := []Table{{ID: 1, Capacity: 4, Active: true, Status: TableAvailable}}

	t.Run("near opening", func(t *testing.T) {
		q := Query{Date: june10, PartySize: 2, PreferredTime: clockPtr(NewClock(11, 0))}
		alts := AlternativeSlots(DefaultHours(), tables, nil, q, june10)
		assert.Equal(t, []slotKey{
			{"2024-06-11", "11:00"},
			{"2024-06-12", "11:00"},
			{"2024-06-13", "11:00"},
			{"2024-06-10", "11:30"},
			{"2024-06-10", "12:00"},
		}, keysOf(alts))
	})

	t.Run("near closing", func(t *testing.T) {
		q := Query{Date: june10, PartySize: 2, PreferredTime: clockPtr(NewClock(21, 30))}
		alts := AlternativeSlots(DefaultHours(), tables, nil, q, june10)
		require.Len(t, alts, 5)
		assert.NotContains(t, keysOf(alts), slotKey{"2024-06-10", "22:00"}, "closing time is not probed")
		assert.Contains(t, keysOf(alts), slotKey{"2024-06-10", "21:00"})
	})
}

func TestAlternativeSlots_OtherDayTolerance(t *testing.T) {
	tables := []Table{{ID: 1, Capacity: 4, Active: true, Status: TableAvailable}}
	var reservations []Reservation
	// Every other day is booked from 17:00 to 21:00, leaving nothing within
	// 30 minutes of 19:00.
	for d := -3; d <= 3; d++ {
		if d == 0 {
			continue
		}
		reservations = append(reservations, Reservation{
			ID: "r", TableID: idPtr(1), Date: june10.AddDays(d), Start: NewClock(17, 0),
			DurationMinutes: 240, PartySize: 4, Status: StatusConfirmed,
		})
	}
	q := Query{Date: june10, PartySize: 2, PreferredTime: clockPtr(NewClock(19, 0)), DurationMinutes: 90}

	alts := AlternativeSlots(DefaultHours(), tables, reservations, q, NewDate(2024, 6, 1))

	for _, s := range alts {
		assert.True(t, s.Date.Equal(june10), "other days have no slot near 19:00")
	}
	assert.NotEmpty(t, alts)
}

func TestAlternativeSlots_NoPreferredTime(t *testing.T) {
	tables := []Table{{ID: 1, Capacity: 4, Active: true, Status: TableAvailable}}
	alts := AlternativeSlots(DefaultHours(), tables, nil, Query{Date: june10, PartySize: 2}, june10)
	assert.Empty(t, alts)
	assert.NotNil(t, alts)
}
