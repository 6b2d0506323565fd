package availability

import "sort"

const (
	recommendationWindowMinutes = 60
	maxRecommendations          = 3
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd Clock) bool {
	return !(aEnd <= bStart || aStart >= bEnd)
}

// AvailableSlots computes the free slots of a single day.
//
// Only active tables that seat the party and are available or reserved are
// considered. A table is free at a slot when none of its live reservations
// overlaps [slot, slot+duration). Reservations without a table never block.
// reservations may span several days; only those on q.Date are used.
func AvailableSlots(hours OperatingHours, tables []Table, reservations []Reservation, q Query) Response {
	q = normalizeQuery(q)
	resp := Response{
		Date:            q.Date,
		AvailableSlots:  []Slot{},
		Recommendations: []Slot{},
		IsFullyBooked:   true,
	}

	candidates := candidateTables(tables, q.PartySize)
	if len(candidates) == 0 {
		return resp
	}

	byTable := liveByTable(reservations, q.Date)
	for _, t := range hours.SlotTimes() {
		end := t.Add(q.DurationMinutes)
		free, capacity := 0, 0
		for _, table := range candidates {
			if tableFree(byTable[table.ID], t, end) {
				free++
				capacity += table.Capacity
			}
		}
		if free == 0 {
			continue
		}
		resp.AvailableSlots = append(resp.AvailableSlots, Slot{
			Date:            q.Date,
			Time:            t,
			AvailableTables: free,
			TotalCapacity:   capacity,
			IsAvailable:     true,
		})
	}

	resp.IsFullyBooked = len(resp.AvailableSlots) == 0
	if q.PreferredTime != nil {
		resp.Recommendations = recommend(resp.AvailableSlots, *q.PreferredTime)
	}
	return resp
}

func normalizeQuery(q Query) Query {
	if q.DurationMinutes <= 0 {
		q.DurationMinutes = DefaultDurationMinutes
	}
	return q
}

func candidateTables(tables []Table, partySize int) []Table {
	var out []Table
	for _, t := range tables {
		if t.Active && t.Capacity >= partySize && t.Status.Schedulable() {
			out = append(out, t)
		}
	}
	return out
}

// liveByTable indexes the live, table-assigned reservations of a day by table.
func liveByTable(reservations []Reservation, date Date) map[int64][]Reservation {
	byTable := make(map[int64][]Reservation)
	for _, r := range reservations {
		if r.TableID == nil || !r.Status.IsLive() || !r.Date.Equal(date) {
			continue
		}
		byTable[*r.TableID] = append(byTable[*r.TableID], r)
	}
	return byTable
}

func tableFree(reservations []Reservation, start, end Clock) bool {
	for _, r := range reservations {
		if Overlaps(start, end, r.Start, r.End()) {
			return false
		}
	}
	return true
}

func recommend(slots []Slot, preferred Clock) []Slot {
	near := []Slot{}
	for _, s := range slots {
		if absMinutes(s.Time-preferred) <= recommendationWindowMinutes {
			near = append(near, s)
		}
	}
	sort.SliceStable(near, func(i, j int) bool {
		return absMinutes(near[i].Time-preferred) < absMinutes(near[j].Time-preferred)
	})
	if len(near) > maxRecommendations {
		near = near[:maxRecommendations]
	}
	return near
}

func absMinutes(c Clock) int {
	if c < 0 {
		return int(-c)
	}
	return int(c)
}
