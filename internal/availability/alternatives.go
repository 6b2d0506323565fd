package availability

import "sort"

const (
	maxAlternatives          = 5
	otherDayToleranceMinutes = 30
	otherDaySearchRadiusDays = 3
)

var sameDayOffsets = []int{-30, 30, -60, 60, -90, 90, -120, 120}

// AlternativeSlots looks for slots near a preferred (date, time) that cannot
// be served as requested.
//
// The same day is probed at ±30..±120 minutes; probes outside [Open, Close)
// are skipped. The three days before and after are probed for the closest
// slot within 30 minutes of the preferred time; days before today are
// skipped. Candidates are ranked by time-of-day distance only, so a slot on
// another day at the exact preferred time outranks a same-day slot 30
// minutes off. At most five slots are returned.
//
// reservations must cover every probed day.
func AlternativeSlots(hours OperatingHours, tables []Table, reservations []Reservation, q Query, today Date) []Slot {
	q = normalizeQuery(q)
	if q.PreferredTime == nil {
		return []Slot{}
	}
	preferred := *q.PreferredTime

	var found []Slot

	sameDay := AvailableSlots(hours, tables, reservations, Query{
		Date: q.Date, PartySize: q.PartySize, DurationMinutes: q.DurationMinutes,
	})
	for _, offset := range sameDayOffsets {
		probe := preferred.Add(offset)
		if !hours.Contains(probe) {
			continue
		}
		if s, ok := slotAt(sameDay.AvailableSlots, probe); ok {
			found = append(found, s)
		}
	}

	for d := -otherDaySearchRadiusDays; d <= otherDaySearchRadiusDays; d++ {
		if d == 0 {
			continue
		}
		day := q.Date.AddDays(d)
		if day.Before(today) {
			continue
		}
		resp := AvailableSlots(hours, tables, reservations, Query{
			Date: day, PartySize: q.PartySize, DurationMinutes: q.DurationMinutes,
		})
		if s, ok := closestWithin(resp.AvailableSlots, preferred, otherDayToleranceMinutes); ok {
			found = append(found, s)
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		di := absMinutes(found[i].Time - preferred)
		dj := absMinutes(found[j].Time - preferred)
		if di != dj {
			return di < dj
		}
		gi := absDays(q.Date.DaysUntil(found[i].Date))
		gj := absDays(q.Date.DaysUntil(found[j].Date))
		if gi != gj {
			return gi < gj
		}
		if !found[i].Date.Equal(found[j].Date) {
			return found[i].Date.Before(found[j].Date)
		}
		return found[i].Time < found[j].Time
	})
	if len(found) > maxAlternatives {
		found = found[:maxAlternatives]
	}
	if found == nil {
		found = []Slot{}
	}
	return found
}

func slotAt(slots []Slot, t Clock) (Slot, bool) {
	for _, s := range slots {
		if s.Time == t {
			return s, true
		}
	}
	return Slot{}, false
}

func closestWithin(slots []Slot, t Clock, toleranceMinutes int) (Slot, bool) {
	var best Slot
	bestDist := -1
	for _, s := range slots {
		dist := absMinutes(s.Time - t)
		if dist > toleranceMinutes {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = s, dist
		}
	}
	return best, bestDist >= 0
}

func absDays(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
