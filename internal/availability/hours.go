package availability

import "fmt"

const (
	// DefaultDurationMinutes is used when a query does not specify a duration.
	DefaultDurationMinutes = 90
	// DefaultPartySize is used by calendar rollups.
	DefaultPartySize = 2
)

// OperatingHours is the window in which reservations may start.
// Slots run from Open to Close inclusive, every Step minutes.
type OperatingHours struct {
	Open  Clock
	Close Clock
	Step  int
}

// DefaultHours returns the standard 11:00-22:00 window at 30 minute steps.
func DefaultHours() OperatingHours {
	return OperatingHours{Open: NewClock(11, 0), Close: NewClock(22, 0), Step: 30}
}

// Validate checks that the window is usable.
func (h OperatingHours) Validate() error {
	if h.Step <= 0 {
		return fmt.Errorf("slot step must be positive, got %d", h.Step)
	}
	if h.Close < h.Open {
		return fmt.Errorf("close %s is before open %s", h.Close, h.Open)
	}
	if h.Close >= NewClock(24, 0) {
		return fmt.Errorf("close %s must be before midnight", h.Close)
	}
	return nil
}

// SlotTimes enumerates every candidate slot start in the window.
func (h OperatingHours) SlotTimes() []Clock {
	if h.Step <= 0 {
		return nil
	}
	times := make([]Clock, 0, int(h.Close-h.Open)/h.Step+1)
	for t := h.Open; t <= h.Close; t = t.Add(h.Step) {
		times = append(times, t)
	}
	return times
}

// Contains reports whether t lies in [Open, Close).
func (h OperatingHours) Contains(t Clock) bool {
	return t >= h.Open && t < h.Close
}

// Hours returns the hour buckets covered by the window, first through last.
func (h OperatingHours) Hours() []int {
	hours := make([]int, 0, h.Close.Hour()-h.Open.Hour()+1)
	for hr := h.Open.Hour(); hr <= h.Close.Hour(); hr++ {
		hours = append(hours, hr)
	}
	return hours
}
