package parse

import (
	"fmt"
	"strings"
	"time"

	"restaurant-availability-backend/internal/availability"
)

// Clock parses an "HH:MM" (or "HH:MM:SS", seconds ignored) time of day.
func Clock(raw string) (availability.Clock, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return availability.NewClock(t.Hour(), t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
}

// Date parses a "YYYY-MM-DD" calendar date.
func Date(raw string) (availability.Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return availability.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return availability.DateOf(t), nil
}
