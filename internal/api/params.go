package api

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/parse"
)

const (
	minDurationMinutes = 15
	maxDurationMinutes = 480
	maxRangeDays       = 62
)

func dateParam(c *gin.Context, key string) (availability.Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return availability.Date{}, fmt.Errorf("%s is required", key)
	}
	d, err := parse.Date(raw)
	if err != nil {
		return availability.Date{}, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// intParam reads an optional integer query parameter.
func intParam(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func partySizeParam(c *gin.Context) (int, error) {
	n, err := intParam(c, "party_size", availability.DefaultPartySize)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("party_size must be at least 1")
	}
	return n, nil
}

func durationParam(c *gin.Context) (int, error) {
	n, err := intParam(c, "duration", availability.DefaultDurationMinutes)
	if err != nil {
		return 0, err
	}
	return n, checkDuration(n)
}

func checkDuration(n int) error {
	if n < minDurationMinutes || n > maxDurationMinutes {
		return fmt.Errorf("duration must be between %d and %d minutes", minDurationMinutes, maxDurationMinutes)
	}
	return nil
}

// clockParam reads an optional HH:MM query parameter.
func clockParam(c *gin.Context, key string) (*availability.Clock, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := parse.Clock(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}

// queryParams reads the shared date/party_size/time/duration parameters.
func queryParams(c *gin.Context) (availability.Query, error) {
	date, err := dateParam(c, "date")
	if err != nil {
		return availability.Query{}, err
	}
	party, err := partySizeParam(c)
	if err != nil {
		return availability.Query{}, err
	}
	preferred, err := clockParam(c, "time")
	if err != nil {
		return availability.Query{}, err
	}
	duration, err := durationParam(c)
	if err != nil {
		return availability.Query{}, err
	}
	return availability.Query{Date: date, PartySize: party, PreferredTime: preferred, DurationMinutes: duration}, nil
}
