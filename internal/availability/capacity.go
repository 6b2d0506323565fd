package availability

import "math"

const (
	peakThreshold      = 70.0
	quietThreshold     = 30.0
	lowOccupancy       = 50.0
	highOccupancy      = 85.0
	manyHoursThreshold = 6
)

// OptimizeCapacity derives advisory utilization signals for one day.
//
// Confirmed, seated and completed reservations count toward occupancy;
// every active table counts toward capacity regardless of its status.
// The overall rate is the day's guests over capacity times the number of
// hour buckets, not an average of the hourly rates.
func OptimizeCapacity(hours OperatingHours, tables []Table, reservations []Reservation, date Date) CapacityOptimization {
	totalCapacity := 0
	for _, t := range tables {
		if t.Active {
			totalCapacity += t.Capacity
		}
	}

	var counted []Reservation
	guests := 0
	for _, r := range reservations {
		if !r.Date.Equal(date) || !r.Status.countsTowardOccupancy() {
			continue
		}
		counted = append(counted, r)
		guests += r.PartySize
	}

	result := CapacityOptimization{
		Date:                  date,
		SuggestedImprovements: []string{},
		PeakHours:             []int{},
		RecommendedActions:    []string{},
		HourlyOccupancy:       []HourlyOccupancy{},
	}

	buckets := hours.Hours()
	quietHours := 0
	for _, h := range buckets {
		start := NewClock(h, 0)
		end := start.Add(60)
		occupied := 0
		for _, r := range counted {
			if Overlaps(start, end, r.Start, r.End()) {
				occupied += r.PartySize
			}
		}
		rate := percent(occupied, totalCapacity)
		peak := rate > peakThreshold
		if peak {
			result.PeakHours = append(result.PeakHours, h)
		}
		if rate < quietThreshold {
			quietHours++
		}
		result.HourlyOccupancy = append(result.HourlyOccupancy, HourlyOccupancy{
			Hour:             h,
			OccupiedCapacity: occupied,
			OccupancyRate:    rate,
			IsPeak:           peak,
		})
	}

	result.CurrentOccupancyRate = percent(guests, totalCapacity*len(buckets))

	if result.CurrentOccupancyRate < lowOccupancy {
		result.SuggestedImprovements = append(result.SuggestedImprovements,
			"Occupancy is low: consider promotions or special offers to attract more guests")
		result.RecommendedActions = append(result.RecommendedActions, "launch_promotions")
	}
	if result.CurrentOccupancyRate > highOccupancy {
		result.SuggestedImprovements = append(result.SuggestedImprovements,
			"Occupancy is very high: consider adding tables or shortening table turnover")
		result.RecommendedActions = append(result.RecommendedActions, "increase_capacity")
	}
	if len(result.PeakHours) > manyHoursThreshold {
		result.SuggestedImprovements = append(result.SuggestedImprovements,
			"Many peak hours: consider premium pricing at peak times and a waitlist")
		result.RecommendedActions = append(result.RecommendedActions, "enable_peak_pricing")
	}
	if quietHours > manyHoursThreshold {
		result.SuggestedImprovements = append(result.SuggestedImprovements,
			"Many quiet hours: consider discount campaigns for off-peak times")
		result.RecommendedActions = append(result.RecommendedActions, "run_off_peak_discounts")
	}
	return result
}

// percent returns part/whole as a percentage rounded to two decimals, or 0
// when whole is not positive.
func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}
