package appointments

import "time"

// WaitStats aggregates practice-wide waiting-room numbers.
type WaitStats struct {
	AvgWaitMinutes     float64 `json:"avg_wait_minutes"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
}

// AverageWaitAndDuration averages waiting time and booked duration over the
// appointments whose waiting interval is fully recorded. Wait is
// waiting_end − waiting_start in fractional minutes; duration comes from the
// booked duration field, not from timestamps. Both averages are zero when no
// appointment qualifies.
func AverageWaitAndDuration(apts []*Appointment) WaitStats {
	var waitTotal float64
	var durationTotal int
	count := 0
	for _, a := range apts {
		if a.WaitingStart == nil || a.WaitingEnd == nil {
			continue
		}
		waitTotal += a.WaitingEnd.Sub(*a.WaitingStart).Minutes()
		durationTotal += a.DurationMinutes
		count++
	}
	if count == 0 {
		return WaitStats{}
	}
	return WaitStats{
		AvgWaitMinutes:     waitTotal / float64(count),
		AvgDurationMinutes: float64(durationTotal) / float64(count),
	}
}

// ServicedPerDay counts appointments scheduled on each of the last
// daysBack+1 calendar days. Index 0 is the oldest day of the window and the
// last element is today.
func ServicedPerDay(apts []*Appointment, today time.Time, daysBack int) []int {
	if daysBack < 0 {
		daysBack = 0
	}
	counts := make([]int, daysBack+1)
	for i := range counts {
		day := today.AddDate(0, 0, -(daysBack - i))
		y, m, d := day.Date()
		for _, a := range apts {
			ay, am, ad := a.ScheduledTime.Date()
			if ay == y && am == m && ad == d {
				counts[i]++
			}
		}
	}
	return counts
}
