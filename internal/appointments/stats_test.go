package appointments

import (
	"testing"
	"time"
)

func withWait(id int64, start time.Time, waitMins float64, durationMins int) *Appointment {
	end := start.Add(time.Duration(waitMins * float64(time.Minute)))
	return &Appointment{
		ID:              id,
		DurationMinutes: durationMins,
		WaitingStart:    &start,
		WaitingEnd:      &end,
	}
}

func TestAverageWaitAndDurationEmpty(t *testing.T) {
	stats := AverageWaitAndDuration(nil)
	if stats.AvgWaitMinutes != 0 || stats.AvgDurationMinutes != 0 {
		t.Fatalf("empty set should average to zeros, got %+v", stats)
	}
}

func TestAverageWaitAndDuration(t *testing.T) {
	base := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	apts := []*Appointment{
		withWait(1, base, 10, 20),
		withWait(2, base, 20, 40),
	}

	stats := AverageWaitAndDuration(apts)
	if stats.AvgWaitMinutes != 15 {
		t.Errorf("AvgWaitMinutes = %v, want 15", stats.AvgWaitMinutes)
	}
	if stats.AvgDurationMinutes != 30 {
		t.Errorf("AvgDurationMinutes = %v, want 30", stats.AvgDurationMinutes)
	}
}

func TestAverageWaitSkipsIncompleteIntervals(t *testing.T) {
	base := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	stillWaiting := &Appointment{ID: 3, DurationMinutes: 90, WaitingStart: &base}
	neverArrived := &Appointment{ID: 4, DurationMinutes: 90}

	stats := AverageWaitAndDuration([]*Appointment{
		withWait(1, base, 10, 20),
		stillWaiting,
		neverArrived,
	})
	if stats.AvgWaitMinutes != 10 {
		t.Errorf("AvgWaitMinutes = %v, want 10 (only completed intervals qualify)", stats.AvgWaitMinutes)
	}
	if stats.AvgDurationMinutes != 20 {
		t.Errorf("AvgDurationMinutes = %v, want 20", stats.AvgDurationMinutes)
	}
}

func TestAverageWaitFractionalMinutes(t *testing.T) {
	base := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	stats := AverageWaitAndDuration([]*Appointment{withWait(1, base, 7.5, 30)})
	if stats.AvgWaitMinutes != 7.5 {
		t.Errorf("AvgWaitMinutes = %v, want 7.5", stats.AvgWaitMinutes)
	}
}

func TestServicedPerDayOldestFirst(t *testing.T) {
	today := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	apts := []*Appointment{
		{ID: 1, ScheduledTime: today.Add(-30 * time.Minute)},              // today
		{ID: 2, ScheduledTime: today.AddDate(0, 0, -1)},                   // yesterday
		{ID: 3, ScheduledTime: today.AddDate(0, 0, -1).Add(time.Hour)},    // yesterday
		{ID: 4, ScheduledTime: today.AddDate(0, 0, -6)},                   // oldest in window
		{ID: 5, ScheduledTime: today.AddDate(0, 0, -7)},                   // outside window
		{ID: 6, ScheduledTime: today.AddDate(0, 0, 1)},                    // tomorrow, outside
	}

	counts := ServicedPerDay(apts, today, 6)
	if len(counts) != 7 {
		t.Fatalf("len = %d, want 7", len(counts))
	}
	want := []int{1, 0, 0, 0, 0, 2, 1}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("counts = %v, want %v", counts, want)
		}
	}
}

func TestServicedPerDayZeroWindow(t *testing.T) {
	today := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	counts := ServicedPerDay([]*Appointment{{ID: 1, ScheduledTime: today}}, today, 0)
	if len(counts) != 1 || counts[0] != 1 {
		t.Fatalf("counts = %v, want [1]", counts)
	}
}
