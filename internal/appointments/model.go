package appointments

import (
	"fmt"
	"sort"
	"time"
)

// Status is the closed vocabulary of appointment states. The empty string is
// what upstream sends for a freshly scheduled appointment.
type Status string

const (
	StatusScheduled   Status = ""
	StatusConfirmed   Status = "Confirmed"
	StatusArrived     Status = "Arrived"
	StatusCheckedIn   Status = "Checked In"
	StatusInSession   Status = "In Session"
	StatusComplete    Status = "Complete"
	StatusRescheduled Status = "Rescheduled"
	StatusCanceled    Status = "Canceled"
)

// statusInRoom is an alternate upstream label for an in-session visit,
// normalized before storage.
const statusInRoom = "In Room"

// displayOrder ranks statuses for the dashboard, highest priority first.
// Kept as a lookup rather than a stored code so the ordering can change
// without a data migration.
var displayOrder = map[Status]int{
	StatusCheckedIn:   0,
	StatusArrived:     1,
	StatusScheduled:   2,
	StatusConfirmed:   3,
	StatusInSession:   4,
	StatusComplete:    5,
	StatusRescheduled: 6,
	StatusCanceled:    7,
}

// Rank returns the display priority for a status. Unknown statuses fail:
// the enumeration is closed and there is no fallback rank.
func Rank(s Status) (int, error) {
	rank, ok := displayOrder[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedStatus, string(s))
	}
	return rank, nil
}

// NormalizeStatus validates a raw upstream status against the closed set,
// mapping the "In Room" alias onto In Session.
func NormalizeStatus(raw string) (Status, error) {
	if raw == statusInRoom {
		return StatusInSession, nil
	}
	s := Status(raw)
	if _, ok := displayOrder[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedStatus, raw)
	}
	return s, nil
}

// Appointment mirrors a drchrono appointment joined to a local patient.
// WaitingStart/WaitingEnd bracket the patient's time in the waiting room;
// WaitingEnd set implies WaitingStart set.
type Appointment struct {
	ID              int64      `json:"id"`
	PatientID       int64      `json:"patient_id"`
	ScheduledTime   time.Time  `json:"scheduled_time"`
	DurationMinutes int        `json:"duration_minutes"`
	Status          Status     `json:"status"`
	Reason          string     `json:"reason"`
	ExamRoom        string     `json:"exam_room"`
	WaitingStart    *time.Time `json:"waiting_start,omitempty"`
	WaitingEnd      *time.Time `json:"waiting_end,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// OrderForDisplay sorts appointments by display rank, ascending. The sort is
// stable: appointments with the same status keep the input's relative order,
// which is the store's insertion order.
func OrderForDisplay(apts []*Appointment) ([]*Appointment, error) {
	ordered := make([]*Appointment, len(apts))
	copy(ordered, apts)

	// Validate before sorting so a bad status fails the whole call instead
	// of producing a partially-ordered result.
	for _, a := range ordered {
		if _, err := Rank(a.Status); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return displayOrder[ordered[i].Status] < displayOrder[ordered[j].Status]
	})
	return ordered, nil
}

// QueuePosition names the appointment the practice is (or should be) seeing.
type QueuePosition struct {
	// Kind is "Current" when a visit is in session, "Next" otherwise.
	Kind        string       `json:"kind"`
	Appointment *Appointment `json:"appointment"`
	// InSessionCount surfaces the documented race where more than one
	// appointment holds In Session; callers may want to log it.
	InSessionCount int `json:"-"`
}

// CurrentOrNext selects the current in-session appointment, or the best
// waiting candidate by display rank. Only one appointment should ever be in
// session at a time; if concurrent requests violated that, the first in
// store order wins. Returns nil when there is nothing current or upcoming.
func CurrentOrNext(apts []*Appointment) *QueuePosition {
	var current *Appointment
	inSession := 0
	for _, a := range apts {
		if a.Status == StatusInSession {
			inSession++
			if current == nil {
				current = a
			}
		}
	}
	if current != nil {
		return &QueuePosition{Kind: "Current", Appointment: current, InSessionCount: inSession}
	}

	var next *Appointment
	bestRank := 0
	for _, a := range apts {
		switch a.Status {
		case StatusCheckedIn, StatusArrived, StatusConfirmed:
		default:
			continue
		}
		rank, err := Rank(a.Status)
		if err != nil {
			continue
		}
		if next == nil || rank < bestRank {
			next = a
			bestRank = rank
		}
	}
	if next == nil {
		return nil
	}
	return &QueuePosition{Kind: "Next", Appointment: next}
}

// WaitingFor returns minutes waited since check-in: a running count while
// the patient is still waiting, frozen once WaitingEnd is stamped. The
// second return is false when the patient never checked in.
func (a *Appointment) WaitingFor(now time.Time) (float64, bool) {
	if a.WaitingStart == nil {
		return 0, false
	}
	if a.WaitingEnd == nil {
		return now.Sub(*a.WaitingStart).Minutes(), true
	}
	return a.WaitingEnd.Sub(*a.WaitingStart).Minutes(), true
}
