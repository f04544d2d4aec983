package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/oakcrest-health/kiosk/internal/appointments"
	"github.com/oakcrest-health/kiosk/internal/drchrono"
	"github.com/oakcrest-health/kiosk/internal/patients"
	"github.com/oakcrest-health/kiosk/pkg/logging"
)

// servicedWindowDays is how far back the serviced-per-day series reaches,
// in addition to today.
const servicedWindowDays = 6

type doctorSource interface {
	CurrentDoctor(ctx context.Context, doctorID string) (*drchrono.DoctorRecord, error)
}

type patientDirectory interface {
	GetByID(ctx context.Context, id int64) (*patients.Patient, error)
}

// QueueEntry is one row of the waiting-room queue as rendered by the kiosk.
type QueueEntry struct {
	AppointmentID  int64     `json:"appointment_id"`
	PatientName    string    `json:"patient_name"`
	PatientPhoto   string    `json:"patient_photo,omitempty"`
	Status         string    `json:"status"`
	ScheduledTime  time.Time `json:"scheduled_time"`
	ExamRoom       string    `json:"exam_room"`
	Reason         string    `json:"reason,omitempty"`
	WaitingMinutes *float64  `json:"waiting_minutes,omitempty"`
}

// Focus is the appointment the practice is (or should be) seeing.
type Focus struct {
	Kind  string     `json:"kind"`
	Entry QueueEntry `json:"entry"`
}

// Stats aggregates practice-wide waiting numbers for the dashboard.
type Stats struct {
	AvgWaitMinutes     float64 `json:"avg_wait_minutes"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
	// ServicedPerDay counts scheduled appointments per calendar day; index 0
	// is the oldest day of the window, the last element is today.
	ServicedPerDay []int `json:"serviced_per_day"`
}

// Doctor is the practice's doctor as shown on the kiosk header.
type Doctor struct {
	Name        string `json:"name"`
	Specialty   string `json:"specialty,omitempty"`
	OfficePhone string `json:"office_phone,omitempty"`
	Photo       string `json:"photo,omitempty"`
}

// Dashboard is the full view assembled for one render.
type Dashboard struct {
	Today         string              `json:"today"`
	Doctor        *Doctor             `json:"doctor,omitempty"`
	Queue         []QueueEntry        `json:"queue"`
	CurrentOrNext *Focus              `json:"current_or_next,omitempty"`
	Stats         Stats               `json:"stats"`
	SyncLatency   SyncLatencySnapshot `json:"sync_latency"`
}

// Service assembles the dashboard view from local storage, the doctor cache
// and the scheduling API.
type Service struct {
	apts     appointments.Repository
	patients patientDirectory
	doctors  doctorSource
	cache    *DoctorCache
	doctorID string
	logger   *logging.Logger
}

func NewService(apts appointments.Repository, dir patientDirectory, doctors doctorSource, cache *DoctorCache, doctorID string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		apts:     apts,
		patients: dir,
		doctors:  doctors,
		cache:    cache,
		doctorID: doctorID,
		logger:   logger.Component("dashboard"),
	}
}

// Build assembles the dashboard for the given instant. The queue covers
// appointments scheduled from yesterday onward, sorted by display priority;
// in-session visits are pulled out of the queue and surfaced as Current.
func (s *Service) Build(ctx context.Context, now time.Time) (*Dashboard, error) {
	since := startOfDay(now).AddDate(0, 0, -1)
	recent, err := s.apts.ListScheduledSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list recent appointments: %w", err)
	}

	ordered, err := appointments.OrderForDisplay(recent)
	if err != nil {
		return nil, fmt.Errorf("dashboard: order queue: %w", err)
	}

	queue := make([]QueueEntry, 0, len(ordered))
	for _, a := range ordered {
		if a.Status == appointments.StatusInSession {
			continue
		}
		queue = append(queue, s.entryFor(ctx, a, now))
	}

	var focus *Focus
	if pos := appointments.CurrentOrNext(ordered); pos != nil {
		if pos.InSessionCount > 1 {
			s.logger.Warn("multiple appointments in session", "count", pos.InSessionCount)
		}
		focus = &Focus{Kind: pos.Kind, Entry: s.entryFor(ctx, pos.Appointment, now)}
	}

	stats, err := s.buildStats(ctx, now)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Today:         now.Format("2006-01-02"),
		Doctor:        s.lookupDoctor(ctx),
		Queue:         queue,
		CurrentOrNext: focus,
		Stats:         stats,
	}, nil
}

func (s *Service) buildStats(ctx context.Context, now time.Time) (Stats, error) {
	completed, err := s.apts.ListWithCompletedWaits(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("dashboard: list completed waits: %w", err)
	}
	wait := appointments.AverageWaitAndDuration(completed)

	windowStart := startOfDay(now).AddDate(0, 0, -servicedWindowDays)
	window, err := s.apts.ListScheduledSince(ctx, windowStart)
	if err != nil {
		return Stats{}, fmt.Errorf("dashboard: list serviced window: %w", err)
	}

	return Stats{
		AvgWaitMinutes:     wait.AvgWaitMinutes,
		AvgDurationMinutes: wait.AvgDurationMinutes,
		ServicedPerDay:     appointments.ServicedPerDay(window, now, servicedWindowDays),
	}, nil
}

func (s *Service) entryFor(ctx context.Context, a *appointments.Appointment, now time.Time) QueueEntry {
	entry := QueueEntry{
		AppointmentID: a.ID,
		Status:        string(a.Status),
		ScheduledTime: a.ScheduledTime,
		ExamRoom:      a.ExamRoom,
		Reason:        a.Reason,
	}
	if minutes, ok := a.WaitingFor(now); ok {
		entry.WaitingMinutes = &minutes
	}

	p, err := s.patients.GetByID(ctx, a.PatientID)
	if err != nil {
		s.logger.Warn("queue entry without patient record", "appointment_id", a.ID, "patient_id", a.PatientID, "error", err)
		return entry
	}
	entry.PatientName = p.FullName()
	entry.PatientPhoto = p.PhotoURL
	return entry
}

// lookupDoctor resolves the doctor profile cache-first. Every failure here is
// cosmetic, so the dashboard renders without a doctor rather than erroring.
func (s *Service) lookupDoctor(ctx context.Context) *Doctor {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("doctor cache read failed", "error", err)
		} else if cached != nil {
			return doctorView(cached)
		}
	}

	if s.doctors == nil {
		return nil
	}
	doc, err := s.doctors.CurrentDoctor(ctx, s.doctorID)
	if err != nil {
		s.logger.Warn("doctor lookup failed", "error", err)
		return nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, doc); err != nil {
			s.logger.Warn("doctor cache write failed", "error", err)
		}
	}
	return doctorView(doc)
}

func doctorView(doc *drchrono.DoctorRecord) *Doctor {
	return &Doctor{
		Name:        doc.FullName(),
		Specialty:   doc.Specialty,
		OfficePhone: doc.OfficePhone,
		Photo:       doc.ProfilePicture,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
