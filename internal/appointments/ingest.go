package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/oakcrest-health/kiosk/internal/drchrono"
	"github.com/oakcrest-health/kiosk/internal/patients"
	"github.com/oakcrest-health/kiosk/pkg/logging"
)

// PatientDirectory resolves upstream patient ids to local patient records,
// creating them on first reference. Satisfied by *patients.Service.
type PatientDirectory interface {
	GetByID(ctx context.Context, id int64) (*patients.Patient, error)
	Ensure(ctx context.Context, rec drchrono.PatientRecord) (*patients.Patient, error)
}

// PatientFetcher pulls a full patient record from the external source.
type PatientFetcher interface {
	FetchPatient(ctx context.Context, id int64) (*drchrono.PatientRecord, error)
}

// Ingestor reconciles upstream appointment records into local storage.
type Ingestor struct {
	repo      Repository
	directory PatientDirectory
	fetcher   PatientFetcher
	logger    *logging.Logger
}

// NewIngestor creates a new appointment ingestor
func NewIngestor(repo Repository, directory PatientDirectory, fetcher PatientFetcher, logger *logging.Logger) *Ingestor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Ingestor{
		repo:      repo,
		directory: directory,
		fetcher:   fetcher,
		logger:    logger.Component("ingest"),
	}
}

// Ingest reconciles one upstream record. Upstream data is assumed imperfect:
// records missing any of id, scheduled time, duration, status or a patient
// link make no persistent change and return (nil, nil). A record whose id is
// already stored is likewise a no-op; sync never updates existing rows.
// Errors are reserved for real failures: patient fetches, storage, and
// statuses outside the closed vocabulary.
func (ing *Ingestor) Ingest(ctx context.Context, rec drchrono.AppointmentRecord) (*Appointment, error) {
	patient, err := ing.resolvePatient(ctx, rec)
	if err != nil {
		return nil, err
	}

	// The empty status ("Scheduled" upstream default) fails the presence
	// check, so freshly scheduled appointments do not ingest. Observed
	// behavior, kept as is.
	if rec.ID == 0 || rec.ScheduledTime.IsZero() || rec.Duration == 0 || rec.Status == "" || patient == nil {
		ing.logger.Debug("skipping incomplete appointment record", "id", rec.ID)
		return nil, nil
	}

	status, err := NormalizeStatus(rec.Status)
	if err != nil {
		return nil, err
	}

	exists, err := ing.repo.Exists(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("appointments: existence check %d: %w", rec.ID, err)
	}
	if exists {
		return nil, nil
	}

	a := &Appointment{
		ID:              rec.ID,
		PatientID:       patient.ID,
		ScheduledTime:   rec.ScheduledTime.Time,
		DurationMinutes: rec.Duration,
		Status:          status,
		Reason:          rec.Reason,
		ExamRoom:        examRoom(rec),
		WaitingStart:    waitingStartFor(status, rec.StatusTransitions),
	}
	if err := ing.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("appointments: create %d: %w", rec.ID, err)
	}

	ing.logger.Info("appointment ingested", "id", a.ID, "status", string(a.Status), "patient_id", a.PatientID)
	return a, nil
}

// resolvePatient returns the local patient for the record's patient link.
// A record with no link at all resolves to nil without error: upstream may
// legitimately omit the patient mid-flow. An unknown id triggers a full
// fetch from the external source before creation.
func (ing *Ingestor) resolvePatient(ctx context.Context, rec drchrono.AppointmentRecord) (*patients.Patient, error) {
	if rec.Patient == 0 {
		return nil, nil
	}

	p, err := ing.directory.GetByID(ctx, rec.Patient)
	if err == nil {
		return p, nil
	}
	if err != patients.ErrPatientNotFound {
		return nil, fmt.Errorf("appointments: patient lookup %d: %w", rec.Patient, err)
	}

	fetched, err := ing.fetcher.FetchPatient(ctx, rec.Patient)
	if err != nil {
		return nil, fmt.Errorf("appointments: patient fetch %d: %w", rec.Patient, err)
	}
	return ing.directory.Ensure(ctx, *fetched)
}

// waitingStartFor derives the start of the waiting interval for a checked-in
// appointment from its status history. The scan runs the whole sequence, so
// when several transitions lead to Checked In the last one wins. No match
// leaves the interval unset.
func waitingStartFor(status Status, transitions []drchrono.StatusTransition) *time.Time {
	if status != StatusCheckedIn {
		return nil
	}
	var start *time.Time
	for _, t := range transitions {
		if Status(t.ToStatus) != StatusCheckedIn || t.DateTime.IsZero() {
			continue
		}
		ts := t.DateTime.Time
		start = &ts
	}
	return start
}

func examRoom(rec drchrono.AppointmentRecord) string {
	if room := rec.ExamRoom.String(); room != "" {
		return room
	}
	return "1"
}
