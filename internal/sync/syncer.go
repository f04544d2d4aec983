package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/oakcrest-health/kiosk/internal/appointments"
	"github.com/oakcrest-health/kiosk/internal/drchrono"
	"github.com/oakcrest-health/kiosk/internal/observability/metrics"
	"github.com/oakcrest-health/kiosk/pkg/logging"
)

type appointmentLister interface {
	ListAppointments(ctx context.Context, doctorID string, date time.Time) ([]drchrono.AppointmentRecord, error)
}

type recordIngestor interface {
	Ingest(ctx context.Context, rec drchrono.AppointmentRecord) (*appointments.Appointment, error)
}

// Result tallies the outcome of one sync run.
type Result struct {
	Date    string `json:"date"`
	Fetched int    `json:"fetched"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// Syncer pulls a day's schedule from the upstream API and reconciles each
// record into local storage. One record failing never aborts the run;
// upstream data quality is assumed imperfect.
type Syncer struct {
	api      appointmentLister
	ingestor recordIngestor
	metrics  *metrics.KioskMetrics
	doctorID string
	logger   *logging.Logger
}

func NewSyncer(api appointmentLister, ingestor recordIngestor, m *metrics.KioskMetrics, doctorID string, logger *logging.Logger) *Syncer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Syncer{
		api:      api,
		ingestor: ingestor,
		metrics:  m,
		doctorID: doctorID,
		logger:   logger.Component("sync"),
	}
}

// SyncDay fetches and ingests the doctor's appointments for the given
// calendar date. The returned error covers the upstream fetch only;
// per-record failures are counted in the result.
func (s *Syncer) SyncDay(ctx context.Context, date time.Time) (*Result, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveSyncDuration(time.Since(start).Seconds())
	}()

	records, err := s.api.ListAppointments(ctx, s.doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("sync: list appointments: %w", err)
	}

	res := &Result{
		Date:    date.Format("2006-01-02"),
		Fetched: len(records),
	}
	for _, rec := range records {
		apt, err := s.ingestor.Ingest(ctx, rec)
		switch {
		case err != nil:
			res.Failed++
			s.metrics.ObserveIngest("failed")
			s.logger.Warn("failed to ingest appointment", "appointment_id", rec.ID, "error", err)
		case apt == nil:
			res.Skipped++
			s.metrics.ObserveIngest("noop")
		default:
			res.Created++
			s.metrics.ObserveIngest("created")
		}
	}

	s.logger.Info("sync complete",
		"date", res.Date,
		"fetched", res.Fetched,
		"created", res.Created,
		"skipped", res.Skipped,
		"failed", res.Failed)
	return res, nil
}
