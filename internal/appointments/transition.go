package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/oakcrest-health/kiosk/pkg/logging"
)

// staffTransitions is the allow-list for staff-initiated status changes.
// Everything else only arrives via sync from the external source.
var staffTransitions = map[Status]bool{
	StatusInSession:   true,
	StatusComplete:    true,
	StatusRescheduled: true,
}

// StatusPropagator pushes a status change to the external system of record.
type StatusPropagator interface {
	UpdateAppointmentStatus(ctx context.Context, id int64, status string) error
}

// TransitionService applies staff-initiated status changes.
type TransitionService struct {
	repo     Repository
	upstream StatusPropagator
	logger   *logging.Logger
}

// NewTransitionService creates a new status transition service
func NewTransitionService(repo Repository, upstream StatusPropagator, logger *logging.Logger) *TransitionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TransitionService{
		repo:     repo,
		upstream: upstream,
		logger:   logger.Component("transitions"),
	}
}

// ApplyStatusChange moves an appointment to newStatus and manages the
// waiting interval: entering In Session stamps waiting_start once and
// re-stamps waiting_end on every call, so repeated In Session requests keep
// advancing the interval's end. The change is propagated upstream before the
// local row is persisted; if propagation fails nothing is stored locally and
// the two systems stay consistent. There is no atomicity beyond that
// ordering and no retry.
func (s *TransitionService) ApplyStatusChange(ctx context.Context, id int64, newStatus Status, now time.Time) (*Appointment, error) {
	if !staffTransitions[newStatus] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatusChange, string(newStatus))
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.Status = newStatus
	if newStatus == StatusInSession {
		if a.WaitingStart == nil {
			start := now
			a.WaitingStart = &start
		}
		end := now
		a.WaitingEnd = &end
	}

	if err := s.upstream.UpdateAppointmentStatus(ctx, id, string(newStatus)); err != nil {
		return nil, fmt.Errorf("appointments: propagate status %d: %w", id, err)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("appointments: persist status %d: %w", id, err)
	}

	s.logger.Info("status changed", "id", id, "status", string(newStatus))
	return a, nil
}
