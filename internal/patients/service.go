package patients

import (
	"context"
	"fmt"
	"time"

	"github.com/oakcrest-health/kiosk/internal/drchrono"
	"github.com/oakcrest-health/kiosk/pkg/logging"
)

// Service creates patients lazily from upstream API records.
type Service struct {
	repo   Repository
	logger *logging.Logger
}

// NewService creates a new patients service
func NewService(repo Repository, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger.Component("patients"),
	}
}

// GetByID retrieves a stored patient by their external id.
func (s *Service) GetByID(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// Ensure returns the stored patient for the record's id, creating it on
// first reference. A record without an id can never be stored (ids are
// upstream-assigned), so it fails loudly instead of silently dropping; this
// covers the name-fields-present-but-no-id integrity case. There is no
// update path: later API reads never refresh stored fields.
func (s *Service) Ensure(ctx context.Context, rec drchrono.PatientRecord) (*Patient, error) {
	if rec.ID == 0 {
		return nil, fmt.Errorf("%w: missing id (first_name=%q last_name=%q)",
			ErrInvalidPatientRecord, rec.FirstName, rec.LastName)
	}

	existing, err := s.repo.GetByID(ctx, rec.ID)
	if err == nil {
		return existing, nil
	}
	if err != ErrPatientNotFound {
		return nil, fmt.Errorf("patients: lookup %d: %w", rec.ID, err)
	}

	p := &Patient{
		ID:        rec.ID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		PhotoURL:  rec.PatientPhoto,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("patients: create %d: %w", rec.ID, err)
	}

	s.logger.Info("patient created", "id", p.ID, "name", p.FullName())
	return p, nil
}
