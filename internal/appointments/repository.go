package appointments

import (
	"context"
	"sync"
	"time"
)

// Repository defines the interface for appointment storage. List results
// come back in insertion order, which the display sort preserves on ties.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, a *Appointment) error

	// ListScheduledSince returns appointments whose scheduled time is at or
	// after the given instant.
	ListScheduledSince(ctx context.Context, since time.Time) ([]*Appointment, error)

	// ListByStatus returns appointments holding any of the given statuses.
	ListByStatus(ctx context.Context, statuses ...Status) ([]*Appointment, error)

	// ListWithCompletedWaits returns appointments whose waiting interval is
	// fully recorded (both timestamps set).
	ListWithCompletedWaits(ctx context.Context) ([]*Appointment, error)
}

// InMemoryRepository is an in-memory implementation of Repository used in
// tests and when running without a database.
type InMemoryRepository struct {
	mu    sync.RWMutex
	byID  map[int64]*Appointment
	order []int64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID: make(map[int64]*Appointment),
	}
}

// Create stores the appointment. Ingestion guarantees no duplicate ids reach
// this point; a duplicate keeps the existing row.
func (r *InMemoryRepository) Create(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.ID]; ok {
		return nil
	}
	stored := *a
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	r.byID[a.ID] = &stored
	r.order = append(r.order, a.ID)
	return nil
}

// GetByID retrieves an appointment by id
func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

// Exists reports whether an appointment with the id is stored
func (r *InMemoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[id]
	return ok, nil
}

// Update replaces the stored row's mutable fields.
func (r *InMemoryRepository) Update(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[a.ID]
	if !ok {
		return ErrAppointmentNotFound
	}
	updated := *a
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.byID[a.ID] = &updated
	return nil
}

// ListScheduledSince returns appointments scheduled at or after the instant,
// in insertion order.
func (r *InMemoryRepository) ListScheduledSince(ctx context.Context, since time.Time) ([]*Appointment, error) {
	return r.list(func(a *Appointment) bool {
		return !a.ScheduledTime.Before(since)
	}), nil
}

// ListByStatus returns appointments holding any of the statuses, in
// insertion order.
func (r *InMemoryRepository) ListByStatus(ctx context.Context, statuses ...Status) ([]*Appointment, error) {
	want := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	return r.list(func(a *Appointment) bool {
		return want[a.Status]
	}), nil
}

// ListWithCompletedWaits returns appointments with both waiting timestamps
// set, in insertion order.
func (r *InMemoryRepository) ListWithCompletedWaits(ctx context.Context) ([]*Appointment, error) {
	return r.list(func(a *Appointment) bool {
		return a.WaitingStart != nil && a.WaitingEnd != nil
	}), nil
}

func (r *InMemoryRepository) list(keep func(*Appointment) bool) []*Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Appointment
	for _, id := range r.order {
		a := r.byID[id]
		if keep(a) {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out
}
