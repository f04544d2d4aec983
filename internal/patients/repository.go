package patients

import (
	"context"
	"sync"
	"time"
)

// Repository defines the interface for patient storage. Create is an
// idempotent insert: a pre-existing row with the same id is kept untouched.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
}

// InMemoryRepository is an in-memory implementation of Repository used in
// tests and when running without a database.
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients map[int64]*Patient
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		patients: make(map[int64]*Patient),
	}
}

// Create stores the patient unless the id already exists.
func (r *InMemoryRepository) Create(ctx context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[p.ID]; ok {
		return nil
	}
	stored := *p
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.patients[p.ID] = &stored
	return nil
}

// GetByID retrieves a patient by id
func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	copied := *p
	return &copied, nil
}
