package patients

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// patientDB defines the database surface needed by PostgresRepository
type patientDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores patients in the relational database.
type PostgresRepository struct {
	db patientDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db patientDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new row; an existing id is left untouched.
func (r *PostgresRepository) Create(ctx context.Context, p *Patient) error {
	query := `
		INSERT INTO patients (id, first_name, last_name, photo_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, p.ID, p.FirstName, p.LastName, p.PhotoURL); err != nil {
		return fmt.Errorf("patients: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches a patient by their external id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	query := `
		SELECT id, first_name, last_name, photo_url, created_at
		FROM patients
		WHERE id = $1
	`
	row := r.db.QueryRow(ctx, query, id)
	var p Patient
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.PhotoURL, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("patients: select failed: %w", err)
	}
	return &p, nil
}
