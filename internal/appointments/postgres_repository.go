package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// appointmentDB defines the database surface needed by PostgresRepository
type appointmentDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const appointmentColumns = `id, patient_id, scheduled_time, duration_minutes, status, reason, exam_room, waiting_start, waiting_end, created_at, updated_at`

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db appointmentDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db appointmentDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, a *Appointment) error {
	query := `
		INSERT INTO appointments (id, patient_id, scheduled_time, duration_minutes, status, reason, exam_room, waiting_start, waiting_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.PatientID,
		a.ScheduledTime,
		a.DurationMinutes,
		string(a.Status),
		a.Reason,
		a.ExamRoom,
		a.WaitingStart,
		a.WaitingEnd,
	)
	if err != nil {
		return fmt.Errorf("appointments: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches an appointment by its external id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	a, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return a, nil
}

// Exists reports whether an appointment with the id is stored.
func (r *PostgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM appointments WHERE id = $1)`
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("appointments: exists check failed: %w", err)
	}
	return exists, nil
}

// Update persists the mutable fields of an existing row.
func (r *PostgresRepository) Update(ctx context.Context, a *Appointment) error {
	query := `
		UPDATE appointments
		SET status = $2, waiting_start = $3, waiting_end = $4, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, a.ID, string(a.Status), a.WaitingStart, a.WaitingEnd)
	if err != nil {
		return fmt.Errorf("appointments: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// ListScheduledSince returns appointments scheduled at or after the instant,
// in insertion order.
func (r *PostgresRepository) ListScheduledSince(ctx context.Context, since time.Time) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE scheduled_time >= $1 ORDER BY created_at, id`
	return r.queryMany(ctx, query, since)
}

// ListByStatus returns appointments holding any of the statuses, in
// insertion order.
func (r *PostgresRepository) ListByStatus(ctx context.Context, statuses ...Status) ([]*Appointment, error) {
	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE status = ANY($1) ORDER BY created_at, id`
	return r.queryMany(ctx, query, raw)
}

// ListWithCompletedWaits returns appointments with both waiting timestamps
// set, in insertion order.
func (r *PostgresRepository) ListWithCompletedWaits(ctx context.Context) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE waiting_start IS NOT NULL AND waiting_end IS NOT NULL ORDER BY created_at, id`
	return r.queryMany(ctx, query)
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: query failed: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate failed: %w", err)
	}
	return out, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var status string
	if err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.ScheduledTime,
		&a.DurationMinutes,
		&status,
		&a.Reason,
		&a.ExamRoom,
		&a.WaitingStart,
		&a.WaitingEnd,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Status = Status(status)
	return &a, nil
}
