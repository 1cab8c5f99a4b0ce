package appointment

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// exclusionViolation is the SQLSTATE raised when the no-overlap exclusion
// constraint on appointments rejects a write.
const exclusionViolation = "23P01"

const apptColumns = `id, user_id, service_id, client_name, client_phone,
		start_time, end_time, status, final_price, notes, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var serviceID *uuid.UUID
	var finalPrice *int
	var notes *string

	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&serviceID,
		&a.ClientName,
		&a.ClientPhone,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&finalPrice,
		&notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.ServiceID = serviceID
	a.FinalPrice = finalPrice
	a.Notes = notes
	return &a, nil
}

func (r *PgRepository) CountOverlapping(ctx context.Context, ownerID uuid.UUID, start, end time.Time, excludeID uuid.UUID, statuses []string) (int, error) {
	query := `
		SELECT count(*)
		FROM appointments
		WHERE user_id = $1
		  AND start_time < $3
		  AND end_time > $2
		  AND status = ANY($4)
	`
	args := []any{ownerID, start, end, statuses}

	if excludeID != uuid.Nil {
		query += ` AND id <> $5`
		args = append(args, excludeID)
	}

	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PgRepository) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments
			(id, user_id, service_id, client_name, client_phone,
			 start_time, end_time, status, final_price, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING `+apptColumns,
		id, appt.OwnerID, appt.ServiceID, appt.ClientName, appt.ClientPhone,
		appt.StartTime, appt.EndTime, appt.Status, appt.FinalPrice, appt.Notes)

	created, err := scanAppointment(row)
	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) Update(ctx context.Context, appt *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET service_id   = $3,
		    client_name  = $4,
		    client_phone = $5,
		    start_time   = $6,
		    end_time     = $7,
		    status       = $8,
		    final_price  = $9,
		    notes        = $10,
		    updated_at   = now()
		WHERE id = $1
		  AND user_id = $2
		RETURNING `+apptColumns,
		appt.ID, appt.OwnerID, appt.ServiceID, appt.ClientName, appt.ClientPhone,
		appt.StartTime, appt.EndTime, appt.Status, appt.FinalPrice, appt.Notes)

	updated, err := scanAppointment(row)
	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	return updated, nil
}

func (r *PgRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	return scanAppointment(row)
}

func (r *PgRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Appointment, error) {
	query := `
		SELECT ` + apptColumns + `
		FROM appointments
		WHERE user_id = $1`
	args := []any{ownerID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND start_time >= $` + strconv.Itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND start_time <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY start_time DESC`

	return r.queryAppointments(ctx, query, args...)
}

func (r *PgRepository) ListUpcoming(ctx context.Context, ownerID uuid.UUID, from time.Time, statuses []string) ([]Appointment, error) {
	return r.queryAppointments(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE user_id = $1
		  AND end_time > $2
		  AND status = ANY($3)
		ORDER BY start_time ASC
	`, ownerID, from, statuses)
}

func (r *PgRepository) queryAppointments(ctx context.Context, query string, args ...any) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == exclusionViolation
}
