package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceColumns = `id, user_id, name, price, duration_min, is_public, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanService(row pgx.Row) (*Service, error) {
	var s Service

	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.Name,
		&s.Price,
		&s.DurationMin,
		&s.IsPublic,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *PgRepository) Create(ctx context.Context, s *Service) (*Service, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO services (id, user_id, name, price, duration_min, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING `+serviceColumns,
		id, s.OwnerID, s.Name, s.Price, s.DurationMin, s.IsPublic)

	return scanService(row)
}

func (r *PgRepository) Update(ctx context.Context, s *Service) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE services
		SET name = $3,
		    price = $4,
		    duration_min = $5,
		    is_public = $6,
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+serviceColumns,
		s.ID, s.OwnerID, s.Name, s.Price, s.DurationMin, s.IsPublic)

	return scanService(row)
}

func (r *PgRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM services
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	return scanService(row)
}

func (r *PgRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Service, error) {
	return r.query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
}

// ListPublic returns the services shown on the owner's public booking page.
func (r *PgRepository) ListPublic(ctx context.Context, ownerID uuid.UUID) ([]Service, error) {
	return r.query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE user_id = $1 AND is_public
		ORDER BY created_at ASC
	`, ownerID)
}

func (r *PgRepository) query(ctx context.Context, query string, args ...any) ([]Service, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
