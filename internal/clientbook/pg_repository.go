package clientbook

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const clientColumns = `id, user_id, name, phone, notes, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	var notes *string

	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Phone,
		&notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	c.Notes = notes
	return &c, nil
}

func (r *PgRepository) Create(ctx context.Context, c *Client) (*Client, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO clients (id, user_id, name, phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING `+clientColumns,
		id, c.OwnerID, c.Name, c.Phone, c.Notes)

	return scanClient(row)
}

func (r *PgRepository) Update(ctx context.Context, c *Client) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE clients
		SET name = $3,
		    phone = $4,
		    notes = $5,
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+clientColumns,
		c.ID, c.OwnerID, c.Name, c.Phone, c.Notes)

	return scanClient(row)
}

func (r *PgRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM clients
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *PgRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	return scanClient(row)
}

func (r *PgRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
