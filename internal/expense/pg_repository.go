package expense

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanExpense(row pgx.Row) (*Expense, error) {
	var e Expense

	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.Amount,
		&e.Description,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}

	return &e, nil
}

func (r *PgRepository) Create(ctx context.Context, e *Expense) (*Expense, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (id, user_id, amount, description, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, user_id, amount, description, created_at
	`, id, e.OwnerID, e.Amount, e.Description)

	return scanExpense(row)
}

func (r *PgRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM expenses
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

func (r *PgRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Expense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, amount, description, created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
