package expense

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

const columns = `id, user_id, payee, amount, date, status, category, payment_method, description, created_at, updated_at`

func (r *Repository) Insert(ctx context.Context, q domain.Querier, e *Expense) error {
	return q.QueryRow(ctx,
		`INSERT INTO expenses (user_id, payee, amount, date, status, category, payment_method, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		e.UserID, e.Payee, e.Amount, e.Date, e.Status, e.Category, e.PaymentMethod, e.Description,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, q domain.Querier, userID, id string) (*Expense, error) {
	var e Expense
	err := q.QueryRow(ctx,
		`SELECT `+columns+` FROM expenses WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&e.ID, &e.UserID, &e.Payee, &e.Amount, &e.Date, &e.Status,
		&e.Category, &e.PaymentMethod, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) ListByUser(ctx context.Context, q domain.Querier, userID string) ([]Expense, error) {
	rows, err := q.Query(ctx,
		`SELECT `+columns+` FROM expenses WHERE user_id = $1 ORDER BY date DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Expense, 0)
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Payee, &e.Amount, &e.Date, &e.Status,
			&e.Category, &e.PaymentMethod, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, q domain.Querier, e *Expense) error {
	ct, err := q.Exec(ctx,
		`UPDATE expenses
		 SET payee = $1, amount = $2, date = $3, status = $4, category = $5,
		     payment_method = $6, description = $7, updated_at = NOW()
		 WHERE id = $8 AND user_id = $9`,
		e.Payee, e.Amount, e.Date, e.Status, e.Category, e.PaymentMethod, e.Description, e.ID, e.UserID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, q domain.Querier, userID, id string) error {
	ct, err := q.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
