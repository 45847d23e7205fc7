package income

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

const columns = `id, user_id, source, amount, date, category, description, created_at, updated_at`

func (r *Repository) Insert(ctx context.Context, q domain.Querier, inc *Income) error {
	return q.QueryRow(ctx,
		`INSERT INTO incomes (user_id, source, amount, date, category, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		inc.UserID, inc.Source, inc.Amount, inc.Date, inc.Category, inc.Description,
	).Scan(&inc.ID, &inc.CreatedAt, &inc.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, q domain.Querier, userID, id string) (*Income, error) {
	var inc Income
	err := q.QueryRow(ctx,
		`SELECT `+columns+` FROM incomes WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&inc.ID, &inc.UserID, &inc.Source, &inc.Amount, &inc.Date,
		&inc.Category, &inc.Description, &inc.CreatedAt, &inc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inc, nil
}

func (r *Repository) ListByUser(ctx context.Context, q domain.Querier, userID string) ([]Income, error) {
	rows, err := q.Query(ctx,
		`SELECT `+columns+` FROM incomes WHERE user_id = $1 ORDER BY date DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Income, 0)
	for rows.Next() {
		var inc Income
		if err := rows.Scan(&inc.ID, &inc.UserID, &inc.Source, &inc.Amount, &inc.Date,
			&inc.Category, &inc.Description, &inc.CreatedAt, &inc.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, q domain.Querier, inc *Income) error {
	ct, err := q.Exec(ctx,
		`UPDATE incomes
		 SET source = $1, amount = $2, date = $3, category = $4, description = $5, updated_at = NOW()
		 WHERE id = $6 AND user_id = $7`,
		inc.Source, inc.Amount, inc.Date, inc.Category, inc.Description, inc.ID, inc.UserID,
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
	ct, err := q.Exec(ctx, `DELETE FROM incomes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SumForPeriod totals income amounts with date in [from, to) for one owner.
func (r *Repository) SumForPeriod(ctx context.Context, q domain.Querier, userID string, from, to time.Time) (int64, error) {
	var total int64
	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::bigint
		 FROM incomes
		 WHERE user_id = $1 AND date >= $2 AND date < $3`,
		userID, from, to,
	).Scan(&total)
	return total, err
}
