package summary

import (
	"context"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

type Repo struct {
	DB domain.Querier
}

type Summary struct {
	TotalIncome  int64 `json:"total_income"`
	TotalExpense int64 `json:"total_expense"`
	Net          int64 `json:"net"`
}

// GetByUser returns overall totals, optionally filtered to one YYYY-MM month.
func (r Repo) GetByUser(ctx context.Context, userID string, month string) (Summary, error) {
	var income int64
	var expense int64

	if month != "" {
		err := r.DB.QueryRow(ctx, `
			SELECT COALESCE(SUM(amount), 0)::bigint
			FROM incomes
			WHERE user_id = $1
			  AND to_char(date, 'YYYY-MM') = $2
		`, userID, month).Scan(&income)
		if err != nil {
			return Summary{}, err
		}

		err = r.DB.QueryRow(ctx, `
			SELECT COALESCE(SUM(amount), 0)::bigint
			FROM expenses
			WHERE user_id = $1
			  AND to_char(date, 'YYYY-MM') = $2
		`, userID, month).Scan(&expense)
		if err != nil {
			return Summary{}, err
		}
	} else {
		err := r.DB.QueryRow(ctx, `
			SELECT COALESCE(SUM(amount), 0)::bigint
			FROM incomes
			WHERE user_id = $1
		`, userID).Scan(&income)
		if err != nil {
			return Summary{}, err
		}

		err = r.DB.QueryRow(ctx, `
			SELECT COALESCE(SUM(amount), 0)::bigint
			FROM expenses
			WHERE user_id = $1
		`, userID).Scan(&expense)
		if err != nil {
			return Summary{}, err
		}
	}

	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income - expense,
	}, nil
}
