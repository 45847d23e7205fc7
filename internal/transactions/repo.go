package transactions

import (
	"context"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

// TxItem is one row of the unified dashboard feed: an income or expense
// entry reduced to a common shape.
type TxItem struct {
	Type      string `json:"type"` // "income" | "expense"
	ID        string `json:"id"`
	Title     string `json:"title"` // source or payee
	Amount    int64  `json:"amount"`
	Date      string `json:"date"` // YYYY-MM-DD
	CreatedAt string `json:"created_at"`
}

type Repo struct {
	DB domain.Querier
}

func NewRepo(db domain.Querier) *Repo {
	return &Repo{DB: db}
}

// ListLatest returns the newest entries of both kinds interleaved by date.
func (r *Repo) ListLatest(ctx context.Context, userID string, limit int) ([]TxItem, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.DB.Query(ctx, `
		SELECT 'income' AS type, id::text, source AS title, amount,
		       to_char(date, 'YYYY-MM-DD'), created_at::text
		FROM incomes
		WHERE user_id = $1
		UNION ALL
		SELECT 'expense' AS type, id::text, payee AS title, amount,
		       to_char(date, 'YYYY-MM-DD'), created_at::text
		FROM expenses
		WHERE user_id = $1
		ORDER BY 5 DESC, 6 DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TxItem, 0, limit)
	for rows.Next() {
		var t TxItem
		if err := rows.Scan(&t.Type, &t.ID, &t.Title, &t.Amount, &t.Date, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
