package reports

import (
	"context"
	"time"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

// Repo serves the dashboard aggregations. Everything here is a read-only
// projection; the only failure mode is the query itself.
type Repo struct {
	DB domain.Querier
}

type MonthlyRow struct {
	Year        int   `json:"year"`
	Month       int   `json:"month"`
	TotalAmount int64 `json:"total_amount"`
	Count       int64 `json:"count"`
}

type CategoryRow struct {
	Category    string `json:"category"`
	TotalAmount int64  `json:"total_amount"`
	Count       int64  `json:"count"`
}

type InvoiceStatsRow struct {
	Status      string `json:"status"`
	Count       int64  `json:"count"`
	TotalAmount int64  `json:"total_amount"`
}

type TaxStatsRow struct {
	Year        int      `json:"year"`
	TotalTax    int64    `json:"total_tax"`
	TotalIncome int64    `json:"total_income"`
	AverageRate *float64 `json:"average_rate"` // nil when income was zero
}

// IncomeByMonth sums income over the trailing 12 months grouped by
// (year, month), newest first.
func (r Repo) IncomeByMonth(ctx context.Context, userID string, now time.Time) ([]MonthlyRow, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT EXTRACT(YEAR FROM date)::int AS year,
		       EXTRACT(MONTH FROM date)::int AS month,
		       COALESCE(SUM(amount), 0)::bigint AS total_amount,
		       COUNT(*)::bigint AS count
		FROM incomes
		WHERE user_id = $1 AND date >= $2
		GROUP BY 1, 2
		ORDER BY 1 DESC, 2 DESC`,
		userID, now.AddDate(0, -12, 0),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MonthlyRow, 0)
	for rows.Next() {
		var m MonthlyRow
		if err := rows.Scan(&m.Year, &m.Month, &m.TotalAmount, &m.Count); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// IncomeByCategory sums income over the trailing 12 months grouped by
// category.
func (r Repo) IncomeByCategory(ctx context.Context, userID string, now time.Time) ([]CategoryRow, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT COALESCE(category, 'other') AS category,
		       COALESCE(SUM(amount), 0)::bigint AS total_amount,
		       COUNT(*)::bigint AS count
		FROM incomes
		WHERE user_id = $1 AND date >= $2
		GROUP BY 1
		ORDER BY 2 DESC`,
		userID, now.AddDate(0, -12, 0),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CategoryRow, 0)
	for rows.Next() {
		var c CategoryRow
		if err := rows.Scan(&c.Category, &c.TotalAmount, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// InvoiceStats groups the trailing 12 months of invoices by status.
func (r Repo) InvoiceStats(ctx context.Context, userID string, now time.Time) ([]InvoiceStatsRow, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT status,
		       COUNT(*)::bigint AS count,
		       COALESCE(SUM(total), 0)::bigint AS total_amount
		FROM invoices
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY status`,
		userID, now.AddDate(0, -12, 0),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]InvoiceStatsRow, 0)
	for rows.Next() {
		var s InvoiceStatsRow
		if err := rows.Scan(&s.Status, &s.Count, &s.TotalAmount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// TaxStats covers the trailing five tax years. The average effective rate is
// NULL for years with zero income rather than a division by zero.
func (r Repo) TaxStats(ctx context.Context, userID string, now time.Time) ([]TaxStatsRow, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT year,
		       COALESCE(SUM(total_tax), 0)::bigint AS total_tax,
		       COALESCE(SUM(total_income), 0)::bigint AS total_income,
		       AVG(CASE WHEN total_income > 0
		           THEN total_tax::numeric / total_income::numeric END)::float8 AS average_rate
		FROM taxes
		WHERE user_id = $1 AND year >= $2
		GROUP BY year
		ORDER BY year DESC`,
		userID, now.Year()-5,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TaxStatsRow, 0)
	for rows.Next() {
		var t TaxStatsRow
		if err := rows.Scan(&t.Year, &t.TotalTax, &t.TotalIncome, &t.AverageRate); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
