package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	Pool *pgxpool.Pool
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{Pool: pool}
}

type latestUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type latestEntry struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"created_at"`
}

type OverviewResponse struct {
	UsersTotal      int64         `json:"users_total"`
	IncomesTotal    int64         `json:"incomes_total"`
	ExpensesTotal   int64         `json:"expenses_total"`
	InvoicesTotal   int64         `json:"invoices_total"`
	InvoicesOverdue int64         `json:"invoices_overdue"`
	TaxRecordsTotal int64         `json:"tax_records_total"`
	LatestUsers     []latestUser  `json:"latest_users"`
	LatestIncomes   []latestEntry `json:"latest_incomes"`
	LatestExpenses  []latestEntry `json:"latest_expenses"`
}

// Overview is the operator dashboard: collection counts plus the newest rows
// of each kind. Access is gated by the admin key middleware.
func (h *Handler) Overview(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var resp OverviewResponse

	counts := []struct {
		query string
		dst   *int64
	}{
		{`SELECT COUNT(*) FROM users`, &resp.UsersTotal},
		{`SELECT COUNT(*) FROM incomes`, &resp.IncomesTotal},
		{`SELECT COUNT(*) FROM expenses`, &resp.ExpensesTotal},
		{`SELECT COUNT(*) FROM invoices`, &resp.InvoicesTotal},
		{`SELECT COUNT(*) FROM invoices WHERE status = 'overdue'`, &resp.InvoicesOverdue},
		{`SELECT COUNT(*) FROM taxes`, &resp.TaxRecordsTotal},
	}
	for _, q := range counts {
		if err := h.Pool.QueryRow(ctx, q.query).Scan(q.dst); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed counts: "+err.Error())
		}
	}

	{
		rows, err := h.Pool.Query(ctx, `
			SELECT id::text, email, created_at::text
			FROM users
			ORDER BY created_at DESC
			LIMIT 20`)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed latest_users: "+err.Error())
		}
		defer rows.Close()

		for rows.Next() {
			var u latestUser
			if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed scan latest_users: "+err.Error())
			}
			resp.LatestUsers = append(resp.LatestUsers, u)
		}
		if err := rows.Err(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed latest_users rows: "+err.Error())
		}
	}

	for _, table := range []string{"incomes", "expenses"} {
		rows, err := h.Pool.Query(ctx, `
			SELECT id::text, user_id::text, amount, created_at::text
			FROM `+table+`
			ORDER BY created_at DESC
			LIMIT 20`)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed latest "+table+": "+err.Error())
		}
		defer rows.Close()

		var out []latestEntry
		for rows.Next() {
			var e latestEntry
			if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.CreatedAt); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed scan latest "+table+": "+err.Error())
			}
			out = append(out, e)
		}
		if err := rows.Err(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed latest "+table+" rows: "+err.Error())
		}

		if table == "incomes" {
			resp.LatestIncomes = out
		} else {
			resp.LatestExpenses = out
		}
	}

	return c.JSON(resp)
}
