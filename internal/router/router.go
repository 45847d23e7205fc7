package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/admin"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/expense"
	handlers "github.com/p-v-srinag/Tax-Expense-Management-System/internal/http"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/income"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/invoice"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/ledger"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/reports"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/summary"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/tax"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/transactions"
)

type Router struct {
	AuthHandler         *handlers.AuthHandler
	IncomeHandler       *income.Handler
	ExpenseHandler      *expense.Handler
	InvoiceHandler      *invoice.Handler
	LedgerHandler       *ledger.Handler
	TaxHandler          *tax.Handler
	ReportsHandler      *reports.Handler
	SummaryHandler      *summary.Handler
	TransactionsHandler *transactions.Handler
	AdminHandler        *admin.Handler

	AuthMW  fiber.Handler
	AdminMW fiber.Handler
	WriteMW fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	authRL := RateLimitAuth()
	app.Post("/api/auth/signup", authRL, r.AuthHandler.Signup)
	app.Post("/api/auth/login", authRL, r.AuthHandler.Login)
	app.Get("/api/me", r.AuthMW, r.AuthHandler.Me)

	api := app.Group("/api", r.AuthMW)

	// Reads go straight to the feature packages; every write that can touch
	// a linked record goes through the ledger coordinator.
	api.Get("/incomes", r.IncomeHandler.List)
	api.Get("/incomes/:id", r.IncomeHandler.Get)
	api.Post("/incomes", r.WriteMW, r.LedgerHandler.CreateIncome)
	api.Put("/incomes/:id", r.WriteMW, r.LedgerHandler.UpdateIncome)
	api.Delete("/incomes/:id", r.WriteMW, r.LedgerHandler.DeleteIncome)

	api.Get("/expenses", r.ExpenseHandler.List)
	api.Get("/expenses/:id", r.ExpenseHandler.Get)
	api.Post("/expenses", r.WriteMW, r.LedgerHandler.CreateExpense)
	api.Put("/expenses/:id", r.WriteMW, r.LedgerHandler.UpdateExpense)
	api.Delete("/expenses/:id", r.WriteMW, r.LedgerHandler.DeleteExpense)

	api.Get("/invoices", r.InvoiceHandler.List)
	api.Get("/invoices/:id", r.InvoiceHandler.Get)
	api.Get("/invoices/:id/pdf", r.InvoiceHandler.PDF)
	api.Post("/invoices", r.WriteMW, r.LedgerHandler.CreateInvoice)
	api.Put("/invoices/:id", r.WriteMW, r.LedgerHandler.UpdateInvoice)
	api.Delete("/invoices/:id", r.WriteMW, r.LedgerHandler.DeleteInvoice)

	api.Post("/taxes/calculate", r.WriteMW, r.TaxHandler.Calculate)
	api.Get("/taxes", r.TaxHandler.History)
	api.Get("/taxes/year/:year", r.TaxHandler.GetByYear)
	api.Patch("/taxes/:id/status", r.WriteMW, r.TaxHandler.UpdateStatus)
	api.Post("/taxes/:id/deductions", r.WriteMW, r.TaxHandler.AddDeduction)
	api.Post("/taxes/:id/payments", r.WriteMW, r.TaxHandler.AddPayment)

	api.Get("/reports/income-by-month", r.ReportsHandler.IncomeByMonth)
	api.Get("/reports/income-by-category", r.ReportsHandler.IncomeByCategory)
	api.Get("/reports/invoice-stats", r.ReportsHandler.InvoiceStats)
	api.Get("/reports/tax-stats", r.ReportsHandler.TaxStats)

	api.Get("/summary", r.SummaryHandler.GetSummary)
	api.Get("/transactions", r.TransactionsHandler.List)

	if r.AdminHandler != nil && r.AdminMW != nil {
		app.Get("/api/admin/overview", r.AdminMW, r.AdminHandler.Overview)
	}
}
