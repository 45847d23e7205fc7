package main

import (
	"context"
	"errors"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/admin"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/auth"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/config"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/expense"
	apphttp "github.com/p-v-srinag/Tax-Expense-Management-System/internal/http"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/income"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/invoice"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/ledger"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/reports"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/router"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/summary"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/tax"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/taxcalc"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/transactions"
)

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		logrus.WithError(err).Fatal("failed to parse config")
	}

	setupLogger(cfg)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create pgx pool")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to ping database")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(router.CorsMiddleware(cfg.CorsOrigin))
	app.Use(requestLogger())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	secret := []byte(cfg.JWTSecret)

	incomeRepo := income.NewRepository()
	expenseRepo := expense.NewRepository()
	invoiceRepo := invoice.NewRepository()
	taxRepo := tax.NewRepository()

	coord := ledger.NewCoordinator(pool, incomeRepo, expenseRepo, invoiceRepo)
	taxSvc := tax.NewService(pool, incomeRepo, taxRepo, taxcalc.FilingBrackets())

	r := &router.Router{
		AuthHandler:         apphttp.NewAuthHandler(pool, secret),
		IncomeHandler:       income.NewHandler(pool, incomeRepo),
		ExpenseHandler:      expense.NewHandler(pool, expenseRepo),
		InvoiceHandler:      invoice.NewHandler(pool, invoiceRepo),
		LedgerHandler:       ledger.NewHandler(coord),
		TaxHandler:          tax.NewHandler(taxSvc),
		ReportsHandler:      reports.NewHandler(reports.Repo{DB: pool}),
		SummaryHandler:      &summary.Handler{Repo: summary.Repo{DB: pool}},
		TransactionsHandler: transactions.NewHandler(transactions.NewRepo(pool)),
		AdminHandler:        admin.NewHandler(pool),
		AuthMW:              auth.Middleware(secret),
		AdminMW:             admin.RequireAPIKey(cfg.AdminKey),
		WriteMW:             router.RateLimitWrite(cfg.RateLimit.Max, cfg.RateLimit.WindowSeconds),
	}
	r.RegisterRoutes(app)

	logrus.WithField("port", cfg.Port).Info("listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func setupLogger(cfg config.Config) {
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	if cfg.Env != "dev" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

// errorHandler maps the shared error taxonomy onto HTTP statuses so handlers
// can return domain errors unwrapped.
func errorHandler(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	if errors.Is(err, domain.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict"})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logrus.WithFields(logrus.Fields{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(start).String(),
		}).Info("request")
		return err
	}
}
