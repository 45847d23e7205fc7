package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/invoice"
)

func main() {
	backfill := flag.Bool("backfill-links", false, "link pre-existing invoices to entries by owner, name and amount")
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logrus.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logrus.WithError(err).Fatal("error opening database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("error pinging database")
	}

	sqlBytes, err := os.ReadFile("migrations/migrations.sql")
	if err != nil {
		logrus.WithError(err).Fatal("error reading migrations file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logrus.Info("applying migrations")
	if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
		logrus.WithError(err).Fatal("error applying migrations")
	}
	logrus.Info("migrations applied")

	if !*backfill {
		return
	}

	// One-time heuristic: invoices imported before the canonical source link
	// existed get matched to their entry by owner, name and amount. Ambiguous
	// rows stay unlinked.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logrus.WithError(err).Fatal("error creating pgx pool")
	}
	defer pool.Close()

	n, err := invoice.NewRepository().BackfillSourceLinks(ctx, pool)
	if err != nil {
		logrus.WithError(err).Fatal("error backfilling invoice links")
	}
	logrus.WithField("linked", n).Info("invoice links backfilled")
}
