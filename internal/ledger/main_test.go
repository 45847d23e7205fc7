package ledger

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := dockertest.NewPool("")
	if err != nil {
		logrus.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		logrus.Fatalf("Could not connect to Docker: %s", err)
	}

	resource := initPostgres(ctx, pool)

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		logrus.Errorf("Could not purge resource: %s", err.Error())
	}
	os.Exit(code)
}

func initPostgres(ctx context.Context, pool *dockertest.Pool) *dockertest.Resource {
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env:        []string{"POSTGRES_PASSWORD=password123"},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		logrus.Fatalf("Could not start resource: %s", err)
	}

	err = pool.Retry(func() error {
		hostPort := resource.GetHostPort("5432/tcp")
		testPool, err = pgxpool.New(ctx, fmt.Sprintf("postgresql://postgres:password123@%v/postgres", hostPort))
		if err != nil {
			return err
		}
		return testPool.Ping(ctx)
	})
	if err != nil {
		logrus.Fatalf("Could not connect to database: %s", err)
	}

	schema, err := os.ReadFile("../../migrations/migrations.sql")
	if err != nil {
		logrus.Fatalf("Could not read migrations: %s", err)
	}
	if _, err := testPool.Exec(ctx, string(schema)); err != nil {
		logrus.Fatalf("There are errors in migrations: %s", err)
	}

	return resource
}

func createTestUser(t *testing.T) string {
	t.Helper()
	var id string
	err := testPool.QueryRow(context.Background(),
		`INSERT INTO users (email, password_hash, full_name)
		 VALUES ($1, 'x', 'Test User')
		 RETURNING id::text`,
		uuid.NewString()+"@example.com",
	).Scan(&id)
	if err != nil {
		t.Fatalf("create test user: %s", err)
	}
	return id
}
