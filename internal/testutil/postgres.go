// Package testutil starts throwaway databases for integration tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database/postgres"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/migrations"
)

const (
	pgUser     = "perfboard"
	pgPassword = "perfboard"
	pgDatabase = "perfboard_test"
)

// NewSQLite opens a migrated in-memory SQLite database that is closed when
// the test ends.
func NewSQLite(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()

	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: sqlite.MemoryPath})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := migrations.Run(ctx, conn); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}

// NewPostgres starts a PostgreSQL container, applies the migrations and
// returns a connection to it. The test is skipped in -short mode or when no
// container runtime is reachable.
func NewPostgres(t *testing.T) database.Connection {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     pgUser,
			"POSTGRES_PASSWORD": pgPassword,
			"POSTGRES_DB":       pgDatabase,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("PostgreSQL container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		pgUser, pgPassword, host, port.Port(), pgDatabase)

	conn, err := database.NewConnection(ctx, database.Config{Driver: database.DriverPostgres, URL: url})
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := migrations.Run(ctx, conn); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}
	return conn
}
