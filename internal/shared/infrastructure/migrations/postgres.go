package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // database/sql driver used by golang-migrate
)

//go:embed postgres/*.sql
var postgresFS embed.FS

// Direction selects which way PostgreSQL migrations run.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunPostgresMigrations applies (or reverts) the embedded PostgreSQL
// migrations against databaseURL. An already current schema is not an error.
func RunPostgresMigrations(databaseURL string, direction Direction) error {
	if direction != Up && direction != Down {
		return fmt.Errorf("unknown migration direction %q", direction)
	}

	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer sqlDB.Close()

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	src, err := iofs.New(postgresFS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to load migration files: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if direction == Up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations %s: %w", direction, err)
	}

	return nil
}
