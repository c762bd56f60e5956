package migrations

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database"
)

type urlProvider interface {
	URL() string
}

// Run brings the schema of conn up to date using the runner for its driver.
func Run(ctx context.Context, conn database.Connection) error {
	switch conn.Driver() {
	case database.DriverSQLite:
		return RunSQLiteMigrations(ctx, conn)
	case database.DriverPostgres:
		p, ok := conn.(urlProvider)
		if !ok {
			return fmt.Errorf("postgres connection does not expose its URL")
		}
		return RunPostgresMigrations(p.URL(), Up)
	default:
		return fmt.Errorf("unsupported database driver: %s", conn.Driver())
	}
}
