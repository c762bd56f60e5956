package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// SQLiteSteps lists the embedded SQLite up-migrations in version order.
func SQLiteSteps() ([]string, error) {
	steps, err := fs.Glob(sqliteFS, "sqlite/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(steps)
	for i, s := range steps {
		steps[i] = path.Base(s)
	}
	return steps, nil
}

// RunSQLiteMigrations applies every SQLite up-migration. The scripts only
// use CREATE ... IF NOT EXISTS, so local mode runs them on every start.
func RunSQLiteMigrations(ctx context.Context, exec database.Executor) error {
	steps, err := SQLiteSteps()
	if err != nil {
		return fmt.Errorf("list sqlite migrations: %w", err)
	}
	for _, step := range steps {
		script, err := sqliteFS.ReadFile("sqlite/" + step)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", step, err)
		}
		if _, err := exec.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("apply migration %s: %w", step, err)
		}
	}
	return nil
}
