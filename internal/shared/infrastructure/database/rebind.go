package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Repositories write every query with '?' placeholders. The executor
// returned by ExecutorFromContext rewrites them for the connection's
// driver, so a single query string serves SQLite and PostgreSQL.

// Rebind rewrites '?' placeholders into the driver's bind style.
func Rebind(driver Driver, query string) string {
	return sqlx.Rebind(driver.BindType(), query)
}

// In expands slice arguments of an IN (?) clause and rebinds the
// result for the driver.
func In(driver Driver, query string, args ...any) (string, []any, error) {
	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return Rebind(driver, expanded), expandedArgs, nil
}

type reboundExecutor struct {
	exec   Executor
	driver Driver
}

// Rebound wraps an executor so that queries are rebound before execution.
func Rebound(exec Executor, driver Driver) Executor {
	if driver != DriverPostgres {
		return exec
	}
	return &reboundExecutor{exec: exec, driver: driver}
}

func (e *reboundExecutor) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	return e.exec.Exec(ctx, Rebind(e.driver, query), args...)
}

func (e *reboundExecutor) QueryRow(ctx context.Context, query string, args ...any) Row {
	return e.exec.QueryRow(ctx, Rebind(e.driver, query), args...)
}

func (e *reboundExecutor) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return e.exec.Query(ctx, Rebind(e.driver, query), args...)
}
