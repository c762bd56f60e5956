package database

import "context"

// Row is satisfied by *sql.Row and pgx.Row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is satisfied by *sql.Rows; the pgx adapter wraps pgx.Rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result is satisfied by sql.Result; the pgx adapter wraps the command tag.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs SQL. Repositories obtain one from ExecutorFromContext and
// never care whether it is a pool or a transaction.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that must be committed or rolled back.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is an open task store.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Ping(ctx context.Context) error
	Close() error
	Driver() Driver
}
