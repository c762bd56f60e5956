package database

import "context"

type txKey struct{}

// txScope is the transaction carried in a context. Only the scope that
// began the transaction may finish it.
type txScope struct {
	tx    Transaction
	owner bool
}

// WithTx returns ctx carrying tx. owner marks the scope responsible for
// committing or rolling back.
func WithTx(ctx context.Context, tx Transaction, owner bool) context.Context {
	return context.WithValue(ctx, txKey{}, txScope{tx: tx, owner: owner})
}

func scopeFrom(ctx context.Context) (txScope, bool) {
	s, ok := ctx.Value(txKey{}).(txScope)
	return s, ok && s.tx != nil
}

// ExecutorFromContext returns the transaction in ctx, or conn when there is
// none, with placeholders rebound for conn's driver.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if s, ok := scopeFrom(ctx); ok {
		return Rebound(s.tx, conn.Driver())
	}
	return Rebound(conn, conn.Driver())
}

// UnitOfWork implements application.UnitOfWork on a Connection. A command
// that begins inside another command's unit joins its transaction.
type UnitOfWork struct {
	conn Connection
}

func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if s, ok := scopeFrom(ctx); ok {
		return WithTx(ctx, s.tx, false), nil
	}
	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return WithTx(ctx, tx, true), nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	return u.finish(ctx, Transaction.Commit)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	return u.finish(ctx, Transaction.Rollback)
}

func (u *UnitOfWork) finish(ctx context.Context, end func(Transaction, context.Context) error) error {
	s, ok := scopeFrom(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !s.owner {
		return nil
	}
	return end(s.tx, ctx)
}
