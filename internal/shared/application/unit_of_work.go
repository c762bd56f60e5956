package application

import (
	"context"
	"errors"
	"fmt"
)

// UnitOfWork scopes a command's writes to one transaction. Begin returns
// a context that repositories use to find the open transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// WithUnitOfWork runs fn inside a transaction and commits when fn
// succeeds. A failing or panicking fn rolls the transaction back; a
// rollback failure is joined to fn's error.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn func(ctx context.Context) error) (err error) {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = uow.Rollback(txCtx)
			panic(p)
		}
		if rbErr := uow.Rollback(txCtx); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if err := fn(txCtx); err != nil {
		return err
	}
	committed = true
	return uow.Commit(txCtx)
}

// WithUnitOfWorkResult is WithUnitOfWork for functions that produce a
// value. The zero value of T is returned whenever the unit of work fails.
func WithUnitOfWorkResult[T any](ctx context.Context, uow UnitOfWork, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := WithUnitOfWork(ctx, uow, func(txCtx context.Context) error {
		var err error
		result, err = fn(txCtx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
