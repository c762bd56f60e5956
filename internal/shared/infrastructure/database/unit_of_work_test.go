package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	recordingExecutor
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.rolledBack = true; return nil }

type fakeConn struct {
	recordingExecutor
	txs []*fakeTx
}

func (c *fakeConn) BeginTx(context.Context) (Transaction, error) {
	tx := &fakeTx{}
	c.txs = append(c.txs, tx)
	return tx, nil
}
func (c *fakeConn) Close() error               { return nil }
func (c *fakeConn) Ping(context.Context) error { return nil }
func (c *fakeConn) Driver() Driver             { return DriverSQLite }

func TestUnitOfWork_CommitOwnedTransaction(t *testing.T) {
	conn := &fakeConn{}
	uow := NewUnitOfWork(conn)

	txCtx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, uow.Commit(txCtx))

	require.Len(t, conn.txs, 1)
	assert.True(t, conn.txs[0].committed)
}

func TestUnitOfWork_NestedDoesNotCommit(t *testing.T) {
	conn := &fakeConn{}
	uow := NewUnitOfWork(conn)

	outer, err := uow.Begin(context.Background())
	require.NoError(t, err)
	inner, err := uow.Begin(outer)
	require.NoError(t, err)

	require.NoError(t, uow.Commit(inner))
	require.Len(t, conn.txs, 1)
	assert.False(t, conn.txs[0].committed)

	require.NoError(t, uow.Rollback(outer))
	assert.True(t, conn.txs[0].rolledBack)
}

func TestUnitOfWork_NoTransaction(t *testing.T) {
	uow := NewUnitOfWork(&fakeConn{})

	assert.ErrorIs(t, uow.Commit(context.Background()), ErrNoTransaction)
	assert.ErrorIs(t, uow.Rollback(context.Background()), ErrNoTransaction)
}

func TestExecutorFromContext(t *testing.T) {
	conn := &fakeConn{}
	ctx := context.Background()

	assert.Same(t, Executor(conn), ExecutorFromContext(ctx, conn))

	tx := &fakeTx{}
	txCtx := WithTx(ctx, tx, true)
	assert.Same(t, Executor(tx), ExecutorFromContext(txCtx, conn))
}
