package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/budgetflow/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) (*db.SQLiteUnitOfWork, func(id string) bool) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	exists := func(id string) bool {
		var n int
		require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM actors WHERE id = ?`, id).Scan(&n))
		return n == 1
	}
	return db.NewSQLiteUnitOfWork(database), exists
}

func insertActor(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO actors (id, name, role, created_at) VALUES (?, ?, 'reviewer', '2025-01-01T00:00:00Z')`, id, id)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, exists := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertActor(ctx, tx, "a1")
	})
	require.NoError(t, err)
	assert.True(t, exists("a1"), "row should exist after commit")
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, exists := openTestUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertActor(ctx, tx, "a2"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, exists("a2"), "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, exists := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertActor(ctx, tx, "a3")
			panic("boom")
		})
	})
	assert.False(t, exists("a3"), "row should not exist after panic rollback")
}

func TestWithinTx_SecondWriteFailureUndoesFirst(t *testing.T) {
	uow, exists := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertActor(ctx, tx, "a4"); err != nil {
			return err
		}
		return insertActor(ctx, tx, "a4")
	})
	require.Error(t, err)
	assert.False(t, exists("a4"))
}

type codedErr int

func (e codedErr) Error() string { return fmt.Sprintf("sqlite code %d", int(e)) }
func (e codedErr) Code() int     { return int(e) }

func TestIsBusy(t *testing.T) {
	assert.True(t, db.IsBusy(codedErr(5)))
	assert.True(t, db.IsBusy(fmt.Errorf("wrapped: %w", codedErr(517))), "SQLITE_BUSY_SNAPSHOT")
	assert.True(t, db.IsBusy(codedErr(6)))
	assert.False(t, db.IsBusy(codedErr(19)), "constraint")
	assert.False(t, db.IsBusy(errors.New("plain")))
}

func TestWithinTx_RetriesBusyThenSucceeds(t *testing.T) {
	uow, exists := openTestUoW(t)

	calls := 0
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		calls++
		if err := insertActor(ctx, tx, "a5"); err != nil {
			return err
		}
		if calls < 3 {
			return codedErr(5)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, exists("a5"))
}

func TestWithinTx_GivesUpAfterRetries(t *testing.T) {
	uow, _ := openTestUoW(t)
	uow.WithBusyRetries(1)

	calls := 0
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		calls++
		return codedErr(5)
	})
	assert.True(t, db.IsBusy(err))
	assert.Equal(t, 2, calls)
}

func TestWithinTx_DoesNotRetryOtherErrors(t *testing.T) {
	uow, _ := openTestUoW(t)

	calls := 0
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		calls++
		return errors.New("nope")
	})
	assert.Equal(t, 1, calls)
}
