package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/budgetflow/internal/db"
)

// FailingExecUoW runs each transaction against a DBTX whose writes fail on
// demand, so tests can check that a multi-write use case rolls back whole.
//
// When Table is set, the first ExecContext whose statement mentions Table
// returns Err. Otherwise the Nth ExecContext (counting from 1) does.
// Reads always pass through.
type FailingExecUoW struct {
	DB     *sql.DB
	Table  string
	FailOn int
	Err    error
}

func (u *FailingExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failingExec{DBTX: tx, uow: u}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failingExec struct {
	db.DBTX
	uow   *FailingExecUoW
	count int
	fired bool
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.count++
	if !f.fired && f.matches(query) {
		f.fired = true
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

func (f *failingExec) matches(query string) bool {
	if f.uow.Table != "" {
		return strings.Contains(query, f.uow.Table)
	}
	return f.count == f.uow.FailOn
}
