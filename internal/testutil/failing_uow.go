package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/jmoiron/sqlx"
	"github.com/nodusapp/nodus/internal/db"
)

// FailOnNthExecUoW injects Err on the FailOn-th write of a transaction, so
// tests can check that a failed session or ledger write leaves no trace.
// When Table is set only writes whose SQL names that table are counted.
// Reads always pass through.
type FailOnNthExecUoW struct {
	DB     *sqlx.DB
	FailOn int32
	Table  string
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("opening test transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, failOn: u.FailOn, table: u.Table, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	table  string
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.table == "" || strings.Contains(query, f.table) {
		if f.count.Add(1) == f.failOn {
			return nil, f.err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
