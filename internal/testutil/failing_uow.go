package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/roaster/internal/db"
)

// FailOnNthExecUoW is a UnitOfWork whose FailOn-th write inside the
// transaction returns Err. Writes are counted from 1; reads are not
// counted. Used to prove multi-row writes roll back as a whole.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &countingTx{DBTX: tx, failOn: u.FailOn, err: u.Err}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// countingTx fails one ExecContext call.
type countingTx struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.writes++
	if c.writes == c.failOn {
		return nil, c.err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
