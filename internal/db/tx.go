package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// WithTx runs fn inside a transaction. The transaction is committed only when
// fn returns nil; on any error (or panic) the deferred rollback undoes every
// statement fn issued. Rollback after a successful commit is a no-op.
func (d *DB) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
