package pgutils

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// WithTx runs fn inside a transaction at Read Committed isolation.
// It commits if fn returns nil, otherwise it rolls back.
//
// acquireTimeout bounds how long WithTx waits for a free connection
// from db's pool before giving up; statementTimeout sets one deadline,
// counted from the start of the transaction, on the context passed to
// fn, so all statements issued inside it share that single deadline
// (it is not reset per statement). An acquire timeout comes back
// wrapped as "acquire connection: ..."; neither timeout is given an
// errs.Kind of its own, so errs.MapStoreError classifies both as
// Internal.
func WithTx(ctx context.Context, db *sql.DB, acquireTimeout, statementTimeout time.Duration, fn func(context.Context, *sql.Tx) error) error {
	acquireCtx, acquireCancel := context.WithTimeout(ctx, acquireTimeout)
	defer acquireCancel()

	conn, err := db.Conn(acquireCtx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	txCtx, txCancel := context.WithTimeout(ctx, statementTimeout)
	defer txCancel()

	tx, err := conn.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	err = fn(txCtx, tx)
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			return fmt.Errorf("rollback after fn error: %v (fn err: %w)", rbErr, err)
		}
		return fmt.Errorf("fn: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
