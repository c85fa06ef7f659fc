// Package storegw is the thin contract to the durable store named in
// spec.md §4.1 (C1): execute a parameterized statement, or run a
// function inside a transaction with commit/rollback guarantees. No
// component below the gateway opens its own transaction — the
// orchestrator is the sole transaction owner, and every operation of
// C2 through C5 takes the *sql.Tx it hands them as its parameter right
// after the context.
package storegw

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ledgerwallet/walletcore/internal/infra/pgutils"
)

type Gateway struct {
	db               *sql.DB
	acquireTimeout   time.Duration
	statementTimeout time.Duration
}

func New(db *sql.DB, acquireTimeout, statementTimeout time.Duration) *Gateway {
	return &Gateway{db: db, acquireTimeout: acquireTimeout, statementTimeout: statementTimeout}
}

// WithTransaction runs fn inside a single atomic unit of work. On
// normal return it commits; on any error it rolls back and returns the
// error wrapped with %w, so the caller's error mapper can still reach
// and classify the original error through errors.As.
func (g *Gateway) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	return pgutils.WithTx(ctx, g.db, g.acquireTimeout, g.statementTimeout, fn)
}

// Execute runs a single parameterized statement outside of any
// transaction, bounded by the gateway's statement timeout. Used by
// collaborators that don't need the full transfer transaction, such as
// the background idempotency sweeper.
func (g *Gateway) Execute(ctx context.Context, statement string, args ...any) (sql.Result, error) {
	execCtx, cancel := context.WithTimeout(ctx, g.statementTimeout)
	defer cancel()

	res, err := g.db.ExecContext(execCtx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("execute statement: %w", err)
	}

	return res, nil
}

// DB exposes the underlying pool for read-only queries that don't
// require transactional semantics (GetBalance, GetTransactions).
func (g *Gateway) DB() *sql.DB {
	return g.db
}
