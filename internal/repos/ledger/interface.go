// Package ledger implements C5 (ledger writer) from spec.md §4.5: the
// atomic double-entry write that mutates two wallet balances and
// appends the transaction record plus its two ledger entries.
package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/ledgerwallet/walletcore/internal/domain"
)

// Input is the precondition set spec.md §4.5 requires: amount > 0,
// source != dest, both wallets already locked by C3 earlier in the
// same transaction and passed in via Locked.
type Input struct {
	SourceWalletID string
	DestWalletID   string
	AssetTypeID    int32
	Amount         int64
	Kind           domain.TransactionKind
	Description    string
	Metadata       map[string]any
	IdempotencyKey *string
	Locked         map[string]domain.Wallet
}

type Result struct {
	TransactionID       string
	Kind                domain.TransactionKind
	AssetTypeID         int32
	Amount              int64
	SourceWalletID      string
	SourceBalanceBefore int64
	SourceBalanceAfter  int64
	DestWalletID        string
	DestBalanceBefore   int64
	DestBalanceAfter    int64
	Description         string
	CreatedAt           time.Time
}

type Repository interface {
	ExecuteTransfer(ctx context.Context, tx *sql.Tx, in Input) (Result, error)
}
