package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerwallet/walletcore/internal/domain"
	"github.com/ledgerwallet/walletcore/internal/errs"
	"github.com/ledgerwallet/walletcore/internal/repos/ledger"
)

var _ ledger.Repository = (*ledgerRepo)(nil)

// ExecuteTransfer implements spec.md §4.5 steps 1-8. Both wallets must
// already be present in in.Locked (step 1: "re-read from the lock
// result, do not re-query").
func (r *ledgerRepo) ExecuteTransfer(ctx context.Context, tx *sql.Tx, in ledger.Input) (ledger.Result, error) {
	source, ok := in.Locked[in.SourceWalletID]
	if !ok {
		return ledger.Result{}, fmt.Errorf("executeTransfer: source wallet %q not in locked set", in.SourceWalletID)
	}
	dest, ok := in.Locked[in.DestWalletID]
	if !ok {
		return ledger.Result{}, fmt.Errorf("executeTransfer: dest wallet %q not in locked set", in.DestWalletID)
	}

	if !source.AllowNegative && source.Balance < in.Amount {
		return ledger.Result{}, errs.NewInsufficientBalance(source.ID, in.Amount, source.Balance)
	}

	sourceAfter := source.Balance - in.Amount
	destAfter := dest.Balance + in.Amount

	// Step 4: update source wallet. Fixed before destination for
	// deterministic traces; both are already locked so order doesn't
	// affect correctness.
	_, err := tx.ExecContext(ctx, `
		UPDATE wallets SET balance = $2, version = version + 1 WHERE id = $1
	`, source.ID, sourceAfter)
	if err != nil {
		return ledger.Result{}, fmt.Errorf("update source wallet: %w", err)
	}

	// Step 5: update destination wallet.
	_, err = tx.ExecContext(ctx, `
		UPDATE wallets SET balance = $2, version = version + 1 WHERE id = $1
	`, dest.ID, destAfter)
	if err != nil {
		return ledger.Result{}, fmt.Errorf("update dest wallet: %w", err)
	}

	metadataJSON, err := json.Marshal(in.Metadata)
	if err != nil {
		return ledger.Result{}, fmt.Errorf("marshal metadata: %w", err)
	}

	txID := uuid.NewString()
	createdAt := time.Now().UTC()

	// Step 6: insert the Transaction row.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (
			id, idempotency_key, kind, status,
			source_wallet_id, dest_wallet_id, asset_type_id,
			amount, description, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, txID, in.IdempotencyKey, in.Kind, domain.TxStatusCompleted,
		source.ID, dest.ID, in.AssetTypeID,
		in.Amount, in.Description, metadataJSON, createdAt)
	if err != nil {
		return ledger.Result{}, fmt.Errorf("insert transaction: %w", err)
	}

	// Step 7: insert the paired Debit/Credit ledger entries.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (
			id, transaction_id, wallet_id, entry_type, amount,
			balance_before, balance_after, created_at
		) VALUES
			($1, $2, $3, 'debit', $4, $5, $6, $7),
			($8, $2, $9, 'credit', $4, $10, $11, $7)
	`,
		uuid.NewString(), txID, source.ID, in.Amount, source.Balance, sourceAfter, createdAt,
		uuid.NewString(), dest.ID, dest.Balance, destAfter,
	)
	if err != nil {
		return ledger.Result{}, fmt.Errorf("insert ledger entries: %w", err)
	}

	// Step 8: composed result.
	return ledger.Result{
		TransactionID:       txID,
		Kind:                in.Kind,
		AssetTypeID:         in.AssetTypeID,
		Amount:              in.Amount,
		SourceWalletID:      source.ID,
		SourceBalanceBefore: source.Balance,
		SourceBalanceAfter:  sourceAfter,
		DestWalletID:        dest.ID,
		DestBalanceBefore:   dest.Balance,
		DestBalanceAfter:    destAfter,
		Description:         in.Description,
		CreatedAt:           createdAt,
	}, nil
}
