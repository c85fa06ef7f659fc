package wallet

import (
	"context"
	"fmt"

	"github.com/ledgerwallet/walletcore/internal/errs"
)

// GetTransactions returns ledger-joined transaction history for the
// user, newest first, bounded by the limit/offset rules of spec.md
// §4.6 and §6.
func (s *Service) GetTransactions(ctx context.Context, userID, assetCode string, page HistoryPage) ([]TransactionHistoryEntry, error) {
	if userID == "" {
		return nil, errs.New(errs.Validation, "userId must not be empty")
	}

	page = s.clampHistoryPage(page)

	query := `
		SELECT t.id, t.kind, at.code, le.entry_type, le.amount,
		       le.balance_before, le.balance_after, t.description, t.created_at
		FROM ledger_entries le
		JOIN transactions t ON t.id = le.transaction_id
		JOIN wallets w ON w.id = le.wallet_id
		JOIN asset_types at ON at.id = t.asset_type_id
		WHERE w.account_id = $1
	`
	args := []any{userID}
	if assetCode != "" {
		query += " AND at.code = $2"
		args = append(args, assetCode)
	}
	query += fmt.Sprintf(" ORDER BY t.created_at DESC, t.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := s.gateway.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.MapStoreError(fmt.Errorf("query transactions: %w", err))
	}
	defer rows.Close()

	entries := make([]TransactionHistoryEntry, 0)
	for rows.Next() {
		var e TransactionHistoryEntry
		if err = rows.Scan(&e.TransactionID, &e.Kind, &e.AssetCode, &e.EntryType, &e.Amount,
			&e.BalanceBefore, &e.BalanceAfter, &e.Description, &e.CreatedAt); err != nil {
			return nil, errs.MapStoreError(fmt.Errorf("scan transaction: %w", err))
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.MapStoreError(fmt.Errorf("iterate transactions: %w", err))
	}

	return entries, nil
}
