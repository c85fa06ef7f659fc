package wallet

import (
	"context"
	"fmt"

	"github.com/ledgerwallet/walletcore/internal/errs"
)

// GetBalance returns the user's wallet balances, without transactions
// or locks (spec.md §4.6). If assetCode is non-empty only that wallet
// is returned.
//
// Open question resolved in DESIGN.md: an unknown userID is NotFound;
// a known user with no matching wallet(s) gets an empty list when no
// assetCode filter was given (legitimate users may simply have no
// activity on any asset), but still NotFound when a specific assetCode
// was requested and no wallet for it exists.
func (s *Service) GetBalance(ctx context.Context, userID, assetCode string) ([]WalletBalance, error) {
	if userID == "" {
		return nil, errs.New(errs.Validation, "userId must not be empty")
	}

	var exists bool
	err := s.gateway.DB().QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return nil, errs.MapStoreError(fmt.Errorf("check account exists: %w", err))
	}
	if !exists {
		return nil, errs.Newf(errs.NotFound, "no account %q", userID)
	}

	query := `
		SELECT w.id, at.code, w.balance
		FROM wallets w
		JOIN asset_types at ON at.id = w.asset_type_id
		WHERE w.account_id = $1
	`
	args := []any{userID}
	if assetCode != "" {
		query += " AND at.code = $2"
		args = append(args, assetCode)
	}

	rows, err := s.gateway.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.MapStoreError(fmt.Errorf("query balances: %w", err))
	}
	defer rows.Close()

	balances := make([]WalletBalance, 0)
	for rows.Next() {
		var b WalletBalance
		if err = rows.Scan(&b.WalletID, &b.AssetCode, &b.Balance); err != nil {
			return nil, errs.MapStoreError(fmt.Errorf("scan balance: %w", err))
		}
		balances = append(balances, b)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.MapStoreError(fmt.Errorf("iterate balances: %w", err))
	}

	if assetCode != "" && len(balances) == 0 {
		return nil, errs.Newf(errs.NotFound, "no wallet for account %q asset %q", userID, assetCode)
	}

	return balances, nil
}
