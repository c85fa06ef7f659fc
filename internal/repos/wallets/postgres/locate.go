package wallets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerwallet/walletcore/internal/domain"
	"github.com/ledgerwallet/walletcore/internal/errs"
)

// FindWallet returns the wallet for (accountID, assetCode), joined with
// its asset type. Grounded on the teacher's single-table GetBalance
// read, generalized to the two-table join the wallet/asset-type split
// requires.
func (r *walletsRepo) FindWallet(ctx context.Context, tx *sql.Tx, accountID, assetCode string) (domain.Wallet, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT w.id, w.account_id, w.asset_type_id, w.balance, w.allow_negative, w.version
		FROM wallets w
		JOIN asset_types at ON at.id = w.asset_type_id
		WHERE w.account_id = $1 AND at.code = $2
	`, accountID, assetCode)

	var w domain.Wallet
	err := row.Scan(&w.ID, &w.AccountID, &w.AssetTypeID, &w.Balance, &w.AllowNegative, &w.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Wallet{}, errs.Newf(errs.NotFound, "no wallet for account %q asset %q", accountID, assetCode)
		}

		return domain.Wallet{}, fmt.Errorf("find wallet: %w", err)
	}

	return w, nil
}
