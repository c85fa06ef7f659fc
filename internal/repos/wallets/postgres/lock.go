package wallets

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/ledgerwallet/walletcore/internal/domain"
	"github.com/ledgerwallet/walletcore/internal/errs"
)

// LockWallets acquires exclusive row locks on walletIDs in ascending id
// order and returns their current state. Every caller locks the same
// set of wallets in the same global byte-order sequence, which is the
// classical prevention of circular-wait deadlocks (spec.md §4.3).
func (r *walletsRepo) LockWallets(ctx context.Context, tx *sql.Tx, walletIDs []string) (map[string]domain.Wallet, error) {
	ids := dedupeSorted(walletIDs)

	rows, err := tx.QueryContext(ctx, `
		SELECT id, account_id, asset_type_id, balance, allow_negative, version
		FROM wallets
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock wallets: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Wallet, len(ids))
	for rows.Next() {
		var w domain.Wallet
		err = rows.Scan(&w.ID, &w.AccountID, &w.AssetTypeID, &w.Balance, &w.AllowNegative, &w.Version)
		if err != nil {
			return nil, fmt.Errorf("scan locked wallet: %w", err)
		}

		result[w.ID] = w
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locked wallets: %w", err)
	}

	if len(result) != len(ids) {
		return nil, errs.Newf(errs.NotFound, "expected %d wallets, locked %d", len(ids), len(result))
	}

	return result, nil
}

func dedupeSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	sort.Strings(out)

	return out
}
