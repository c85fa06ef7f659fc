// Package wallets implements C2 (wallet locator) and C3 (lock manager)
// from spec.md §4.2/§4.3.
package wallets

import (
	"context"
	"database/sql"

	"github.com/ledgerwallet/walletcore/internal/domain"
)

type Repository interface {
	// FindWallet resolves (accountID, assetCode) to a wallet joined with
	// its asset type. No locking occurs here; it is a plain read used by
	// the orchestrator to collect wallet ids before lock acquisition.
	FindWallet(ctx context.Context, tx *sql.Tx, accountID, assetCode string) (domain.Wallet, error)

	// LockWallets acquires exclusive row locks on the given wallet ids,
	// in a deterministic global order, and returns their current state
	// keyed by id. See spec.md §4.3 for the sort-then-lock algorithm.
	LockWallets(ctx context.Context, tx *sql.Tx, walletIDs []string) (map[string]domain.Wallet, error)
}
