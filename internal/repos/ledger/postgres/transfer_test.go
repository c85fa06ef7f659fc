package ledger

import (
	"database/sql"
	"testing"

	"github.com/ledgerwallet/walletcore/internal/domain"
	"github.com/ledgerwallet/walletcore/internal/infra/pgtestutil"
	"github.com/ledgerwallet/walletcore/internal/repos/ledger"
)

func TestLedger_ExecuteTransfer_ConservesValue(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	source, dest, assetTypeID := seedTwoWallets(db, t, 1000, 0)

	repo := New(db)
	ctx := t.Context()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()

	locked := map[string]domain.Wallet{
		source.ID: source,
		dest.ID:   dest,
	}

	result, err := repo.ExecuteTransfer(ctx, tx, ledger.Input{
		SourceWalletID: source.ID,
		DestWalletID:   dest.ID,
		AssetTypeID:    assetTypeID,
		Amount:         300,
		Kind:           domain.TxPurchase,
		Description:    "test transfer",
		Locked:         locked,
	})
	if err != nil {
		t.Fatalf("execute transfer: %v", err)
	}

	if result.SourceBalanceAfter != 700 {
		t.Fatalf("source balance after: want 700, got %d", result.SourceBalanceAfter)
	}
	if result.DestBalanceAfter != 300 {
		t.Fatalf("dest balance after: want 300, got %d", result.DestBalanceAfter)
	}

	var sourceRow, destRow int64
	if err := tx.QueryRow(`SELECT balance FROM wallets WHERE id = $1`, source.ID).Scan(&sourceRow); err != nil {
		t.Fatalf("read back source balance: %v", err)
	}
	if err := tx.QueryRow(`SELECT balance FROM wallets WHERE id = $1`, dest.ID).Scan(&destRow); err != nil {
		t.Fatalf("read back dest balance: %v", err)
	}
	if sourceRow+destRow != 1000 {
		t.Fatalf("conservation violated: source=%d dest=%d total=%d, want 1000", sourceRow, destRow, sourceRow+destRow)
	}

	var entryCount int
	if err := tx.QueryRow(`SELECT count(*) FROM ledger_entries WHERE transaction_id = $1`, result.TransactionID).Scan(&entryCount); err != nil {
		t.Fatalf("count ledger entries: %v", err)
	}
	if entryCount != 2 {
		t.Fatalf("want 2 ledger entries (debit+credit), got %d", entryCount)
	}
}

func TestLedger_ExecuteTransfer_InsufficientBalance(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	source, dest, assetTypeID := seedTwoWallets(db, t, 50, 0)

	repo := New(db)
	ctx := t.Context()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()

	locked := map[string]domain.Wallet{
		source.ID: source,
		dest.ID:   dest,
	}

	_, err = repo.ExecuteTransfer(ctx, tx, ledger.Input{
		SourceWalletID: source.ID,
		DestWalletID:   dest.ID,
		AssetTypeID:    assetTypeID,
		Amount:         100,
		Kind:           domain.TxPurchase,
		Locked:         locked,
	})
	if err == nil {
		t.Fatalf("expected an insufficient balance error")
	}
}

func seedTwoWallets(db *sql.DB, t *testing.T, sourceBalance, destBalance int64) (domain.Wallet, domain.Wallet, int32) {
	t.Helper()

	var assetTypeID int32
	if err := db.QueryRow(`SELECT id FROM asset_types WHERE code = 'GOLD_COINS'`).Scan(&assetTypeID); err != nil {
		t.Fatalf("lookup asset type: %v", err)
	}

	source := seedWallet(db, t, assetTypeID, sourceBalance, false)
	dest := seedWallet(db, t, assetTypeID, destBalance, false)

	return source, dest, assetTypeID
}

func seedWallet(db *sql.DB, t *testing.T, assetTypeID int32, balance int64, allowNegative bool) domain.Wallet {
	t.Helper()

	var accountID string
	if err := db.QueryRow(`INSERT INTO accounts (id, kind) VALUES (gen_random_uuid(), 'user') RETURNING id`).Scan(&accountID); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	w := domain.Wallet{AccountID: accountID, AssetTypeID: assetTypeID, Balance: balance, AllowNegative: allowNegative}
	err := db.QueryRow(`
		INSERT INTO wallets (id, account_id, asset_type_id, balance, allow_negative)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id
	`, accountID, assetTypeID, balance, allowNegative).Scan(&w.ID)
	if err != nil {
		t.Fatalf("seed wallet: %v", err)
	}

	return w
}
