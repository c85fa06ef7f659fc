// Package domain holds the plain data types shared by the wallet
// transaction engine: asset types, accounts, wallets, transactions and
// their ledger entries, and idempotency records. None of these types
// carry persistence-framework tags; mapping to rows happens in the
// postgres repo packages.
package domain

import "time"

// AccountKind distinguishes ordinary user accounts from the platform's
// own system accounts (Treasury, Revenue).
type AccountKind string

const (
	AccountUser   AccountKind = "user"
	AccountSystem AccountKind = "system"
)

// Well-known system account ids, fixed constants known to the core.
const (
	TreasuryAccountID = "00000000-0000-0000-0000-000000000001"
	RevenueAccountID  = "00000000-0000-0000-0000-000000000002"
)

type AssetType struct {
	ID       int32
	Code     string
	Name     string
	IsActive bool
}

type Account struct {
	ID       string
	Kind     AccountKind
	IsActive bool
}

type Wallet struct {
	ID            string
	AccountID     string
	AssetTypeID   int32
	Balance       int64
	AllowNegative bool
	Version       int64
}

type TransactionKind string

const (
	TxTopUp    TransactionKind = "top_up"
	TxBonus    TransactionKind = "bonus"
	TxPurchase TransactionKind = "purchase"
)

type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "pending"
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusFailed    TransactionStatus = "failed"
	TxStatusReversed  TransactionStatus = "reversed"
)

type Transaction struct {
	ID              string
	IdempotencyKey  *string
	Kind            TransactionKind
	Status          TransactionStatus
	SourceWalletID  string
	DestWalletID    string
	AssetTypeID     int32
	Amount          int64
	Description     string
	Metadata        map[string]any
	CreatedAt       time.Time
}

type LedgerEntryType string

const (
	EntryDebit  LedgerEntryType = "debit"
	EntryCredit LedgerEntryType = "credit"
)

type LedgerEntry struct {
	ID            string
	TransactionID string
	WalletID      string
	EntryType     LedgerEntryType
	Amount        int64
	BalanceBefore int64
	BalanceAfter  int64
	CreatedAt     time.Time
}

type IdempotencyRecord struct {
	Key        string
	Response   []byte
	StatusCode int
	CreatedAt  time.Time
	ExpiresAt  time.Time
}
