// Package wallet implements C6 (transfer orchestrator) from
// spec.md §4.6: the public entry points TopUp, IssueBonus, Purchase,
// GetBalance and GetTransactions. It is the sole transaction owner in
// the core — every repo call below it takes the *sql.Tx this package
// opens via the store gateway (spec.md §4.1, "Design Notes").
package wallet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ledgerwallet/walletcore/internal/domain"
	"github.com/ledgerwallet/walletcore/internal/errs"
	"github.com/ledgerwallet/walletcore/internal/infra/metrics"
	"github.com/ledgerwallet/walletcore/internal/repos/idempotency"
	"github.com/ledgerwallet/walletcore/internal/repos/ledger"
	"github.com/ledgerwallet/walletcore/internal/repos/wallets"
	"github.com/ledgerwallet/walletcore/internal/storegw"
)

// TransferResult is the composed, caller-facing result of a transfer.
// It is also what gets JSON-marshalled into the idempotency cache, so
// a replayed request returns the same payload, except that Idempotent
// is set to true.
type TransferResult struct {
	TransactionID       string         `json:"transactionId"`
	Kind                string         `json:"kind"`
	AssetCode           string         `json:"assetCode"`
	Amount              int64          `json:"amount"`
	SourceWalletID      string         `json:"sourceWalletId"`
	SourceBalanceBefore int64          `json:"sourceBalanceBefore"`
	SourceBalanceAfter  int64          `json:"sourceBalanceAfter"`
	DestWalletID        string         `json:"destWalletId"`
	DestBalanceBefore   int64          `json:"destBalanceBefore"`
	DestBalanceAfter    int64          `json:"destBalanceAfter"`
	Description         string         `json:"description,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	Idempotent          bool           `json:"idempotent"`
}

// WalletBalance is one row of a GetBalance response.
type WalletBalance struct {
	WalletID  string `json:"walletId"`
	AssetCode string `json:"assetCode"`
	Balance   int64  `json:"balance"`
}

// TransactionHistoryEntry is one row of a GetTransactions response,
// joined with the ledger entry for the user's own wallet.
type TransactionHistoryEntry struct {
	TransactionID string          `json:"transactionId"`
	Kind          string          `json:"kind"`
	AssetCode     string          `json:"assetCode"`
	EntryType     string          `json:"entryType"`
	Amount        int64           `json:"amount"`
	BalanceBefore int64           `json:"balanceBefore"`
	BalanceAfter  int64           `json:"balanceAfter"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// HistoryPage bounds a GetTransactions query, per spec.md §4.6 and §6.
type HistoryPage struct {
	Limit  int
	Offset int
}

type Service struct {
	gateway          *storegw.Gateway
	wallets          wallets.Repository
	idempotency      idempotency.Repository
	ledger           ledger.Repository
	idempotencyTTL   time.Duration
	historyDefault   int
	historyMax       int
}

func New(
	gateway *storegw.Gateway,
	walletsRepo wallets.Repository,
	idempotencyRepo idempotency.Repository,
	ledgerRepo ledger.Repository,
	idempotencyTTL time.Duration,
	historyDefaultLimit, historyMaxLimit int,
) *Service {
	return &Service{
		gateway:        gateway,
		wallets:        walletsRepo,
		idempotency:    idempotencyRepo,
		ledger:         ledgerRepo,
		idempotencyTTL: idempotencyTTL,
		historyDefault: historyDefaultLimit,
		historyMax:     historyMaxLimit,
	}
}

// transfer implements the execution protocol of spec.md §4.6 step 1-5,
// shared by TopUp, IssueBonus and Purchase: they differ only in which
// account is the source and which is the destination.
func (s *Service) transfer(
	ctx context.Context,
	operation string,
	kind domain.TransactionKind,
	sourceAccountID, destAccountID, assetCode string,
	amount int64,
	idempotencyKey *string,
	description string,
	metadata map[string]any,
) (TransferResult, error) {
	start := time.Now()
	metrics.TransfersInFlight.Inc()
	defer metrics.TransfersInFlight.Dec()

	var result TransferResult

	err := s.gateway.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if idempotencyKey != nil {
			cached, lookupErr := s.idempotency.Lookup(ctx, tx, *idempotencyKey)
			if lookupErr != nil {
				return lookupErr
			}
			if cached != nil {
				if unmarshalErr := json.Unmarshal(cached.Response, &result); unmarshalErr != nil {
					return fmt.Errorf("unmarshal cached response: %w", unmarshalErr)
				}
				result.Idempotent = true
				return nil
			}
		}

		source, err := s.wallets.FindWallet(ctx, tx, sourceAccountID, assetCode)
		if err != nil {
			return err
		}
		dest, err := s.wallets.FindWallet(ctx, tx, destAccountID, assetCode)
		if err != nil {
			return err
		}

		locked, err := s.wallets.LockWallets(ctx, tx, []string{source.ID, dest.ID})
		if err != nil {
			return err
		}

		txResult, err := s.ledger.ExecuteTransfer(ctx, tx, ledger.Input{
			SourceWalletID: source.ID,
			DestWalletID:   dest.ID,
			AssetTypeID:    source.AssetTypeID,
			Amount:         amount,
			Kind:           kind,
			Description:    description,
			Metadata:       metadata,
			IdempotencyKey: idempotencyKey,
			Locked:         locked,
		})
		if err != nil {
			return err
		}

		result = TransferResult{
			TransactionID:       txResult.TransactionID,
			Kind:                string(txResult.Kind),
			AssetCode:           assetCode,
			Amount:              txResult.Amount,
			SourceWalletID:      txResult.SourceWalletID,
			SourceBalanceBefore: txResult.SourceBalanceBefore,
			SourceBalanceAfter:  txResult.SourceBalanceAfter,
			DestWalletID:        txResult.DestWalletID,
			DestBalanceBefore:   txResult.DestBalanceBefore,
			DestBalanceAfter:    txResult.DestBalanceAfter,
			Description:         txResult.Description,
			CreatedAt:           txResult.CreatedAt,
		}

		if idempotencyKey != nil {
			body, marshalErr := json.Marshal(result)
			if marshalErr != nil {
				return fmt.Errorf("marshal transfer result: %w", marshalErr)
			}

			if storeErr := s.idempotency.Store(ctx, tx, *idempotencyKey, body, http.StatusOK, s.idempotencyTTL); storeErr != nil {
				return storeErr
			}
		}

		return nil
	})
	if err != nil {
		mapped := errs.MapStoreError(err)

		// C7 two-phase duplicate-key recovery: the uniqueness collision
		// on transactions.idempotency_key means another caller committed
		// first. Re-read the cache in a fresh transaction and, if found,
		// return it as a successful idempotent replay (spec.md §4.7/§7).
		if mapped.Kind == errs.DuplicateTransaction && idempotencyKey != nil {
			if cached, recoverErr := s.lookupCached(ctx, *idempotencyKey); recoverErr == nil && cached != nil {
				metrics.ObserveOperation(operation, "idempotent_replay", time.Since(start).Seconds())
				return *cached, nil
			}
		}

		metrics.ObserveOperation(operation, string(mapped.Kind), time.Since(start).Seconds())

		return TransferResult{}, mapped
	}

	outcome := "completed"
	if result.Idempotent {
		outcome = "idempotent_replay"
	}
	metrics.ObserveOperation(operation, outcome, time.Since(start).Seconds())

	return result, nil
}

func (s *Service) lookupCached(ctx context.Context, key string) (*TransferResult, error) {
	var result *TransferResult

	err := s.gateway.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cached, err := s.idempotency.Lookup(ctx, tx, key)
		if err != nil {
			return err
		}
		if cached == nil {
			return nil
		}

		var r TransferResult
		if err = json.Unmarshal(cached.Response, &r); err != nil {
			return fmt.Errorf("unmarshal cached response: %w", err)
		}
		r.Idempotent = true
		result = &r

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
