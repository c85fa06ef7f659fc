package wallet

import (
	"context"

	"github.com/ledgerwallet/walletcore/internal/domain"
)

// Purchase moves value from the user's wallet into Revenue for
// assetCode.
func (s *Service) Purchase(ctx context.Context, userID, assetCode string, amount int64, idempotencyKey *string, description string, metadata map[string]any) (TransferResult, error) {
	if verr := validateTransferInput(userID, assetCode, amount, idempotencyKey); verr != nil {
		return TransferResult{}, verr
	}

	return s.transfer(ctx, "purchase", domain.TxPurchase, userID, domain.RevenueAccountID, assetCode, amount, idempotencyKey, description, metadata)
}
