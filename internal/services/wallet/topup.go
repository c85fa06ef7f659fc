package wallet

import (
	"context"

	"github.com/ledgerwallet/walletcore/internal/domain"
)

// TopUp moves value from Treasury into the user's wallet for assetCode.
func (s *Service) TopUp(ctx context.Context, userID, assetCode string, amount int64, idempotencyKey *string, description string, metadata map[string]any) (TransferResult, error) {
	if verr := validateTransferInput(userID, assetCode, amount, idempotencyKey); verr != nil {
		return TransferResult{}, verr
	}

	return s.transfer(ctx, "topUp", domain.TxTopUp, domain.TreasuryAccountID, userID, assetCode, amount, idempotencyKey, description, metadata)
}
