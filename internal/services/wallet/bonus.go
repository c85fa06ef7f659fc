package wallet

import (
	"context"

	"github.com/ledgerwallet/walletcore/internal/domain"
)

// IssueBonus moves value from Treasury into the user's wallet for
// assetCode. Distinct from TopUp only in the Transaction.kind it
// records — both use the same source/destination pair.
func (s *Service) IssueBonus(ctx context.Context, userID, assetCode string, amount int64, idempotencyKey *string, description string, metadata map[string]any) (TransferResult, error) {
	if verr := validateTransferInput(userID, assetCode, amount, idempotencyKey); verr != nil {
		return TransferResult{}, verr
	}

	return s.transfer(ctx, "issueBonus", domain.TxBonus, domain.TreasuryAccountID, userID, assetCode, amount, idempotencyKey, description, metadata)
}
