package wallet

import "github.com/ledgerwallet/walletcore/internal/errs"

const maxIdempotencyKeyLength = 255

// validateTransferInput enforces the preconditions of spec.md §4.6.
func validateTransferInput(userID, assetCode string, amount int64, idempotencyKey *string) *errs.Error {
	if userID == "" {
		return errs.New(errs.Validation, "userId must not be empty")
	}
	if assetCode == "" {
		return errs.New(errs.Validation, "assetCode must not be empty")
	}
	if amount <= 0 {
		return errs.New(errs.Validation, "amount must be a strictly positive integer")
	}
	if idempotencyKey != nil && len(*idempotencyKey) > maxIdempotencyKeyLength {
		return errs.Newf(errs.Validation, "idempotencyKey must be at most %d bytes", maxIdempotencyKeyLength)
	}

	return nil
}

// clampHistoryPage applies the default/max bounds of spec.md §4.6 and
// §6: limit in [1, historyMax], defaulting to historyDefault; offset
// >= 0.
func (s *Service) clampHistoryPage(page HistoryPage) HistoryPage {
	limit := page.Limit
	if limit <= 0 {
		limit = s.historyDefault
	}
	if limit > s.historyMax {
		limit = s.historyMax
	}

	offset := page.Offset
	if offset < 0 {
		offset = 0
	}

	return HistoryPage{Limit: limit, Offset: offset}
}
