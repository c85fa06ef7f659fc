package api

// transferRequest is the shared request body for topup/bonus/purchase.
type transferRequest struct {
	AssetCode      string         `json:"assetCode"`
	Amount         int64          `json:"amount"`
	IdempotencyKey *string        `json:"idempotencyKey,omitempty"`
	Description    string         `json:"description,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}
