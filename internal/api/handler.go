package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerwallet/walletcore/internal/errs"
	"github.com/ledgerwallet/walletcore/internal/services/wallet"
)

// HandlerProvider wraps a *wallet.Service and exposes HTTP handlers.
type HandlerProvider struct {
	svc *wallet.Service
}

// NewHandler returns a new Handler provider.
func NewHandler(svc *wallet.Service) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

// kindToStatus maps an errs.Kind to an HTTP status, per SPEC_FULL §4.8.
func kindToStatus(kind errs.Kind) int {
	switch kind {
	case errs.Validation:
		return http.StatusBadRequest
	case errs.NotFound:
		return http.StatusNotFound
	case errs.InsufficientBalance, errs.DuplicateTransaction:
		return http.StatusConflict
	case errs.DeadlockDetected, errs.SerializationFailure:
		return http.StatusServiceUnavailable
	case errs.ConstraintViolation, errs.Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps a classified core error onto the wire
// envelope of spec.md §7: { code, message, ...contextFields }.
func writeServiceError(w http.ResponseWriter, err error) {
	e, ok := errs.As(err)
	if !ok {
		e = errs.Newf(errs.Internal, "%v", err)
	}

	payload := map[string]any{
		"code":    e.Kind,
		"message": e.Message,
	}
	for k, v := range e.Fields {
		payload[k] = v
	}
	if e.Kind.Retryable() {
		payload["retryable"] = true
	}

	writeJSON(w, kindToStatus(e.Kind), payload)
}

func parseUserID(r *http.Request) (string, error) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		return "", errors.New("missing userId")
	}

	return userID, nil
}

func decodeTransferRequest(w http.ResponseWriter, r *http.Request) (transferRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	var req transferRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(&req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeServiceError(w, errs.New(errs.Validation, "empty body"))
			return transferRequest{}, false
		}

		writeServiceError(w, errs.Newf(errs.Validation, "invalid JSON: %v", err))
		return transferRequest{}, false
	}

	return req, true
}

// --- Handlers ---

func (h *HandlerProvider) TopUpHandler(w http.ResponseWriter, r *http.Request) {
	h.handleTransfer(w, r, h.svc.TopUp)
}

func (h *HandlerProvider) IssueBonusHandler(w http.ResponseWriter, r *http.Request) {
	h.handleTransfer(w, r, h.svc.IssueBonus)
}

func (h *HandlerProvider) PurchaseHandler(w http.ResponseWriter, r *http.Request) {
	h.handleTransfer(w, r, h.svc.Purchase)
}

type transferOp func(ctx context.Context, userID, assetCode string, amount int64, idempotencyKey *string, description string, metadata map[string]any) (wallet.TransferResult, error)

func (h *HandlerProvider) handleTransfer(w http.ResponseWriter, r *http.Request, op transferOp) {
	userID, err := parseUserID(r)
	if err != nil {
		writeServiceError(w, errs.New(errs.Validation, "invalid userId in path"))
		return
	}

	req, ok := decodeTransferRequest(w, r)
	if !ok {
		return
	}

	result, err := op(r.Context(), userID, req.AssetCode, req.Amount, req.IdempotencyKey, req.Description, req.Metadata)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeServiceError(w, errs.New(errs.Validation, "invalid userId in path"))
		return
	}

	assetCode := r.URL.Query().Get("assetCode")

	balances, err := h.svc.GetBalance(r.Context(), userID, assetCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"userId": userID, "balances": balances})
}

func (h *HandlerProvider) GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeServiceError(w, errs.New(errs.Validation, "invalid userId in path"))
		return
	}

	assetCode := r.URL.Query().Get("assetCode")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.svc.GetTransactions(r.Context(), userID, assetCode, wallet.HistoryPage{Limit: limit, Offset: offset})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"userId": userID, "transactions": entries})
}
