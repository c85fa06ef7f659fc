package e2etests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"
)

const (
	baseURL   = "http://localhost:8080"
	timeout   = 5 * time.Second
	waitReady = 20 * time.Second

	userOne = "11111111-1111-1111-1111-111111111111"
	userTwo = "22222222-2222-2222-2222-222222222222"
	assetGold = "GOLD_COINS"
)

var httpClient = &http.Client{Timeout: timeout}

type transferResponse struct {
	TransactionID       string `json:"transactionId"`
	SourceBalanceAfter  int64  `json:"sourceBalanceAfter"`
	DestBalanceAfter    int64  `json:"destBalanceAfter"`
	Idempotent          bool   `json:"idempotent"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestE2E_TopUpAndPurchaseFlow(t *testing.T) {
	waitUntilReady(t, userOne)

	var afterTopUp int64

	t.Run("topup_increases_balance", func(t *testing.T) {
		code, resp := postTransfer(t, userOne, "topup", assetGold, 1000, nil)
		if code != http.StatusOK {
			t.Fatalf("topup: want 200, got %d (%+v)", code, resp)
		}
		afterTopUp = resp.DestBalanceAfter

		got := getBalance(t, userOne, assetGold)
		if got != afterTopUp {
			t.Fatalf("balance after topup: want %d, got %d", afterTopUp, got)
		}
	})

	t.Run("purchase_decreases_balance", func(t *testing.T) {
		code, resp := postTransfer(t, userOne, "purchase", assetGold, 300, nil)
		if code != http.StatusOK {
			t.Fatalf("purchase: want 200, got %d (%+v)", code, resp)
		}

		want := afterTopUp - 300
		got := getBalance(t, userOne, assetGold)
		if got != want {
			t.Fatalf("balance after purchase: want %d, got %d", want, got)
		}
	})

	t.Run("idempotent_replay_does_not_double_apply", func(t *testing.T) {
		key := fmt.Sprintf("e2e-replay-%d", time.Now().UnixNano())

		code1, resp1 := postTransfer(t, userOne, "topup", assetGold, 50, &key)
		if code1 != http.StatusOK {
			t.Fatalf("first topup: want 200, got %d", code1)
		}

		code2, resp2 := postTransfer(t, userOne, "topup", assetGold, 50, &key)
		if code2 != http.StatusOK {
			t.Fatalf("replayed topup: want 200, got %d", code2)
		}

		if resp1.TransactionID != resp2.TransactionID {
			t.Fatalf("replay returned a different transaction: %s vs %s", resp1.TransactionID, resp2.TransactionID)
		}
		if !resp2.Idempotent {
			t.Fatalf("replay response should be flagged idempotent")
		}
		if resp1.DestBalanceAfter != resp2.DestBalanceAfter {
			t.Fatalf("replay must not move the balance again: %d vs %d", resp1.DestBalanceAfter, resp2.DestBalanceAfter)
		}
	})

	t.Run("transactions_history_lists_recent_entries", func(t *testing.T) {
		entries := getTransactions(t, userOne, assetGold)
		if len(entries) == 0 {
			t.Fatalf("expected at least one transaction for %s", userOne)
		}
	})
}

func TestE2E_InsufficientBalanceAndValidation(t *testing.T) {
	waitUntilReady(t, userTwo)

	t.Run("purchase_without_funds_is_rejected", func(t *testing.T) {
		code, body := postTransferRaw(t, userTwo, "purchase", assetGold, 1, nil)
		if code != http.StatusConflict {
			t.Fatalf("insufficient balance: want 409, got %d (%s)", code, body)
		}

		var e errorResponse
		if err := json.Unmarshal(body, &e); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if e.Code != "insufficient_balance" {
			t.Fatalf("want insufficient_balance code, got %q", e.Code)
		}
	})

	t.Run("zero_amount_is_rejected", func(t *testing.T) {
		code, _ := postTransferRaw(t, userTwo, "topup", assetGold, 0, nil)
		if code != http.StatusBadRequest {
			t.Fatalf("zero amount: want 400, got %d", code)
		}
	})

	t.Run("unknown_asset_code_is_not_found", func(t *testing.T) {
		code, _ := postTransferRaw(t, userTwo, "topup", "NOT_A_REAL_ASSET", 10, nil)
		if code != http.StatusNotFound {
			t.Fatalf("unknown asset: want 404, got %d", code)
		}
	})
}

/* -------------------- helpers -------------------- */

func postTransfer(t *testing.T, userID, op, assetCode string, amount int64, idempotencyKey *string) (int, transferResponse) {
	t.Helper()

	code, body := postTransferRaw(t, userID, op, assetCode, amount, idempotencyKey)

	var resp transferResponse
	if code == http.StatusOK {
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("decode transfer response: %v (%s)", err, body)
		}
	}

	return code, resp
}

func postTransferRaw(t *testing.T, userID, op, assetCode string, amount int64, idempotencyKey *string) (int, []byte) {
	t.Helper()

	payload := map[string]any{
		"assetCode": assetCode,
		"amount":    amount,
	}
	if idempotencyKey != nil {
		payload["idempotencyKey"] = *idempotencyKey
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	u := fmt.Sprintf("%s/v1/wallets/%s/%s", baseURL, userID, op)
	req, err := http.NewRequest(http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}

func getBalance(t *testing.T, userID, assetCode string) int64 {
	t.Helper()

	u := fmt.Sprintf("%s/v1/wallets/%s/balance?assetCode=%s", baseURL, userID, assetCode)
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s: want 200, got %d (%s)", u, resp.StatusCode, string(b))
	}

	var payload struct {
		Balances []struct {
			AssetCode string `json:"assetCode"`
			Balance   int64  `json:"balance"`
		} `json:"balances"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(payload.Balances) != 1 {
		t.Fatalf("expected exactly one balance row for assetCode filter, got %d", len(payload.Balances))
	}

	return payload.Balances[0].Balance
}

func getTransactions(t *testing.T, userID, assetCode string) []json.RawMessage {
	t.Helper()

	u := fmt.Sprintf("%s/v1/wallets/%s/transactions?assetCode=%s", baseURL, userID, assetCode)
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s: want 200, got %d (%s)", u, resp.StatusCode, string(b))
	}

	var payload struct {
		Transactions []json.RawMessage `json:"transactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}

	return payload.Transactions
}

// waitUntilReady waits until GET /v1/wallets/{userID}/balance responds or times out.
func waitUntilReady(t *testing.T, userID string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), waitReady)
	defer cancel()

	u := fmt.Sprintf("%s/v1/wallets/%s/balance", baseURL, userID)

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("service not ready at %s within %s", u, waitReady)
		case <-tick.C:
			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			resp, err := httpClient.Do(req)
			if err != nil {
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
	}
}
