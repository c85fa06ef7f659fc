package errs

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapStoreError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantKind Kind
	}{
		{name: "nil_is_nil", err: nil, wantKind: ""},
		{name: "already_classified_passes_through", err: New(Validation, "bad input"), wantKind: Validation},
		{name: "unique_violation", err: &pgconn.PgError{Code: "23505", ConstraintName: "transactions_idempotency_key_key"}, wantKind: DuplicateTransaction},
		{name: "check_violation", err: &pgconn.PgError{Code: "23514", ConstraintName: "wallets_balance_floor"}, wantKind: ConstraintViolation},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, wantKind: DeadlockDetected},
		{name: "serialization_failure", err: &pgconn.PgError{Code: "40001"}, wantKind: SerializationFailure},
		{name: "unclassified", err: errors.New("boom"), wantKind: Internal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapStoreError(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Fatalf("want nil for nil input, got %+v", got)
				}
				return
			}

			if got.Kind != tt.wantKind {
				t.Fatalf("kind: want %s, got %s", tt.wantKind, got.Kind)
			}
		})
	}
}

func TestKindRetryable(t *testing.T) {
	t.Parallel()

	retryable := []Kind{DeadlockDetected, SerializationFailure}
	for _, k := range retryable {
		if !k.Retryable() {
			t.Fatalf("%s should be retryable", k)
		}
	}

	notRetryable := []Kind{Validation, NotFound, InsufficientBalance, DuplicateTransaction, ConstraintViolation, Internal}
	for _, k := range notRetryable {
		if k.Retryable() {
			t.Fatalf("%s should not be retryable", k)
		}
	}
}

func TestNewInsufficientBalance_CarriesFields(t *testing.T) {
	t.Parallel()

	err := NewInsufficientBalance("wallet-1", 500, 100)
	if err.Kind != InsufficientBalance {
		t.Fatalf("kind: want %s, got %s", InsufficientBalance, err.Kind)
	}
	if err.Fields["walletId"] != "wallet-1" {
		t.Fatalf("walletId field: got %v", err.Fields["walletId"])
	}
	if err.Fields["requested"] != int64(500) {
		t.Fatalf("requested field: got %v", err.Fields["requested"])
	}
	if err.Fields["available"] != int64(100) {
		t.Fatalf("available field: got %v", err.Fields["available"])
	}
}
