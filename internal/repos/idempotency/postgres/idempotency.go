package idempotency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerwallet/walletcore/internal/domain"
)

// Lookup runs inside the same transaction as the subsequent ledger
// write (see spec.md §4.4), so a caller that passes the check proceeds
// holding the wallet locks and commits the cached response together
// with the side effects.
func (r *idempotencyRepo) Lookup(ctx context.Context, tx *sql.Tx, key string) (*domain.IdempotencyRecord, error) {
	if key == "" {
		return nil, nil
	}

	row := tx.QueryRowContext(ctx, `
		SELECT key, response, status_code, created_at, expires_at
		FROM idempotency_records
		WHERE key = $1 AND expires_at > now()
	`, key)

	var rec domain.IdempotencyRecord
	err := row.Scan(&rec.Key, &rec.Response, &rec.StatusCode, &rec.CreatedAt, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("lookup idempotency record: %w", err)
	}

	return &rec, nil
}

// Store inserts the record, using the store's insert-if-absent
// primitive so a write-write race between two holders of the same key
// never errors here — the transactions.idempotency_key uniqueness
// constraint is what closes that race (spec.md §4.4, §9).
func (r *idempotencyRepo) Store(ctx context.Context, tx *sql.Tx, key string, response []byte, statusCode int, ttl time.Duration) error {
	if key == "" {
		return nil
	}

	now := time.Now().UTC()

	_, err := tx.ExecContext(ctx, `
		INSERT INTO idempotency_records (key, response, status_code, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO NOTHING
	`, key, response, statusCode, now, now.Add(ttl))
	if err != nil {
		return fmt.Errorf("store idempotency record: %w", err)
	}

	return nil
}
