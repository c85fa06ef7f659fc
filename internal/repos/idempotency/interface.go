// Package idempotency implements C4 (idempotency cache) from
// spec.md §4.4.
package idempotency

import (
	"context"
	"database/sql"
	"time"

	"github.com/ledgerwallet/walletcore/internal/domain"
)

type Repository interface {
	// Lookup returns the stored record if key is non-empty, exists, and
	// has not expired; otherwise it returns (nil, nil).
	Lookup(ctx context.Context, tx *sql.Tx, key string) (*domain.IdempotencyRecord, error)

	// Store inserts the record. On a key collision it is a silent
	// no-op, per spec.md §4.4.
	Store(ctx context.Context, tx *sql.Tx, key string, response []byte, statusCode int, ttl time.Duration) error
}
