package pgutils

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver, registers as "pgx"
)

// PoolLimits bounds the fixed-size connection pool backing every
// WithTransaction call. See SPEC_FULL §5 and spec.md §6.
type PoolLimits struct {
	MaxOpenConns    int
	ConnMaxIdleTime time.Duration
}

func OpenDB(ctx context.Context, dsn string, limits PoolLimits) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}

	db.SetMaxOpenConns(limits.MaxOpenConns)
	db.SetMaxIdleConns(limits.MaxOpenConns)
	db.SetConnMaxIdleTime(limits.ConnMaxIdleTime)

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
