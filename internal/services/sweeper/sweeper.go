// Package sweeper implements C12, the background purge of expired
// idempotency records spec.md §4.4 allows as an external collaborator:
// "records older than 24h are logically absent; a background sweeper
// (outside the core) may delete them."
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/ledgerwallet/walletcore/internal/infra/metrics"
	"github.com/ledgerwallet/walletcore/internal/storegw"
)

type Sweeper struct {
	gateway  *storegw.Gateway
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func New(gateway *storegw.Gateway, interval time.Duration) *Sweeper {
	return &Sweeper{
		gateway:  gateway,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run ticks every interval, deleting expired idempotency_records rows
// outside of any transfer transaction, until Stop is called.
func (s *Sweeper) Run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			if err := s.sweepOnce(ctx); err != nil {
				slog.Error("idempotency sweep failed", "error", err)
			}
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) error {
	res, err := s.gateway.Execute(ctx, `DELETE FROM idempotency_records WHERE expires_at < now()`)
	if err != nil {
		return fmt.Errorf("sweep idempotency records: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected > 0 {
		metrics.IdempotencyRecordsSwept.Add(float64(affected))
		slog.Info("swept expired idempotency records", "count", affected)
	}

	return nil
}

// Stop signals Run to return and waits for it to finish, aggregating
// any shutdown-path errors with go-multierror the way a multi-stage
// cleanup reports partial failure.
func (s *Sweeper) Stop(ctx context.Context) error {
	close(s.stop)

	var merr *multierror.Error

	select {
	case <-s.done:
	case <-ctx.Done():
		merr = multierror.Append(merr, fmt.Errorf("sweeper stop: %w", ctx.Err()))
	}

	return merr.ErrorOrNil()
}
