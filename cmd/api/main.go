package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ledgerwallet/walletcore/internal/api"
	"github.com/ledgerwallet/walletcore/internal/config"
	"github.com/ledgerwallet/walletcore/internal/infra/logging"
	"github.com/ledgerwallet/walletcore/internal/infra/pgutils"
	pgidempotency "github.com/ledgerwallet/walletcore/internal/repos/idempotency/postgres"
	pgledger "github.com/ledgerwallet/walletcore/internal/repos/ledger/postgres"
	pgwallets "github.com/ledgerwallet/walletcore/internal/repos/wallets/postgres"
	"github.com/ledgerwallet/walletcore/internal/services/sweeper"
	"github.com/ledgerwallet/walletcore/internal/services/wallet"
	"github.com/ledgerwallet/walletcore/internal/storegw"
	"github.com/ledgerwallet/walletcore/pkg/envconf"
	"github.com/ledgerwallet/walletcore/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(config.AppConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres.DSN, pgutils.PoolLimits{
		MaxOpenConns:    cfg.Postgres.ConnectionLimit,
		ConnMaxIdleTime: cfg.Postgres.IdleTimeout,
	})
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	shutdownqueue.Add(func(context.Context) error {
		slog.Info("closing database pool")
		return db.Close()
	})

	gateway := storegw.New(db, cfg.Postgres.ConnectionAcquireTimeout, cfg.Postgres.StatementTimeout)

	walletSvc := wallet.New(
		gateway,
		pgwallets.New(db),
		pgidempotency.New(db),
		pgledger.New(db),
		cfg.Idempotency.TTL,
		cfg.Transactions.HistoryDefaultLimit,
		cfg.Transactions.HistoryMaxLimit,
	)

	// --- Background sweeper ---
	sweep := sweeper.New(gateway, cfg.Idempotency.SweepInterval)
	go sweep.Run(ctx)
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("stopping idempotency sweeper")
		return sweep.Stop(c)
	})

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, walletSvc)

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("shutting down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
