// Package config defines the process-wide, immutable-after-load
// configuration tree, populated via pkg/envconf.Load. Every field
// carries the default from spec.md §6 via the `default` tag, so a
// deployment only needs to set PG_DSN to get a working configuration.
package config

import (
	"log/slog"
	"time"
)

type PostgresConfig struct {
	DSN                      string        `env:"PG_DSN"`
	ConnectionLimit          int           `env:"PG_CONNECTION_LIMIT"           default:"20"`
	ConnectionAcquireTimeout time.Duration `env:"PG_CONNECTION_ACQUIRE_TIMEOUT" default:"5s"`
	StatementTimeout         time.Duration `env:"PG_STATEMENT_TIMEOUT"          default:"10s"`
	IdleTimeout              time.Duration `env:"PG_IDLE_TIMEOUT"               default:"30s"`
}

type IdempotencyConfig struct {
	TTL           time.Duration `env:"IDEMPOTENCY_TTL"            default:"24h"`
	SweepInterval time.Duration `env:"IDEMPOTENCY_SWEEP_INTERVAL" default:"1h"`
}

type TransactionsConfig struct {
	HistoryDefaultLimit int `env:"TRANSACTIONS_HISTORY_DEFAULT_LIMIT" default:"20"`
	HistoryMaxLimit     int `env:"TRANSACTIONS_HISTORY_MAX_LIMIT"     default:"100"`
}

// AppConfig is the root configuration tree for cmd/api.
type AppConfig struct {
	Port            string        `env:"HTTP_PORT"        default:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL"    default:"INFO"`
	AppEnv          string        `env:"APP_ENV"          default:"PROD"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`

	Postgres     PostgresConfig
	Idempotency  IdempotencyConfig
	Transactions TransactionsConfig
}
