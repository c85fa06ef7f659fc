// Package errs defines the stable error taxonomy surfaced across the
// wallet transaction engine's boundary. Every orchestrator entry point
// either returns a success payload or a *Error of one of the Kinds
// below; raw store errors never cross that boundary unclassified.
package errs

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type Kind string

const (
	Validation            Kind = "validation"
	NotFound              Kind = "not_found"
	InsufficientBalance   Kind = "insufficient_balance"
	DuplicateTransaction  Kind = "duplicate_transaction"
	ConstraintViolation   Kind = "constraint_violation"
	DeadlockDetected      Kind = "deadlock_detected"
	SerializationFailure  Kind = "serialization_failure"
	Internal              Kind = "internal"
)

// Retryable reports whether a caller may safely retry an operation that
// failed with this kind.
func (k Kind) Retryable() bool {
	return k == DeadlockDetected || k == SerializationFailure
}

// Error is the concrete type carried across the core's boundary.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithField returns a copy of e with the given context field attached.
// InsufficientBalance uses this to carry walletId/requested/available.
func (e *Error) WithField(key string, value any) *Error {
	fields := make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields[key] = value
	return &Error{Kind: e.Kind, Message: e.Message, Fields: fields}
}

func NewInsufficientBalance(walletID string, requested, available int64) *Error {
	return New(InsufficientBalance, "source wallet balance would go below its floor").
		WithField("walletId", walletID).
		WithField("requested", requested).
		WithField("available", available)
}

// As reports whether err (or something it wraps) is an *Error, and
// returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err if it is (or wraps) an *Error,
// otherwise Internal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Internal
}

// Postgres error codes this core classifies. See SPEC_FULL §4.
const (
	pgUniqueViolation       = "23505"
	pgCheckViolation        = "23514"
	pgDeadlockDetected      = "40P01"
	pgSerializationFailure  = "40001"
)

// MapStoreError classifies a raw store-level error into the taxonomy.
// It returns nil only for a nil err; any other unrecognized error
// becomes Internal.
func MapStoreError(err error) *Error {
	if err == nil {
		return nil
	}

	if e, ok := As(err); ok {
		return e
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Newf(DuplicateTransaction, "unique constraint violated: %s", pgErr.ConstraintName)
		case pgCheckViolation:
			return Newf(ConstraintViolation, "check constraint violated: %s", pgErr.ConstraintName)
		case pgDeadlockDetected:
			return New(DeadlockDetected, "deadlock detected, transaction aborted")
		case pgSerializationFailure:
			return New(SerializationFailure, "serialization failure under concurrent modification")
		}
	}

	return Newf(Internal, "unclassified store error: %v", err)
}
