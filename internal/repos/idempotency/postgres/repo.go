package idempotency

import "database/sql"

type idempotencyRepo struct{ db *sql.DB }

func New(db *sql.DB) *idempotencyRepo {
	return &idempotencyRepo{db: db}
}
