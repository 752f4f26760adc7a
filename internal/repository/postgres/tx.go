package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventportals/internal/domain"
)

// Querier is the subset of *sql.DB and *sql.Tx the repositories query
// through, so the same query code runs inside and outside a transaction.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Postgres error codes translated to domain sentinels.
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqUniqueViolation      = "23505"
)

// mapConflict translates Postgres write-conflict errors into
// domain.ErrConcurrencyConflict so the service layer can retry.
func mapConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqSerializationFailure, pqDeadlockDetected:
			return domain.ErrConcurrencyConflict
		}
	}
	return err
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation, optionally on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != pqUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// runTx executes fn inside a transaction and rolls back entirely when fn
// fails, so no partial writes are ever visible. Commit and statement errors
// pass through mapConflict.
func runTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return mapConflict(err)
	}
	if err := tx.Commit(); err != nil {
		return mapConflict(err)
	}
	return nil
}
