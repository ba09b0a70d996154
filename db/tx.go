package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const maxTxRetries = 3

// ErrTxRetriesExhausted is returned when a transaction keeps losing to
// concurrent writers after maxTxRetries attempts.
var ErrTxRetriesExhausted = errors.New("transaction retries exhausted")

// WithTxRetry runs fn inside a transaction and transparently retries it when
// the commit loses a write conflict (postgres serialization_failure or
// deadlock_detected). Any other error rolls back and propagates immediately.
// fn must be safe to re-run from scratch.
func WithTxRetry(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			if isWriteConflict(err) {
				lastErr = err
				continue
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			if isWriteConflict(err) {
				lastErr = err
				continue
			}
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %v", ErrTxRetriesExhausted, lastErr)
}

func isWriteConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// 40001 serialization_failure, 40P01 deadlock_detected
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}
