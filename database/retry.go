package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

const (
	// maxRetryAttempts bounds how often a serialization conflict is retried
	// before it is surfaced to the caller as a transient failure.
	maxRetryAttempts = 3

	retryBackoff = 25 * time.Millisecond
)

// postgres error codes for conflicts that are safe to retry
const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// IsSerializationError reports whether err is a transient conflict that a
// fresh transaction attempt may resolve.
func IsSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == serializationFailure || pgErr.Code == deadlockDetected
	}
	return false
}

// WithRetry runs fn, retrying a bounded number of times when it fails with a
// serialization or deadlock error. fn must be safe to re-run from scratch:
// callers wrap an entire unit of work, never individual statements.
func WithRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		err = fn()
		if err == nil || !IsSerializationError(err) {
			return err
		}

		log.WithFields(log.Fields{
			"attempt": attempt,
			"error":   err,
		}).Warn("Transaction serialization conflict, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return err
}
