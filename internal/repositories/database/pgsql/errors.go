package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories translate.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgLockNotAvailable     = "55P03"
	pgDeadlockDetected     = "40P01"
	pgSerializationFailure = "40001"
)

// mapPgError translates driver errors into application errors.
// Lock waits that time out, deadlocks and serialization failures become ErrConcurrency
// so the caller can retry the whole operation.
func mapPgError(err error, msg string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFailure:
			return apperrors.NewConcurrencyError(msg, err)
		case pgUniqueViolation:
			return apperrors.NewConflictError(msg, err)
		case pgForeignKeyViolation:
			return apperrors.NewAppError(http.StatusConflict, msg, fmt.Errorf("%w: %w", apperrors.ErrReferential, err))
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return apperrors.NewConcurrencyError(msg, err)
	}

	return apperrors.NewInternalServerError(msg, err)
}
