// Package apperror classifies failures into the kinds the HTTP layer renders.
package apperror

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrValidation marks malformed input. Recovered locally, never retried.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a lookup with no matching record.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a write that lost against a concurrent or prior write.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable marks an unreachable database, cache or identity store.
	ErrUnavailable = errors.New("remote unavailable")
)

// Validation builds a validation error carrying a user-facing message.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Unavailable wraps err so that errors.Is(err, ErrUnavailable) holds.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// IsUniqueViolation checks if the error is a PostgreSQL unique constraint violation
// on a constraint whose name contains constraintName ("" matches any).
func IsUniqueViolation(err error, constraintName string) bool {
	return hasPgCode(err, "23505", constraintName)
}

// IsForeignKeyViolation checks if the error is a PostgreSQL foreign key violation.
func IsForeignKeyViolation(err error, constraintName string) bool {
	return hasPgCode(err, "23503", constraintName)
}

func hasPgCode(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraintName == "" || strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
}

// IsConnectionError reports transport-level failures talking to a backing store.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded)
}
