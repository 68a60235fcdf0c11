package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_registration_number"}
	wrapped := fmt.Errorf("insert registration: %w", pgErr)

	assert.True(t, IsUniqueViolation(wrapped, "registration_number"))
	assert.True(t, IsUniqueViolation(wrapped, "UQ_REGISTRATION"))
	assert.True(t, IsUniqueViolation(wrapped, ""))
	assert.False(t, IsUniqueViolation(wrapped, "email"))
	assert.False(t, IsForeignKeyViolation(wrapped, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}

func TestKinds(t *testing.T) {
	err := Validation("national id checksum mismatch")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "checksum")

	cause := errors.New("dial tcp: refused")
	assert.ErrorIs(t, Unavailable(cause), ErrUnavailable)
	assert.ErrorIs(t, Unavailable(cause), cause)
	assert.NoError(t, Unavailable(nil))
}

func TestIsConnectionError(t *testing.T) {
	assert.True(t, IsConnectionError(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.False(t, IsConnectionError(errors.New("syntax error")))
	assert.False(t, IsConnectionError(nil))
}
