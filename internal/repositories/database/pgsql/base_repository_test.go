package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	validation := apperrors.NewValidationError("amount must be greater than zero")

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperrors.ErrNotFound},
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolation}, apperrors.ErrReferentialIntegrity},
		{"unique", &pgconn.PgError{Code: uniqueViolation}, apperrors.ErrDuplicate},
		{"check constraint", &pgconn.PgError{Code: "23514"}, apperrors.ErrStorage},
		{"connection", errors.New("connection refused"), apperrors.ErrStorage},
		{"already mapped", validation, apperrors.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := wrapError(tc.err, "account acc-a")
			assert.ErrorIs(t, got, tc.want)
		})
	}

	assert.NoError(t, wrapError(nil, "unused"))
	assert.Same(t, validation, wrapError(validation, "unused"), "taxonomy errors pass through untouched")
}

func TestWrapError_UniqueKeepsDriverCause(t *testing.T) {
	pgErr := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "accounts_pkey"}

	err := wrapError(pgErr, "failed to save account")

	var cause *pgconn.PgError
	assert.ErrorAs(t, err, &cause)
	assert.Equal(t, "accounts_pkey", cause.ConstraintName)
}

func TestExpectOneRow(t *testing.T) {
	assert.NoError(t, expectOneRow(pgconn.NewCommandTag("UPDATE 1"), "account acc-a not found"))

	err := expectOneRow(pgconn.NewCommandTag("DELETE 0"), "account acc-a not found")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
