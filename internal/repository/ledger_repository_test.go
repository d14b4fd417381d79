package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/csn-group4/exam-registration/internal/model"
)

func TestClassifyRetryableCodes(t *testing.T) {
	for _, code := range []string{pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable} {
		err := classify(fmt.Errorf("lock exam row: %w", &pgconn.PgError{Code: code}))
		require.ErrorIs(t, err, model.ErrTransient, "code %s", code)
	}
}

func TestClassifyActivePairViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgUniqueViolation,
		ConstraintName: "idx_registrations_active_pair",
	}
	err := classify(fmt.Errorf("update exam reference: %w", pgErr))
	require.ErrorIs(t, err, model.ErrDuplicateRegistration)
}

func TestClassifyCodeCollisionIsTransient(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgUniqueViolation,
		ConstraintName: "registrations_confirmation_code_key",
	}
	err := classify(fmt.Errorf("insert registration: %w", pgErr))
	require.ErrorIs(t, err, model.ErrTransient)
}

func TestClassifyPassthrough(t *testing.T) {
	require.NoError(t, classify(nil))

	require.ErrorIs(t, classify(model.ErrLimitExceeded), model.ErrLimitExceeded)

	plain := errors.New("boom")
	require.Equal(t, plain, classify(plain))
}
