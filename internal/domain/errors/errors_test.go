package errors

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestBaseError_IsMatchesAfterWithDetails(t *testing.T) {
	err := ErrStoreUnavailable.WithDetails("connection refused")

	assert.True(t, pkgerrors.Is(err, ErrStoreUnavailable))
	assert.Equal(t, "connection refused", err.Details())
}

func TestBaseError_IsMatchesThroughWrapping(t *testing.T) {
	err := pkgerrors.Wrap(ErrAuthenticationFailed.WithDetails("i/o timeout"), "login lookup failed")

	assert.True(t, pkgerrors.Is(err, ErrAuthenticationFailed))
	assert.False(t, pkgerrors.Is(err, ErrStoreUnavailable))
}

func TestBaseError_IsDistinguishesCodes(t *testing.T) {
	assert.False(t, pkgerrors.Is(ErrTaxIDAlreadyRegistered, ErrEmailAlreadyRegistered))
	assert.False(t, pkgerrors.Is(ErrInvalidTaxID, pkgerrors.New("invalid tax identifier")))
}

func TestAppError_AsSurfacesDetailedCopy(t *testing.T) {
	wrapped := pkgerrors.Wrap(ErrStoreUnavailable.WithDetails("connection refused"), "failed to persist user")

	var appErr AppError
	assert.True(t, pkgerrors.As(wrapped, &appErr))
	assert.Equal(t, "STORE_UNAVAILABLE", appErr.ErrorCode())
	assert.Equal(t, "connection refused", appErr.Details())
}
