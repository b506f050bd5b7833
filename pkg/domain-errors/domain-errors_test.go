package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesExistingCode(t *testing.T) {
	inner := New(CodeForbidden, "territory mismatch")
	wrapped := Wrap(inner, CodeInternal, "deletion rejected")

	assert.True(t, HasCode(wrapped, CodeForbidden), "wrapping must not overwrite the original code")
	assert.Equal(t, "deletion rejected", wrapped.Error())
}

func TestWrapInfrastructureError(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := Wrap(cause, CodeUnavailable, "identity store unreachable")

	assert.True(t, HasCode(wrapped, CodeUnavailable))
	assert.ErrorIs(t, wrapped, cause)
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeProtected, "account is protected"))
	assert.True(t, errors.Is(err, &Error{Code: CodeProtected}))
	assert.False(t, errors.Is(err, &Error{Code: CodeNotFound}))
}

func TestErrorMessageFallsBackToCode(t *testing.T) {
	err := &Error{Code: CodeNotFound}
	assert.Equal(t, "not_found", err.Error())
}
