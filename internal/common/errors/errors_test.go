package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorDetails(t *testing.T) {
	err := NewValidation(
		FieldError{Field: "recipient.email", Message: "required"},
		FieldError{Field: "channel", Message: "must be email or messaging"},
	)

	assert.True(t, err.Has("channel"))
	assert.True(t, err.Has("recipient.email"))
	assert.False(t, err.Has("subject"))
	// Sorted by field path.
	assert.Equal(t, "channel", err.Details[0].Field)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestKindMapping(t *testing.T) {
	tests := []struct {
		err    error
		kind   Kind
		status int
	}{
		{NewValidation(FieldError{Field: "x", Message: "required"}), KindValidation, http.StatusUnprocessableEntity},
		{NewNotFound("template", "welcome/en/email"), KindNotFound, http.StatusNotFound},
		{NewConflict("template", "duplicate tuple", nil), KindConflict, http.StatusConflict},
		{NewProviderDispatch("ses", errors.New("throttled")), KindProviderDispatch, http.StatusBadGateway},
		{errors.New("plain"), Kind(""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind, KindOf(tt.err))
		assert.Equal(t, tt.status, HTTPStatus(tt.err))
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("running use case: %w", NewNotFound("user", "id=42"))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestProviderDispatchUnwrapsOriginal(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewProviderDispatch("sns", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "sns")
}
