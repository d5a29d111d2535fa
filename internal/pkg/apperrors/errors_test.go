package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	t.Run("formats the field into the message", func(t *testing.T) {
		err := &ValidationError{Field: "email", Message: "invalid email format"}
		assert.Equal(t, "validation failed for field 'email': invalid email format", err.Error())
	})

	t.Run("omits the field when not set", func(t *testing.T) {
		err := &ValidationError{Message: "no valid fields provided for update"}
		assert.Equal(t, "validation failed: no valid fields provided for update", err.Error())
	})

	t.Run("unwraps to the cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := &ValidationError{Message: "bad", Cause: cause}
		assert.ErrorIs(t, err, cause)
	})
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("phoneNumber", "invalid phone number format")

	assert.ErrorIs(t, err, ErrValidation)

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "phoneNumber", valErr.Field)
	assert.Equal(t, "invalid phone number format", valErr.Message)
}

func TestAppError(t *testing.T) {
	testCases := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name:     "with code",
			appError: &AppError{Code: "DB_ERROR", Message: "insert failed"},
			expected: "[DB_ERROR] insert failed",
		},
		{
			name:     "without code",
			appError: &AppError{Message: "something broke"},
			expected: "something broke",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.appError.Error())
		})
	}
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapDatabaseError(cause, "failed to save customer")

	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DB_ERROR", appErr.Code)
	assert.Equal(t, "failed to save customer", appErr.Message)
}
