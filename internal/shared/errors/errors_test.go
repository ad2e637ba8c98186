package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistenceUnavailableError(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:3306: connection refused")
	err := NewPersistenceUnavailableError("increment ai usage", cause)

	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "PERSISTENCE_UNAVAILABLE")
	assert.Contains(t, err.Error(), "connection refused")

	wrapped := fmt.Errorf("tracker: %w", err)
	assert.True(t, HasCode(wrapped, CodePersistenceUnavailable))
	assert.False(t, HasCode(wrapped, CodeRateLimited))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		typ    ErrorType
		status int
	}{
		{"validation", NewValidationError("bad name", "name too long"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("account not found"), ErrorTypeNotFound, http.StatusNotFound},
		{"unauthorized", NewUnauthorizedError("missing token"), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("admin only"), ErrorTypeForbidden, http.StatusForbidden},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{"bad request", NewBadRequestError("bad body"), ErrorTypeBadRequest, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.True(t, IsAppError(fmt.Errorf("wrap: %w", tt.err)))
		})
	}

	assert.Equal(t, "name too long", NewValidationError("bad name", "name too long").Details)
	assert.True(t, IsNotFoundError(NewNotFoundError("x")))
	assert.True(t, IsValidationError(NewValidationError("x")))
	assert.Nil(t, GetAppError(errors.New("plain")))
}
