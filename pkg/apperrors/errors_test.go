package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindDatabase, http.StatusInternalServerError},
		{KindUnavailable, http.StatusServiceUnavailable},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.HTTPStatus())
		})
	}
}

func TestAs(t *testing.T) {
	sentinel := errors.New("wallet taken")
	wrapped := fmt.Errorf("register: %w", Conflict("Wallet address already registered", sentinel))

	appErr := As(wrapped)
	assert.Equal(t, KindConflict, appErr.Kind)
	assert.ErrorIs(t, wrapped, sentinel)
	assert.True(t, IsKind(wrapped, KindConflict))

	plain := As(errors.New("boom"))
	assert.Equal(t, KindInternal, plain.Kind)
	assert.True(t, plain.Internal())
}

func TestRateLimitedMessage(t *testing.T) {
	err := RateLimited(42)
	assert.Equal(t, 42, err.RetryAfter)
	assert.Contains(t, err.Error(), "42 seconds")
}
