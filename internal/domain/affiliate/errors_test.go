package affiliate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timeoutError satisfies net.Error the way a dial timeout does.
type timeoutError struct{}

var _ net.Error = timeoutError{}

func (timeoutError) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestNormalizeNil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}

func TestNormalizePassesThroughAPIError(t *testing.T) {
	original := NewAPIError(CodeAuthError, "token expired", 401)

	got := Normalize(original)
	assert.Same(t, original, got)

	// Same through wrapping.
	wrapped := fmt.Errorf("request failed: %w", original)
	got = Normalize(wrapped)
	assert.Same(t, original, got)
}

func TestNormalizeTransportErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"net.Error", timeoutError{}},
		{"wrapped net.Error", fmt.Errorf("get stats: %w", timeoutError{})},
		{"deadline exceeded", context.DeadlineExceeded},
		{"canceled", context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, CodeNetworkError, got.Code)
			assert.True(t, got.IsRetryable())
		})
	}
}

func TestNormalizeUnknownFallback(t *testing.T) {
	got := Normalize(errors.New("something odd"))

	require.NotNil(t, got)
	assert.Equal(t, CodeUnknownError, got.Code)
	assert.Equal(t, "something odd", got.Message)
	assert.False(t, got.IsRetryable())
}

func TestAPIErrorIsTargets(t *testing.T) {
	authErr := NewAPIError(CodeAuthError, "expired", 401)
	assert.ErrorIs(t, authErr, ErrTokenExpired)
	assert.ErrorIs(t, authErr, ErrUnauthorized)

	limited := NewAPIError(CodeExceedLimit, "slow down", 429)
	assert.ErrorIs(t, limited, ErrRateLimited)

	missing := NewAPIError(CodeNotFound, "no such partner", 404)
	assert.ErrorIs(t, missing, ErrResourceNotFound)

	invalid := NewAPIError(CodeInvalidParam, "bad date", 400)
	assert.ErrorIs(t, invalid, ErrInvalidRequest)

	down := NewAPIError(CodeServerError, "upstream", 503)
	assert.ErrorIs(t, down, ErrServiceUnavailable)
}

func TestAPIErrorCategory(t *testing.T) {
	tests := []struct {
		err  *APIError
		want ErrorCategory
	}{
		{NewAPIError(CodeAuthError, "", 401), CategoryAuthentication},
		{NewAPIError(CodeExceedLimit, "", 429), CategoryRateLimit},
		{NewAPIError(CodeNetworkError, "", 0), CategoryNetwork},
		{NewAPIError(CodeServerError, "", 500), CategoryServer},
		{NewAPIError(CodeNotFound, "", 404), CategoryNotFound},
		{NewAPIError(CodeInvalidParam, "", 400), CategoryValidation},
		{NewAPIError(CodeAPIError, "", 502), CategoryServer},
		{NewAPIError(CodeAPIError, "", 422), CategoryValidation},
		{NewAPIError(CodeUnknownError, "", 0), CategoryUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Category(), "code %s status %d", tt.err.Code, tt.err.StatusCode)
	}
}

func TestAPIErrorMessageIncludesRequestID(t *testing.T) {
	withID := NewAPIErrorWithRequestID(CodeAPIError, "rejected", 400, "req-123")
	assert.Contains(t, withID.Error(), "req-123")

	withoutID := NewAPIError(CodeAPIError, "rejected", 400)
	assert.NotContains(t, withoutID.Error(), "request_id")
}
