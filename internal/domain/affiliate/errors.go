// Package affiliate provides domain types shared by the partner service:
// the normalized error taxonomy, retry policy, rate limiting, and the
// date-range bookkeeping used by analytics.
package affiliate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Standard domain errors.
var (
	ErrTokenExpired       = errors.New("access token has expired")
	ErrRateLimited        = errors.New("API rate limit exceeded")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrInvalidRequest     = errors.New("invalid request parameters")
	ErrServiceUnavailable = errors.New("upstream service temporarily unavailable")
)

// ErrorCode classifies a failure. Every error surfaced by the resource
// layer, the tracker client, and the outbound service clients carries one.
type ErrorCode string

const (
	// Normalized client-side taxonomy. Anything that crosses the request
	// boundary collapses into one of these three.
	CodeNetworkError ErrorCode = "NETWORK_ERROR"
	CodeAPIError     ErrorCode = "API_ERROR"
	CodeUnknownError ErrorCode = "UNKNOWN_ERROR"

	// Tracker API error codes, as returned in ClickWave response envelopes.
	CodeAuthError    ErrorCode = "error_auth"
	CodeInvalidParam ErrorCode = "error_param"
	CodeExceedLimit  ErrorCode = "error_exceed_limit"
	CodeServerError  ErrorCode = "error_server"
	CodeNotFound     ErrorCode = "error_not_found"
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// IsRetryable returns true if the error code indicates a retryable error.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case CodeExceedLimit, CodeServerError, CodeNetworkError:
		return true
	default:
		return false
	}
}

// IsTokenError returns true if the error indicates a token issue.
func (c ErrorCode) IsTokenError() bool {
	return c == CodeAuthError
}

// APIError is the single error shape callers observe. Immutable once
// constructed.
type APIError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	StatusCode int            `json:"status_code,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("affable [%s]: %s (request_id: %s)", e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("affable [%s]: %s", e.Code, e.Message)
}

// Is implements errors.Is for APIError.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrTokenExpired:
		return e.Code == CodeAuthError
	case ErrRateLimited:
		return e.Code == CodeExceedLimit || e.StatusCode == http.StatusTooManyRequests
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrResourceNotFound:
		return e.Code == CodeNotFound || e.StatusCode == http.StatusNotFound
	case ErrInvalidRequest:
		return e.Code == CodeInvalidParam || e.StatusCode == http.StatusBadRequest
	case ErrServiceUnavailable:
		return e.Code == CodeServerError || e.StatusCode >= 500
	default:
		return false
	}
}

// IsRetryable returns true if this error is safe to retry.
func (e *APIError) IsRetryable() bool {
	if e.Code.IsRetryable() {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusServiceUnavailable ||
		e.StatusCode >= 500
}

// NewAPIError creates a new APIError with the given parameters.
func NewAPIError(code ErrorCode, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewAPIErrorWithRequestID creates a new APIError with request ID.
func NewAPIErrorWithRequestID(code ErrorCode, message string, statusCode int, requestID string) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		RequestID:  requestID,
	}
}

// Normalize collapses an arbitrary error into the APIError shape.
// Already-normalized errors pass through untouched; transport-level
// failures become NETWORK_ERROR; everything else becomes UNKNOWN_ERROR
// with the stringified cause as message.
func Normalize(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return &APIError{Code: CodeNetworkError, Message: err.Error()}
	}

	return &APIError{Code: CodeUnknownError, Message: err.Error()}
}

// ErrorCategory classifies errors into categories.
type ErrorCategory string

const (
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryRateLimit      ErrorCategory = "rate_limit"
	CategoryNetwork        ErrorCategory = "network"
	CategoryServer         ErrorCategory = "server"
	CategoryNotFound       ErrorCategory = "not_found"
	CategoryValidation     ErrorCategory = "validation"
	CategoryUnknown        ErrorCategory = "unknown"
)

// Category returns the category of this error.
func (e *APIError) Category() ErrorCategory {
	switch e.Code {
	case CodeAuthError:
		return CategoryAuthentication
	case CodeExceedLimit:
		return CategoryRateLimit
	case CodeNetworkError:
		return CategoryNetwork
	case CodeServerError:
		return CategoryServer
	case CodeNotFound:
		return CategoryNotFound
	case CodeInvalidParam:
		return CategoryValidation
	case CodeAPIError:
		if e.StatusCode >= 500 {
			return CategoryServer
		}
		return CategoryValidation
	default:
		return CategoryUnknown
	}
}
