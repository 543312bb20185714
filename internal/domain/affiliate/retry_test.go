package affiliate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) *RetryPolicy {
	return DefaultRetryPolicy().
		WithMaxAttempts(attempts).
		WithInitialDelay(time.Millisecond).
		WithMaxDelay(5 * time.Millisecond).
		WithJitter(0)
}

func TestExecutorSucceedsFirstAttempt(t *testing.T) {
	exec := NewExecutor(fastPolicy(3))

	result := exec.Execute(context.Background(), func() error {
		return nil
	})

	assert.Equal(t, 1, result.Attempts)
	assert.NoError(t, result.LastError)
}

func TestExecutorRetriesRetryableErrors(t *testing.T) {
	exec := NewExecutor(fastPolicy(3))

	calls := 0
	result := exec.Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return NewAPIError(CodeServerError, "flaky upstream", 503)
		}
		return nil
	})

	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, calls)
}

func TestExecutorStopsOnNonRetryable(t *testing.T) {
	exec := NewExecutor(fastPolicy(5))

	calls := 0
	result := exec.Execute(context.Background(), func() error {
		calls++
		return NewAPIError(CodeInvalidParam, "bad payload", 400)
	})

	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 1, calls)
	require.Error(t, result.LastError)
}

func TestExecutorExhaustsAttempts(t *testing.T) {
	exec := NewExecutor(fastPolicy(3))

	calls := 0
	result := exec.Execute(context.Background(), func() error {
		calls++
		return NewAPIError(CodeExceedLimit, "rate limited", 429)
	})

	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, calls)

	var apiErr *APIError
	require.ErrorAs(t, result.LastError, &apiErr)
	assert.Equal(t, CodeExceedLimit, apiErr.Code)
}

func TestExecutorPlainErrorsNotRetried(t *testing.T) {
	exec := NewExecutor(fastPolicy(3))

	calls := 0
	result := exec.Execute(context.Background(), func() error {
		calls++
		return errors.New("not normalized")
	})

	assert.Equal(t, 1, calls)
	require.Error(t, result.LastError)
}

func TestExecutorHonorsContextCancellation(t *testing.T) {
	policy := DefaultRetryPolicy().
		WithMaxAttempts(5).
		WithInitialDelay(time.Hour).
		WithJitter(0)
	exec := NewExecutor(policy)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	result := exec.Execute(ctx, func() error {
		return NewAPIError(CodeServerError, "down", 500)
	})

	assert.Equal(t, 1, result.Attempts)
	assert.ErrorIs(t, result.LastError, context.Canceled)
}

func TestNoRetryPolicy(t *testing.T) {
	exec := NewExecutor(NoRetryPolicy())

	calls := 0
	exec.Execute(context.Background(), func() error {
		calls++
		return NewAPIError(CodeServerError, "down", 500)
	})

	assert.Equal(t, 1, calls)
}

func TestDelayForAttemptBackoffAndCap(t *testing.T) {
	policy := DefaultRetryPolicy().
		WithInitialDelay(100 * time.Millisecond).
		WithMultiplier(2).
		WithMaxDelay(300 * time.Millisecond).
		WithJitter(0)

	assert.Equal(t, time.Duration(0), policy.DelayForAttempt(0))
	assert.Equal(t, 100*time.Millisecond, policy.DelayForAttempt(1))
	assert.Equal(t, 200*time.Millisecond, policy.DelayForAttempt(2))
	assert.Equal(t, 300*time.Millisecond, policy.DelayForAttempt(3), "capped at max delay")
	assert.Equal(t, 300*time.Millisecond, policy.DelayForAttempt(4))
}
