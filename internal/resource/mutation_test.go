package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
)

func TestMutationSuccess(t *testing.T) {
	m := NewMutation(func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})

	got, err := m.Mutate(context.Background(), 21)

	require.NoError(t, err)
	assert.Equal(t, 42, got)

	state := m.State()
	require.NotNil(t, state.Data)
	assert.Equal(t, 42, *state.Data)
	assert.Nil(t, state.Err)
}

func TestMutationErrorStoredAndReturned(t *testing.T) {
	m := NewMutation(func(ctx context.Context, _ int) (int, error) {
		return 0, errors.New("write rejected")
	})

	got, err := m.Mutate(context.Background(), 1)

	require.Error(t, err)
	assert.Zero(t, got)

	// The same normalized error lands in state and in the return value,
	// so one call feeds both inline handling and later inspection.
	var apiErr *affiliate.APIError
	require.ErrorAs(t, err, &apiErr)

	state := m.State()
	require.NotNil(t, state.Err)
	assert.Same(t, apiErr, state.Err)
	assert.Nil(t, state.Data)
}

func TestMutationPreservesAPIErrorCode(t *testing.T) {
	m := NewMutation(func(ctx context.Context, _ struct{}) (string, error) {
		return "", affiliate.NewAPIError(affiliate.CodeInvalidParam, "bad slug", 400)
	})

	_, err := m.Mutate(context.Background(), struct{}{})

	var apiErr *affiliate.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, affiliate.CodeInvalidParam, apiErr.Code)
}

func TestMutationReset(t *testing.T) {
	m := NewMutation(func(ctx context.Context, _ int) (int, error) {
		return 0, errors.New("boom")
	})

	_, err := m.Mutate(context.Background(), 1)
	require.Error(t, err)
	require.NotNil(t, m.State().Err)

	m.Reset()
	assert.True(t, m.State().Idle())
}

func TestMutationNoAutomaticRetry(t *testing.T) {
	var calls int
	m := NewMutation(func(ctx context.Context, _ int) (int, error) {
		calls++
		return 0, affiliate.NewAPIError(affiliate.CodeServerError, "flaky", 500)
	})

	_, _ = m.Mutate(context.Background(), 1)
	assert.Equal(t, 1, calls, "a retryable error must not trigger a second attempt")
}
