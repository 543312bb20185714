package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
)

func TestResourceRunSuccess(t *testing.T) {
	r := New(func(ctx context.Context) (int, error) {
		return 42, nil
	})

	state := r.Run(context.Background())

	require.NotNil(t, state.Data)
	assert.Equal(t, 42, *state.Data)
	assert.False(t, state.Loading)
	assert.Nil(t, state.Err)
}

func TestResourceRunError(t *testing.T) {
	r := New(func(ctx context.Context) (int, error) {
		return 0, errors.New("boom")
	})

	state := r.Run(context.Background())

	require.NotNil(t, state.Err)
	assert.Nil(t, state.Data)
	assert.False(t, state.Loading)
	assert.Equal(t, affiliate.CodeUnknownError, state.Err.Code)
}

func TestResourceErrorIsNormalized(t *testing.T) {
	apiErr := affiliate.NewAPIError(affiliate.CodeServerError, "upstream down", 503)
	r := New(func(ctx context.Context) (int, error) {
		return 0, apiErr
	})

	state := r.Run(context.Background())

	require.NotNil(t, state.Err)
	assert.Equal(t, affiliate.CodeServerError, state.Err.Code)
	assert.True(t, state.Err.IsRetryable())
}

func TestResourceDisabledNeverRuns(t *testing.T) {
	var calls int32
	r := New(func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 1, nil
	})

	r.SetEnabled(false)
	state := r.Run(context.Background())

	assert.True(t, state.Idle())
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestResourceDisableClearsState(t *testing.T) {
	r := New(func(ctx context.Context) (int, error) {
		return 7, nil
	})

	r.Run(context.Background())
	require.NotNil(t, r.State().Data)

	r.SetEnabled(false)
	assert.True(t, r.State().Idle())
}

func TestResourceReEnabledRunsAgain(t *testing.T) {
	var calls int32
	r := New(func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})

	r.SetEnabled(false)
	r.Run(context.Background())
	r.SetEnabled(true)
	state := r.Run(context.Background())

	require.NotNil(t, state.Data)
	assert.Equal(t, 1, *state.Data)
}

func TestResourceSetKey(t *testing.T) {
	r := New(func(ctx context.Context) (string, error) {
		return "ok", nil
	})

	assert.True(t, r.SetKey("partner", "2026-01-01", "2026-01-31"))
	assert.False(t, r.SetKey("partner", "2026-01-01", "2026-01-31"))
	assert.True(t, r.SetKey("partner", "2026-02-01", "2026-02-28"))
}

func TestResourceKeyPartsArePositional(t *testing.T) {
	r := New(func(ctx context.Context) (string, error) {
		return "ok", nil
	})

	r.SetKey("a", "b1")
	changed := r.SetKey("ab", "1")
	assert.True(t, changed, "differently split parts must produce distinct keys")
}

func TestResourceStaleRunDoesNotOverwrite(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	r := New(func(ctx context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(firstStarted)
			<-release
			return 1, nil
		}
		return 2, nil
	})

	firstDone := make(chan State[int])
	go func() {
		firstDone <- r.Run(context.Background())
	}()

	<-firstStarted
	second := r.Run(context.Background())
	require.NotNil(t, second.Data)
	assert.Equal(t, 2, *second.Data)

	close(release)
	first := <-firstDone

	// The superseded invocation must neither overwrite state nor report
	// its own stale value.
	require.NotNil(t, first.Data)
	assert.Equal(t, 2, *first.Data)
	require.NotNil(t, r.State().Data)
	assert.Equal(t, 2, *r.State().Data)
}

func TestResourceInvalidateDiscardsInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	r := New(func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 99, nil
	})

	done := make(chan State[int])
	go func() {
		done <- r.Run(context.Background())
	}()

	<-started
	r.Invalidate()
	close(release)
	<-done

	assert.True(t, r.State().Idle())
}

func TestResourceCallbacks(t *testing.T) {
	var gotValue int
	var gotErr *affiliate.APIError

	ok := New(func(ctx context.Context) (int, error) {
		return 5, nil
	}).OnSuccess(func(v int) { gotValue = v })
	ok.Run(context.Background())
	assert.Equal(t, 5, gotValue)

	bad := New(func(ctx context.Context) (int, error) {
		return 0, errors.New("nope")
	}).OnError(func(e *affiliate.APIError) { gotErr = e })
	bad.Run(context.Background())
	require.NotNil(t, gotErr)
	assert.Equal(t, affiliate.CodeUnknownError, gotErr.Code)
}
