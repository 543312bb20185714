package resource

import (
	"context"
	"sync"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
)

// MutationFunc performs a write-style action with caller-supplied
// arguments.
type MutationFunc[A, T any] func(ctx context.Context, args A) (T, error)

// Mutation wraps a write action with the same tri-state shape as a
// Resource, but is triggered imperatively and both stores and returns
// its error so callers get inline feedback from a single call. There is
// no built-in retry; the caller decides whether to Mutate again.
type Mutation[A, T any] struct {
	mu    sync.Mutex
	fn    MutationFunc[A, T]
	state State[T]
}

// NewMutation creates a mutation runner for the given action.
func NewMutation[A, T any](fn MutationFunc[A, T]) *Mutation[A, T] {
	return &Mutation[A, T]{fn: fn}
}

// Mutate runs the action. On failure the normalized error is stored in
// state and returned; on success the result is stored and returned with
// a nil error.
func (m *Mutation[A, T]) Mutate(ctx context.Context, args A) (T, error) {
	m.mu.Lock()
	m.state = State[T]{Loading: true}
	fn := m.fn
	m.mu.Unlock()

	value, err := fn(ctx, args)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		normalized := affiliate.Normalize(err)
		m.state = State[T]{Err: normalized}
		var zero T
		return zero, normalized
	}

	m.state = State[T]{Data: &value}
	return value, nil
}

// State returns the current snapshot.
func (m *Mutation[A, T]) State() State[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reset returns the mutation to idle without side effects.
func (m *Mutation[A, T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State[T]{}
}
