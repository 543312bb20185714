// Package resource implements the tri-state async data layer the partner
// dashboard is built on: read resources that re-execute when their
// dependency key changes, and one-shot mutations for write actions.
// A generation counter guards against a superseded in-flight call
// overwriting newer state, so results apply in request-issuance order.
package resource

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/affablelink/service-partner/internal/domain/affiliate"
)

// Producer loads the value for a resource. Implementations block at the
// network boundary and honor ctx cancellation.
type Producer[T any] func(ctx context.Context) (T, error)

// State is the observable snapshot of a resource. At any instant exactly
// one of the following holds: Loading is true, or Data is set, or Err is
// set, or the resource is idle (all zero). Data and Err are never both
// non-nil.
type State[T any] struct {
	Data    *T
	Loading bool
	Err     *affiliate.APIError
}

// Idle reports whether the resource has neither run nor failed.
func (s State[T]) Idle() bool {
	return !s.Loading && s.Data == nil && s.Err == nil
}

// Resource wraps a producer with tri-state result tracking. Safe for
// concurrent use; each completed Run publishes its result only if no
// newer invocation or invalidation has happened since it started.
type Resource[T any] struct {
	mu       sync.Mutex
	producer Producer[T]
	enabled  bool
	key      string
	gen      uint64
	state    State[T]

	onSuccess func(T)
	onError   func(*affiliate.APIError)
}

// New creates an enabled resource for the given producer.
func New[T any](producer Producer[T]) *Resource[T] {
	return &Resource[T]{
		producer: producer,
		enabled:  true,
	}
}

// OnSuccess registers a side-effect callback fired with each successful
// result. Must be set before Run.
func (r *Resource[T]) OnSuccess(fn func(T)) *Resource[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSuccess = fn
	return r
}

// OnError registers a side-effect callback fired with each normalized
// failure. Must be set before Run.
func (r *Resource[T]) OnError(fn func(*affiliate.APIError)) *Resource[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = fn
	return r
}

// SetEnabled gates execution. Disabling resets state to idle, discards
// any in-flight result, and makes Run a no-op until re-enabled.
func (r *Resource[T]) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.enabled == enabled {
		return
	}
	r.enabled = enabled
	if !enabled {
		r.gen++
		r.state = State[T]{}
	}
}

// Enabled reports whether the resource will execute its producer.
func (r *Resource[T]) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// SetKey replaces the dependency key. Returns true if the key changed,
// in which case any in-flight invocation is invalidated and the caller
// should Run again. Parts are serialized positionally, so ("a", 1) and
// ("a1") remain distinct keys.
func (r *Resource[T]) SetKey(parts ...any) bool {
	key := buildKey(parts...)

	r.mu.Lock()
	defer r.mu.Unlock()

	if key == r.key {
		return false
	}
	r.key = key
	r.gen++
	return true
}

// Key returns the current dependency key.
func (r *Resource[T]) Key() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.key
}

// State returns the current snapshot.
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Run executes the producer and returns the resulting snapshot. If the
// resource is disabled the producer is never invoked and the idle state
// is returned. A Run whose generation is superseded before it completes
// leaves state untouched and returns the newer snapshot instead.
func (r *Resource[T]) Run(ctx context.Context) State[T] {
	r.mu.Lock()
	if !r.enabled {
		r.state = State[T]{}
		snapshot := r.state
		r.mu.Unlock()
		return snapshot
	}

	r.gen++
	gen := r.gen
	r.state = State[T]{Loading: true}
	producer := r.producer
	onSuccess := r.onSuccess
	onError := r.onError
	r.mu.Unlock()

	value, err := producer(ctx)

	r.mu.Lock()
	if gen != r.gen {
		// Superseded while in flight; the newer invocation owns state.
		snapshot := r.state
		r.mu.Unlock()
		return snapshot
	}

	if err != nil {
		normalized := affiliate.Normalize(err)
		r.state = State[T]{Err: normalized}
		snapshot := r.state
		r.mu.Unlock()
		if onError != nil {
			onError(normalized)
		}
		return snapshot
	}

	r.state = State[T]{Data: &value}
	snapshot := r.state
	r.mu.Unlock()
	if onSuccess != nil {
		onSuccess(value)
	}
	return snapshot
}

// Invalidate discards any in-flight invocation and resets state to idle.
func (r *Resource[T]) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.state = State[T]{}
}

// buildKey serializes key parts into a stable string.
func buildKey(parts ...any) string {
	if len(parts) == 0 {
		return ""
	}
	segs := make([]string, len(parts))
	for i, p := range parts {
		segs[i] = fmt.Sprint(p)
	}
	return strings.Join(segs, "\x1f")
}
