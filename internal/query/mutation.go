package query

import (
	"context"
	"sync"
)

// Mutation is a one-shot write operation. Each Trigger call executes the
// mutation function exactly once; writes are never deduplicated. On success
// the declared cache keys and prefixes are invalidated so dependent queries
// refetch; on failure the error is returned to the caller and nothing is
// retried or invalidated.
type Mutation[In, Out any] struct {
	cache    *Cache
	fn       func(ctx context.Context, in In) (Out, error)
	keys     []Key
	prefixes []Key

	mu      sync.Mutex
	pending bool
	err     error
}

// NewMutation creates a mutation bound to a cache
func NewMutation[In, Out any](cache *Cache, fn func(ctx context.Context, in In) (Out, error)) *Mutation[In, Out] {
	return &Mutation[In, Out]{
		cache: cache,
		fn:    fn,
	}
}

// Invalidates declares exact keys to invalidate on success
func (m *Mutation[In, Out]) Invalidates(keys ...Key) *Mutation[In, Out] {
	m.keys = append(m.keys, keys...)
	return m
}

// InvalidatesPrefix declares key prefixes to invalidate on success
func (m *Mutation[In, Out]) InvalidatesPrefix(prefixes ...Key) *Mutation[In, Out] {
	m.prefixes = append(m.prefixes, prefixes...)
	return m
}

// Trigger executes the mutation with the given input
func (m *Mutation[In, Out]) Trigger(ctx context.Context, in In) (Out, error) {
	m.mu.Lock()
	m.pending = true
	m.err = nil
	m.mu.Unlock()

	out, err := m.fn(ctx, in)

	m.mu.Lock()
	m.pending = false
	m.err = err
	m.mu.Unlock()

	if err != nil {
		var zero Out
		return zero, err
	}

	for _, key := range m.keys {
		m.cache.Invalidate(key)
	}
	for _, prefix := range m.prefixes {
		m.cache.InvalidatePrefix(prefix)
	}

	return out, nil
}

// Status reports whether a trigger is in flight and the last error
func (m *Mutation[In, Out]) Status() (pending bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending, m.err
}
