package history

import (
	"context"
	"errors"
	"sync"
)

// cell is an exactly-once memoization slot. The first caller computes the
// value; concurrent first accesses block until it is available.
type cell[T any] struct {
	once sync.Once
	val  T
}

func (c *cell[T]) get(compute func() T) T {
	c.once.Do(func() { c.val = compute() })

	return c.val
}

// errCell is a cell for computations that can fail. The error is memoized
// along with the value, so a failed computation is not retried. Failures
// caused by the caller's context are the exception: they are returned
// without settling the cell, and a later caller computes afresh.
type errCell[T any] struct {
	mu   sync.Mutex
	done bool
	val  T
	err  error
}

func (c *errCell[T]) get(compute func() (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done {
		return c.val, c.err
	}

	val, err := compute()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		var zero T

		return zero, err
	}

	c.val, c.err = val, err
	c.done = true

	return c.val, c.err
}
