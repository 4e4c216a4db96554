package workers

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool bounds how many functions run at once. The vault service runs each
// Argon2id derivation through it, since every derivation holds the full
// memory cost of its parameter set.
type Pool struct {
	sem  *semaphore.Weighted
	size int64
}

// NewPool creates a pool admitting size concurrent calls; sizes below one
// are raised to one.
func NewPool(size int64) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(size), size: size}
}

// Size returns the concurrency limit.
func (p *Pool) Size() int64 {
	if p == nil {
		return 0
	}
	return p.size
}

// Do waits for a free slot and runs fn. It returns ctx.Err() without
// running fn when ctx ends while waiting. A nil pool runs fn directly.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	if p == nil {
		return fn()
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)

	return fn()
}
