// Package workers provides a bounded pool for offloading synchronous
// collaborator calls (object store, database) so they never block the
// fetch substrate.
package workers

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool limits the number of concurrently executing tasks.
type Pool struct {
	sem *semaphore.Weighted
}

// New creates a Pool allowing up to size concurrent tasks.
func New(size int64) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(size)}
}

// Do runs fn once a slot is available. It returns the context error if the
// slot cannot be acquired, otherwise fn's error.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn()
}
