// Package procpool bounds the number of external processes running at once.
package procpool

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool limits concurrent subprocess invocations using a weighted semaphore.
// A nil Pool imposes no limit.
type Pool struct {
	sem *semaphore.Weighted
}

// New creates a Pool that allows at most limit concurrent invocations.
// A limit below 1 means unlimited and returns nil.
func New(limit int) *Pool {
	if limit < 1 {
		return nil
	}
	return &Pool{sem: semaphore.NewWeighted(int64(limit))}
}

// Run acquires a slot, runs fn, and releases the slot.
// Blocks if all slots are busy. Returns ctx.Err() if the context
// is cancelled while waiting for a slot.
func (p *Pool) Run(ctx context.Context, fn func() error) error {
	if p == nil || p.sem == nil {
		return fn()
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn()
}
