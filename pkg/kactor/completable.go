package kactor

import (
	"context"
	"sync/atomic"
)

// Completable is a single-assignment result slot: a "one-shot" value
// passed alongside a request, as described in spec.md's Result Slot
// glossary entry. Completing it twice is a no-op that reports failure to
// the caller instead of corrupting state or blocking forever — spec.md
// calls double-completion "undefined behavior the implementation must
// prevent", so this type makes it simply impossible to observe.
type Completable[T any] struct {
	ch        chan T
	completed atomic.Bool
}

// NewCompletable creates an unresolved result slot.
func NewCompletable[T any]() *Completable[T] {
	return &Completable[T]{ch: make(chan T, 1)}
}

// Complete resolves the slot with v. It returns false if the slot was
// already completed, in which case v is discarded.
func (c *Completable[T]) Complete(v T) bool {
	if !c.completed.CompareAndSwap(false, true) {
		return false
	}
	c.ch <- v
	return true
}

// Await blocks until the slot is completed or ctx is cancelled. A
// cancelled wait does not retract the request: the actor may still
// complete the slot later, and that completion is simply never observed.
func (c *Completable[T]) Await(ctx context.Context) (T, error) {
	select {
	case v := <-c.ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
