package kactor

import "sync"

// Gate provides mutually exclusive access to the native client: every
// call into the client goes through Run. Concurrent callers are
// serialized in arrival order (FIFO is not guaranteed beyond what
// sync.Mutex gives, which matches spec.md's "no fairness guarantee
// beyond FIFO").
//
// The native client invokes rebalance callbacks synchronously from
// inside Poll, i.e. from inside a Run call already holding the lock.
// Those callbacks must never call Run again — they only touch the State
// Store, which is a separate lock, so no reentrancy is required here.
type Gate struct {
	mu sync.Mutex
}

// Run executes f with exclusive access to the client. An error returned
// by f propagates to the caller after the lock is released.
func (g *Gate) Run(f func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return f()
}
