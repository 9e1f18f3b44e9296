package kactor

import (
	"context"
	"time"
)

// Client is the narrow, downward interface the actor consumes (spec.md
// §6). Every method here is only ever called from inside Gate.Run,
// except where noted. Construction, configuration, and lifetime of the
// concrete client are the caller's concern, not the actor's.
type Client interface {
	// Subscribe registers a topic subscription and a rebalance listener.
	// listener is the actor's own Rebalance Reactor, never a user
	// callback directly.
	Subscribe(ctx context.Context, topics []string, listener RebalanceListener) error
	// SubscribePattern is like Subscribe but for a regular expression
	// over topic names.
	SubscribePattern(ctx context.Context, pattern string, listener RebalanceListener) error
	// Assign manually assigns partitions; no rebalance callbacks fire for
	// partitions assigned this way.
	Assign(ctx context.Context, tps []TP) error
	// Unsubscribe drops the current subscription/assignment.
	Unsubscribe(ctx context.Context) error
	// Assignment returns the currently assigned partitions. franz-go's own
	// accessor is concurrency-safe, so implementations may allow calls
	// without the gate; the actor itself (Fetch Handler, Poll Handler,
	// Assignment requests) always calls it inside Gate.Run.
	Assignment() []TP
	// Pause and Resume toggle per-partition fetching. Either set may be
	// empty.
	Pause(tps []TP)
	Resume(tps []TP)
	// Poll fetches the next batch, blocking up to timeout. It may
	// synchronously invoke the rebalance listener passed to Subscribe.
	Poll(ctx context.Context, timeout time.Duration) (Batch, error)
	// CommitAsync issues an asynchronous offset commit. onDone is invoked
	// exactly once, from the client's own internal thread/goroutine, with
	// nil on success.
	CommitAsync(ctx context.Context, offsets map[TP]CommitEntry, onDone func(error))
}
