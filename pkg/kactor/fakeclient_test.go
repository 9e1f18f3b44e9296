package kactor

import (
	"context"
	"sync"
	"time"
)

// fakeClient is a minimal, deterministic stand-in for the native client,
// driven directly by tests: pollResults feeds successive Poll calls, and
// revokeNow/assignNow let a test simulate a rebalance happening
// synchronously inside a Poll call, exactly as franz-go does.
type fakeClient struct {
	mu         sync.Mutex
	assignment []TP
	listener   RebalanceListener

	pollResults []Batch
	pollErr     error

	pauseCalls  [][]TP
	resumeCalls [][]TP

	commits []map[TP]CommitEntry
	onCommit func(offsets map[TP]CommitEntry) error

	// beforePollReturn runs synchronously inside Poll, before it returns,
	// so tests can simulate a rebalance callback firing mid-poll.
	beforePollReturn func(c *fakeClient)
}

func newFakeClient() *fakeClient {
	return &fakeClient{}
}

func (c *fakeClient) Subscribe(ctx context.Context, topics []string, listener RebalanceListener) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = listener
	return nil
}

func (c *fakeClient) SubscribePattern(ctx context.Context, pattern string, listener RebalanceListener) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = listener
	return nil
}

func (c *fakeClient) Assign(ctx context.Context, tps []TP) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return nil
}

func (c *fakeClient) Unsubscribe(ctx context.Context) error {
	return nil
}

func (c *fakeClient) Assignment() []TP {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TP, len(c.assignment))
	copy(out, c.assignment)
	return out
}

func (c *fakeClient) setAssignment(tps []TP) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assignment = tps
}

func (c *fakeClient) Pause(tps []TP) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseCalls = append(c.pauseCalls, tps)
}

func (c *fakeClient) Resume(tps []TP) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumeCalls = append(c.resumeCalls, tps)
}

// revokeNow synchronously invokes the registered listener's OnRevoked,
// simulating franz-go calling back into the actor from inside Poll.
func (c *fakeClient) revokeNow(tps []TP) {
	c.mu.Lock()
	listener := c.listener
	remaining := make([]TP, 0, len(c.assignment))
	for _, tp := range c.assignment {
		if !containsTP(tps, tp) {
			remaining = append(remaining, tp)
		}
	}
	c.assignment = remaining
	c.mu.Unlock()
	if listener.OnRevoked != nil {
		listener.OnRevoked(tps)
	}
}

func (c *fakeClient) assignNow(tps []TP) {
	c.mu.Lock()
	listener := c.listener
	c.assignment = append(c.assignment, tps...)
	c.mu.Unlock()
	if listener.OnAssigned != nil {
		listener.OnAssigned(tps)
	}
}

func (c *fakeClient) Poll(ctx context.Context, timeout time.Duration) (Batch, error) {
	c.mu.Lock()
	var batch Batch
	if len(c.pollResults) > 0 {
		batch = c.pollResults[0]
		c.pollResults = c.pollResults[1:]
	}
	err := c.pollErr
	before := c.beforePollReturn
	c.mu.Unlock()

	if before != nil {
		before(c)
	}
	return batch, err
}

func (c *fakeClient) CommitAsync(ctx context.Context, offsets map[TP]CommitEntry, onDone func(error)) {
	c.mu.Lock()
	c.commits = append(c.commits, offsets)
	hook := c.onCommit
	c.mu.Unlock()

	// Real clients invoke onDone from their own internal goroutine, never
	// from the caller's; a hook that blocks forever must not wedge the
	// actor's dispatch loop, which called CommitAsync under the gate.
	go func() {
		var err error
		if hook != nil {
			err = hook(offsets)
		}
		onDone(err)
	}()
}

func rec(tp TP, offset int64) Record {
	return Record{TP: tp, Offset: offset}
}
