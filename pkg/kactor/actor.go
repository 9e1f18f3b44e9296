package kactor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Actor is the single-threaded consumer actor described in spec.md §2.
// Every request from upward callers and every rebalance callback from
// the native client ultimately routes through its request queue; no two
// handlers ever run concurrently with each other.
type Actor struct {
	gate   *Gate
	store  *StateStore
	client Client
	queue  *queue
	cfg    Config
	log    Logger
}

// New creates an actor around client. Run must be called to start the
// dispatcher and the periodic poll source.
func New(client Client, cfg Config, log Logger) *Actor {
	if log == nil {
		log = noopLogger{}
	}
	if cfg.CommitRecovery == nil {
		cfg.CommitRecovery = noRetryRecovery{}
	}
	return &Actor{
		gate:   &Gate{},
		store:  NewStateStore(),
		client: client,
		queue:  newQueue(),
		cfg:    cfg,
		log:    log,
	}
}

// noRetryRecovery is the zero-value CommitRecovery: fail immediately.
// The richer policies (bounded backoff, dead-letter, audit) live in
// pkg/commitrecovery so the core has no opinion on persistence or
// messaging.
type noRetryRecovery struct{}

func (noRetryRecovery) Recover(context.Context, int, error) (bool, time.Duration) {
	return false, 0
}

// Run dispatches requests until ctx is cancelled. It starts the Periodic
// Poll Source in its own goroutine and processes exactly one request at
// a time from the queue, matching spec.md's "cooperative single-threaded"
// scheduling model.
func (a *Actor) Run(ctx context.Context) {
	pollSourceDone := make(chan struct{})
	go func() {
		defer close(pollSourceDone)
		a.runPeriodicPollSource(ctx)
	}()

	for {
		msg, ok := a.queue.pop(ctx)
		if !ok {
			<-pollSourceDone
			return
		}
		a.dispatch(ctx, msg)
	}
}

// Close stops accepting new requests. Call after Run's context has been
// cancelled and Run has returned, to let any goroutines blocked in push
// unwind.
func (a *Actor) Close() {
	a.queue.close()
}

func (a *Actor) dispatch(ctx context.Context, msg any) {
	switch m := msg.(type) {
	case pollMsg:
		a.handlePoll(ctx)
	case subscribeTopicsMsg:
		a.handleSubscribeTopics(m)
	case subscribePatternMsg:
		a.handleSubscribePattern(m)
	case assignMsg:
		a.handleAssign(m)
	case unsubscribeMsg:
		a.handleUnsubscribe(m)
	case assignmentMsg:
		a.handleAssignment(m)
	case fetchMsg:
		a.handleFetch(m)
	case commitMsg:
		a.handleCommit(m.req)
	default:
		a.log.Error(ctx, "kactor: dispatched unknown request type")
	}
}

func newRequestID() string {
	return uuid.NewString()
}

// ---- upward API (spec.md §6) ----

// SubscribeTopics subscribes to a fixed, non-empty list of topics.
func (a *Actor) SubscribeTopics(ctx context.Context, topics []string) error {
	result := NewCompletable[error]()
	a.queue.push(subscribeTopicsMsg{ctx: ctx, requestID: newRequestID(), topics: topics, result: result})
	err, waitErr := result.Await(ctx)
	if waitErr != nil {
		return waitErr
	}
	return err
}

// SubscribePattern subscribes to every topic matching pattern.
func (a *Actor) SubscribePattern(ctx context.Context, pattern string) error {
	result := NewCompletable[error]()
	a.queue.push(subscribePatternMsg{ctx: ctx, requestID: newRequestID(), pattern: pattern, result: result})
	err, waitErr := result.Await(ctx)
	if waitErr != nil {
		return waitErr
	}
	return err
}

// Assign manually assigns a non-empty set of partitions.
func (a *Actor) Assign(ctx context.Context, tps []TP) error {
	result := NewCompletable[error]()
	a.queue.push(assignMsg{ctx: ctx, requestID: newRequestID(), tps: tps, result: result})
	err, waitErr := result.Await(ctx)
	if waitErr != nil {
		return waitErr
	}
	return err
}

// Unsubscribe drops the current subscription or assignment.
func (a *Actor) Unsubscribe(ctx context.Context) error {
	result := NewCompletable[error]()
	a.queue.push(unsubscribeMsg{ctx: ctx, requestID: newRequestID(), result: result})
	err, waitErr := result.Await(ctx)
	if waitErr != nil {
		return waitErr
	}
	return err
}

// Assignment returns the current assignment. If listener is non-nil, it
// is registered to observe future rebalances (this is how a new stream
// hooks into the Rebalance Reactor's fan-out).
func (a *Actor) Assignment(ctx context.Context, listener *RebalanceListener) ([]TP, error) {
	result := NewCompletable[assignmentResult]()
	a.queue.push(assignmentMsg{listener: listener, result: result})
	res, waitErr := result.Await(ctx)
	if waitErr != nil {
		return nil, waitErr
	}
	return res.tps, res.err
}

// Fetch registers standing demand for records on tp for the given
// stream, and blocks until a chunk is delivered, the caller's ctx is
// cancelled, or the partition is revoked/reassigned. psid must be
// monotonically increasing per stream across successive assignments of
// the same TP.
func (a *Actor) Fetch(ctx context.Context, tp TP, streamID StreamID, psid PartitionStreamID) (FetchResult, error) {
	token := NewCompletable[FetchResult]()
	a.queue.push(fetchMsg{requestID: newRequestID(), tp: tp, streamID: streamID, psid: psid, token: token})
	return token.Await(ctx)
}

// Commit submits a batch offset commit and waits for the result, subject
// to ctx (not the configured CommitTimeout — callers wanting that bound
// should use CommitRecord/NewRecordCommitFunc instead).
func (a *Actor) Commit(ctx context.Context, offsets map[TP]CommitEntry) error {
	result := NewCompletable[error]()
	req := &CommitRequest{
		GroupID:   a.cfg.GroupID,
		RequestID: newRequestID(),
		Offsets:   offsets,
		Result:    result,
	}
	a.queue.push(commitMsg{req: req})
	err, waitErr := result.Await(ctx)
	if waitErr != nil {
		return waitErr
	}
	return err
}
