package kactor

import (
	"context"
	"time"
)

// Commit Coordinator (spec.md §4.6). Commits submitted while a rebalance
// is in progress are parked in pendingCommits and replayed, in
// submission order, by the next Poll that observes the true→false
// transition (P7/P8).

func (a *Actor) handleCommit(req *CommitRequest) {
	a.store.Modify(func(st *internalState) Action {
		if st.rebalancing {
			st.pendingCommits = append(st.pendingCommits, req)
			return nil
		}
		return func() { a.issueCommit(req) }
	})
}

// issueCommit takes the gate, issues the asynchronous commit, and bridges
// its callback onto the request's result slot. The callback runs on the
// native client's own goroutine (per spec.md's design notes); it must not
// touch State, so it only completes the result slot.
func (a *Actor) issueCommit(req *CommitRequest) {
	err := a.gate.Run(func() error {
		a.client.CommitAsync(context.Background(), req.Offsets, func(cbErr error) {
			req.Result.Complete(cbErr)
		})
		return nil
	})
	if err != nil {
		req.Result.Complete(&ClientError{Op: "CommitAsync", Err: err})
	}
}

// replayPendingCommits reissues commits that were parked during a
// rebalance, in the order they were submitted.
func (a *Actor) replayPendingCommits(pending []*CommitRequest) {
	for _, req := range pending {
		a.issueCommit(req)
	}
}

// CommitRecord commits offset+1 for a single record's TP. A commit that
// fails is retried for as long as a.cfg.CommitRecovery says so. Each
// attempt waits at most the configured CommitTimeout (and no longer than
// ctx allows); an attempt that is not answered in time returns
// ErrCommitTimeout at once, without consulting CommitRecovery. It is the
// engine behind the per-record commit function spec.md §6 describes.
func (a *Actor) CommitRecord(ctx context.Context, rec CommittedRecord) error {
	var meta *string
	if a.cfg.RecordMetadata != nil {
		meta = a.cfg.RecordMetadata(rec)
	}

	offsets := map[TP]CommitEntry{
		rec.TP: {Offset: rec.Offset + 1, Metadata: meta},
	}

	for attempt := 0; ; attempt++ {
		result := NewCompletable[error]()
		req := &CommitRequest{
			GroupID:   a.cfg.GroupID,
			RequestID: newRequestID(),
			Offsets:   offsets,
			Result:    result,
		}
		a.queue.push(commitMsg{req: req})

		commitCtx, cancel := context.WithTimeout(ctx, a.cfg.CommitTimeout)
		commitErr, waitErr := result.Await(commitCtx)
		cancel()

		if waitErr != nil {
			return ErrCommitTimeout
		}
		if commitErr == nil {
			return nil
		}

		recoverCtx := ContextWithCommittedRecord(ctx, rec)
		retry, wait := a.cfg.CommitRecovery.Recover(recoverCtx, attempt, commitErr)
		if !retry {
			return &CommitFailureError{Err: commitErr}
		}
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}
}

// RecordCommitFunc adapts a per-record commit invocation into a Commit
// request, matching spec.md §6's "per-record commit function closed over
// (tp, consumerGroupId, offsetAndMetadata, commitFn)".
type RecordCommitFunc func(ctx context.Context, rec CommittedRecord) error

// NewRecordCommitFunc returns the commit handle exposed to per-record
// commit objects in the public stream surface (an external collaborator
// the core only hands a closure to).
func (a *Actor) NewRecordCommitFunc() RecordCommitFunc {
	return a.CommitRecord
}
