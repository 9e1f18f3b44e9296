package kactor

import "testing"

// Scenario 3 (spec.md §8.3): revoke completes an outstanding token with
// whatever was already buffered for that partition, reason PARTITION_REVOKED.
func TestRevokeWithBufferedRecordsCompletesToken(t *testing.T) {
	actor, client, _ := newTestActor(t)
	tp := TP{Topic: "t", Partition: 0}
	subscribeAndStream(t, actor, client, []TP{tp})

	// Buffer r0 with no fetch registered yet.
	client.pollResults = []Batch{{Records: map[TP][]Record{tp: {rec(tp, 0)}}}}
	triggerPollAndWait(t, actor)

	resultCh := make(chan FetchResult, 1)
	go func() {
		ctx, cancel := withTimeout(t)
		defer cancel()
		res, _ := actor.Fetch(ctx, tp, 1, 1)
		resultCh <- res
	}()
	waitForState(t, actor, func(st *internalState) bool {
		_, ok := st.fetches[tp][1]
		return ok
	})

	// Revoke fires synchronously from inside the next Poll, before its
	// own (empty) batch is merged — exactly as franz-go invokes callbacks.
	client.pollResults = []Batch{{}}
	client.beforePollReturn = func(c *fakeClient) {
		c.revokeNow([]TP{tp})
	}
	triggerPoll(actor)

	res := <-resultCh
	if res.Reason != PartitionRevoked {
		t.Fatalf("reason = %v, want PartitionRevoked", res.Reason)
	}
	if len(res.Records) != 1 || res.Records[0].Offset != 0 {
		t.Fatalf("records = %+v, want buffered [r0]", res.Records)
	}

	snap := actor.store.Snapshot()
	if len(snap.fetchedTPs) != 0 || len(snap.bufferedTPs) != 0 {
		t.Fatalf("expected revoked tp fully drained, got %+v", snap)
	}
}

// A revoked partition with no outstanding fetch simply drops whatever was
// buffered for it; nothing observes that data again.
func TestRevokeWithoutFetchDropsBufferedRecords(t *testing.T) {
	actor, client, _ := newTestActor(t)
	tp := TP{Topic: "t", Partition: 0}
	subscribeAndStream(t, actor, client, []TP{tp})

	client.pollResults = []Batch{{Records: map[TP][]Record{tp: {rec(tp, 0)}}}}
	triggerPollAndWait(t, actor)

	snap := actor.store.Snapshot()
	if len(snap.bufferedTPs) != 1 {
		t.Fatalf("expected r0 buffered before revoke, got %+v", snap)
	}

	client.revokeNow([]TP{tp})

	snap = actor.store.Snapshot()
	if len(snap.bufferedTPs) != 0 {
		t.Fatalf("expected buffered records dropped on revoke, got %+v", snap)
	}
}

// P5: assignment changes fan out to every stream that registered a
// rebalance listener via Assignment, and the rebalancing flag clears on
// the matching assign.
func TestRebalanceListenersAreNotifiedInOrder(t *testing.T) {
	actor, client, _ := newTestActor(t)
	tpA := TP{Topic: "t", Partition: 0}
	tpB := TP{Topic: "t", Partition: 1}
	subscribeAndStream(t, actor, client, []TP{tpA, tpB})

	var revokedSeen, assignedSeen []TP
	doneCh := make(chan struct{}, 2)
	ctx, cancel := withTimeout(t)
	defer cancel()
	_, err := actor.Assignment(ctx, &RebalanceListener{
		OnRevoked: func(tps []TP) {
			revokedSeen = append(revokedSeen, tps...)
			doneCh <- struct{}{}
		},
		OnAssigned: func(tps []TP) {
			assignedSeen = append(assignedSeen, tps...)
			doneCh <- struct{}{}
		},
	})
	if err != nil {
		t.Fatalf("Assignment: %v", err)
	}

	client.revokeNow([]TP{tpA})
	<-doneCh
	snap := actor.store.Snapshot()
	if !snap.rebalancing {
		t.Fatalf("expected rebalancing=true after revoke")
	}

	client.assignNow([]TP{tpA})
	<-doneCh
	snap = actor.store.Snapshot()
	if snap.rebalancing {
		t.Fatalf("expected rebalancing=false after assign")
	}

	if len(revokedSeen) != 1 || revokedSeen[0] != tpA {
		t.Fatalf("revokedSeen = %v", revokedSeen)
	}
	if len(assignedSeen) != 1 || assignedSeen[0] != tpA {
		t.Fatalf("assignedSeen = %v", assignedSeen)
	}
}
