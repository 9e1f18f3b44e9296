package kactor

import (
	"context"
	"sort"
	"testing"
	"time"
)

func tpSetEqual(t *testing.T, got []TP, want ...TP) {
	t.Helper()
	sortTPs := func(tps []TP) []TP {
		out := append([]TP(nil), tps...)
		sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
		return out
	}
	g, w := sortTPs(got), sortTPs(want)
	if len(g) != len(w) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range g {
		if g[i] != w[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// P4: pause ∪ resume == assigned, disjoint, and a partition is only
// resumed when its demand is not already satisfiable from the buffer.
func TestPauseResumeCoversAssignedPartitions(t *testing.T) {
	actor, client, _ := newTestActor(t)
	tpA := TP{Topic: "t", Partition: 0}
	tpB := TP{Topic: "t", Partition: 1}
	subscribeAndStream(t, actor, client, []TP{tpA, tpB})

	// Poll 1: no demand registered at all yet. Everything assigned gets
	// paused, nothing resumed. The batch buffers r0 for tpA.
	client.pollResults = []Batch{{Records: map[TP][]Record{tpA: {rec(tpA, 0)}}}}
	triggerPollAndWait(t, actor)

	if len(client.pauseCalls) != 1 {
		t.Fatalf("expected one pause call, got %d", len(client.pauseCalls))
	}
	tpSetEqual(t, client.pauseCalls[0], tpA, tpB)
	if len(client.resumeCalls[0]) != 0 {
		t.Fatalf("resumeCalls[0] = %v, want empty", client.resumeCalls[0])
	}

	// Register demand on tpA while r0 is already buffered: the decision
	// for the next poll must see tpA as already-available and keep it
	// paused rather than resume it.
	fetch1 := make(chan FetchResult, 1)
	go func() {
		ctx, cancel := withTimeout(t)
		defer cancel()
		res, _ := actor.Fetch(ctx, tpA, 1, 1)
		fetch1 <- res
	}()
	waitForState(t, actor, func(st *internalState) bool {
		_, ok := st.fetches[tpA][1]
		return ok
	})

	client.pollResults = []Batch{{}}
	triggerPoll(actor)
	res := <-fetch1
	if res.Reason != FetchedRecords || len(res.Records) != 1 {
		t.Fatalf("fetch1 = %+v, want the buffered r0", res)
	}

	tpSetEqual(t, client.pauseCalls[1], tpA, tpB)
	if len(client.resumeCalls[1]) != 0 {
		t.Fatalf("resumeCalls[1] = %v, want empty (tpA already available)", client.resumeCalls[1])
	}

	// Register demand again now that nothing is buffered: tpA must be
	// resumed this time, tpB (no demand) stays paused.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_, _ = actor.Fetch(ctx, tpA, 1, 2)
	}()
	waitForState(t, actor, func(st *internalState) bool {
		_, ok := st.fetches[tpA][1]
		return ok
	})

	client.pollResults = []Batch{{}}
	triggerPollAndWait(t, actor)

	last := len(client.pauseCalls) - 1
	tpSetEqual(t, client.resumeCalls[last], tpA)
	tpSetEqual(t, client.pauseCalls[last], tpB)
}
