package kactor

import "context"

// Poll Handler (spec.md §4.7) — the central engine. Runs only once the
// actor is subscribed and at least one stream has registered.

func tpSet(tps []TP) map[TP]struct{} {
	s := make(map[TP]struct{}, len(tps))
	for _, tp := range tps {
		s[tp] = struct{}{}
	}
	return s
}

func setDiff(a, b map[TP]struct{}) []TP {
	out := make([]TP, 0, len(a))
	for tp := range a {
		if _, in := b[tp]; !in {
			out = append(out, tp)
		}
	}
	return out
}

func setIntersect(a, b map[TP]struct{}) map[TP]struct{} {
	out := make(map[TP]struct{})
	for tp := range a {
		if _, in := b[tp]; in {
			out[tp] = struct{}{}
		}
	}
	return out
}

func (a *Actor) handlePoll(ctx context.Context) {
	snap := a.store.Snapshot()
	if !snap.subscribed || !snap.streaming {
		return
	}
	initialRebalancing := snap.rebalancing

	var batch Batch
	pollErr := a.gate.Run(func() error {
		assigned := tpSet(a.client.Assignment())

		snapNow := a.store.Snapshot()
		requested := tpSet(snapNow.fetchedTPs)
		available := tpSet(snapNow.bufferedTPs)

		// resume = (requested ∩ assigned) ∖ available
		resume := setDiff(setIntersect(requested, assigned), available)
		// pause = assigned ∖ resume  (P4: pause ∪ resume = assigned, disjoint)
		resumeSet := tpSet(resume)
		pause := setDiff(assigned, resumeSet)

		a.client.Pause(pause)
		a.client.Resume(resume)

		b, err := a.client.Poll(ctx, a.cfg.PollTimeout)
		batch = b
		return err
	})
	if pollErr != nil {
		a.log.Error(ctx, "kactor: poll failed", "error", pollErr)
		return
	}

	a.store.Modify(func(st *internalState) Action {
		var actions []Action

		// Phase 3a: pending-commits flush, on the true→false transition.
		if initialRebalancing && !st.rebalancing && len(st.pendingCommits) > 0 {
			toReplay := st.pendingCommits
			st.pendingCommits = nil
			actions = append(actions, func() { a.replayPendingCommits(toReplay) })
		}

		// Phase 3b: batch merge.
		newRecords := batch.Records
		if len(st.fetches) == 0 {
			if len(newRecords) > 0 {
				for tp, recs := range newRecords {
					st.records[tp] = append(st.records[tp], recs...)
				}
			}
			return combineActions(actions)
		}

		for tp, recs := range newRecords {
			st.records[tp] = append(st.records[tp], recs...)
		}

		for tp, tokens := range st.fetches {
			chunk, hasRecords := st.records[tp]
			if !hasRecords {
				continue
			}
			chunkCopy := append([]Record(nil), chunk...)
			toks := tokens
			actions = append(actions, func() {
				for _, tok := range toks {
					tok.Complete(FetchResult{Records: chunkCopy, Reason: FetchedRecords})
				}
			})
			delete(st.fetches, tp)
			delete(st.records, tp)
		}

		return combineActions(actions)
	})
}
