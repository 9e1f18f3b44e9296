package kactor

// Rebalance Reactor (spec.md §4.8). onRevoked/onAssigned are invoked
// synchronously by the native client from inside Poll, on the actor's own
// goroutine — they must never acquire the gate again.

func (a *Actor) onRevoked(revoked []TP) {
	a.store.Modify(func(st *internalState) Action {
		st.rebalancing = true

		var tokenActions []Action
		for _, tp := range revoked {
			tokens, hasFetches := st.fetches[tp]
			if hasFetches {
				records, hasRecords := st.records[tp]
				var chunk []Record
				if hasRecords {
					chunk = records
				}
				toks := tokens
				tokenActions = append(tokenActions, func() {
					for _, tok := range toks {
						tok.Complete(FetchResult{Records: chunk, Reason: PartitionRevoked})
					}
				})
				delete(st.fetches, tp)
				if hasRecords {
					delete(st.records, tp)
				}
			} else {
				delete(st.records, tp)
			}
		}

		listeners := append([]RebalanceListener(nil), st.onRebalances...)
		revokedCopy := append([]TP(nil), revoked...)
		notify := func() {
			for _, l := range listeners {
				if l.OnRevoked != nil {
					l.OnRevoked(revokedCopy)
				}
			}
		}

		return combineActions(append(tokenActions, notify))
	})
}

func (a *Actor) onAssigned(assigned []TP) {
	a.store.Modify(func(st *internalState) Action {
		st.rebalancing = false

		listeners := append([]RebalanceListener(nil), st.onRebalances...)
		assignedCopy := append([]TP(nil), assigned...)
		return func() {
			for _, l := range listeners {
				if l.OnAssigned != nil {
					l.OnAssigned(assignedCopy)
				}
			}
		}
	})
}
