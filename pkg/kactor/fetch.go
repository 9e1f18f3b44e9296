package kactor

import "context"

// Fetch Handler (spec.md §4.5). Invariant: at most one outstanding token
// per (tp, streamID); installing a second for the same key completes the
// first with PARTITION_REVOKED (P1).

func containsTP(tps []TP, target TP) bool {
	for _, tp := range tps {
		if tp == target {
			return true
		}
	}
	return false
}

func (a *Actor) handleFetch(m fetchMsg) {
	var assigned bool
	_ = a.gate.Run(func() error {
		assigned = containsTP(a.client.Assignment(), m.tp)
		return nil
	})
	if !assigned {
		a.log.Debug(context.Background(), "kactor: fetch on unassigned partition", "request_id", m.requestID, "tp", m.tp.String())
		m.token.Complete(FetchResult{Reason: PartitionRevoked})
		return
	}

	a.store.Modify(func(st *internalState) Action {
		var toRevoke []FetchToken
		oldPSID := st.partitionStreamIDs[m.tp]

		if oldPSID > m.psid {
			// Stale: a newer run of this partition already exists.
			// Drop (and revoke-complete) any token already occupying
			// this key, then revoke-complete the incoming one too —
			// mirroring the non-stale branch's "replaced token is
			// marked for revoked-completion" rule (P3).
			if existing, ok := st.fetches[m.tp][m.streamID]; ok {
				toRevoke = append(toRevoke, existing)
				delete(st.fetches[m.tp], m.streamID)
				if len(st.fetches[m.tp]) == 0 {
					delete(st.fetches, m.tp)
				}
			}
			toRevoke = append(toRevoke, m.token)
		} else {
			if st.fetches[m.tp] == nil {
				st.fetches[m.tp] = make(map[StreamID]FetchToken)
			}
			if existing, ok := st.fetches[m.tp][m.streamID]; ok {
				toRevoke = append(toRevoke, existing)
			}
			st.fetches[m.tp][m.streamID] = m.token
			if m.psid > oldPSID {
				st.partitionStreamIDs[m.tp] = m.psid
			}
		}

		return func() {
			for _, tok := range toRevoke {
				tok.Complete(FetchResult{Reason: PartitionRevoked})
			}
		}
	})
}
