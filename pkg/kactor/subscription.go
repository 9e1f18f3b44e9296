package kactor

// Subscription Surface (spec.md §4.4): subscribe/assign/unsubscribe move
// the native client and the subscribed lifecycle flag together under the
// gate; Assignment reads the current assignment and optionally registers
// a rebalance listener for future stream registrations.

func (a *Actor) reactorListener() RebalanceListener {
	return RebalanceListener{
		OnAssigned: a.onAssigned,
		OnRevoked:  a.onRevoked,
	}
}

func (a *Actor) handleSubscribeTopics(m subscribeTopicsMsg) {
	err := a.gate.Run(func() error {
		return a.client.Subscribe(m.ctx, m.topics, a.reactorListener())
	})
	if err != nil {
		a.log.Error(m.ctx, "kactor: subscribe failed", "request_id", m.requestID, "topics", m.topics, "error", err)
		m.result.Complete(&ClientError{Op: "Subscribe", Err: err})
		return
	}
	a.store.Modify(func(st *internalState) Action {
		st.subscribed = true
		return nil
	})
	a.log.Info(m.ctx, "kactor: subscribed", "request_id", m.requestID, "topics", m.topics)
	m.result.Complete(nil)
}

func (a *Actor) handleSubscribePattern(m subscribePatternMsg) {
	err := a.gate.Run(func() error {
		return a.client.SubscribePattern(m.ctx, m.pattern, a.reactorListener())
	})
	if err != nil {
		a.log.Error(m.ctx, "kactor: subscribe pattern failed", "request_id", m.requestID, "pattern", m.pattern, "error", err)
		m.result.Complete(&ClientError{Op: "SubscribePattern", Err: err})
		return
	}
	a.store.Modify(func(st *internalState) Action {
		st.subscribed = true
		return nil
	})
	a.log.Info(m.ctx, "kactor: subscribed to pattern", "request_id", m.requestID, "pattern", m.pattern)
	m.result.Complete(nil)
}

func (a *Actor) handleAssign(m assignMsg) {
	err := a.gate.Run(func() error {
		return a.client.Assign(m.ctx, m.tps)
	})
	if err != nil {
		a.log.Error(m.ctx, "kactor: assign failed", "request_id", m.requestID, "error", err)
		m.result.Complete(&ClientError{Op: "Assign", Err: err})
		return
	}
	a.store.Modify(func(st *internalState) Action {
		st.subscribed = true
		return nil
	})
	a.log.Info(m.ctx, "kactor: assigned", "request_id", m.requestID, "partitions", m.tps)
	m.result.Complete(nil)
}

func (a *Actor) handleUnsubscribe(m unsubscribeMsg) {
	err := a.gate.Run(func() error {
		return a.client.Unsubscribe(m.ctx)
	})
	if err != nil {
		a.log.Error(m.ctx, "kactor: unsubscribe failed", "request_id", m.requestID, "error", err)
		m.result.Complete(&ClientError{Op: "Unsubscribe", Err: err})
		return
	}
	a.store.Modify(func(st *internalState) Action {
		st.subscribed = false
		return nil
	})
	a.log.Info(m.ctx, "kactor: unsubscribed", "request_id", m.requestID)
	m.result.Complete(nil)
}

func (a *Actor) handleAssignment(m assignmentMsg) {
	subscribed := a.store.Snapshot().subscribed
	if !subscribed {
		m.result.Complete(assignmentResult{err: ErrNotSubscribed})
		return
	}

	var assigned []TP
	err := a.gate.Run(func() error {
		assigned = a.client.Assignment()
		return nil
	})
	if err != nil {
		m.result.Complete(assignmentResult{err: &ClientError{Op: "Assignment", Err: err}})
		return
	}

	if m.listener != nil {
		a.store.Modify(func(st *internalState) Action {
			st.onRebalances = append(st.onRebalances, *m.listener)
			st.streaming = true
			return nil
		})
	}

	m.result.Complete(assignmentResult{tps: assigned})
}
