package kactor

import (
	"context"
	"time"
)

// Periodic Poll Source (spec.md §4.9): enqueues a Poll request at a fixed
// cadence so the actor keeps running even with no fresh user demand.
// Enqueues never block; if a prior Poll is still queued or being
// processed, this one simply queues behind it.
func (a *Actor) runPeriodicPollSource(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.queue.push(pollMsg{})
		}
	}
}
