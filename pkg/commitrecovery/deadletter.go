package commitrecovery

import (
	"context"
	"time"

	"kactor/pkg/deadletter"
	"kactor/pkg/kactor"
)

// WithDeadLetter decorates inner the same way WithAudit does, but publishes
// the abandoned record to a dead-letter exchange instead of (or alongside)
// auditing it. Publisher.Publish blocks for confirmation, bounded by
// deadletter's own PublishTimeout; a publish failure is logged and
// swallowed, matching WithAudit's best-effort give-up reporting.
type WithDeadLetter struct {
	Inner     kactor.CommitRecovery
	Publisher *deadletter.Publisher
	GroupID   string
	Log       kactor.Logger
}

// Recover implements kactor.CommitRecovery.
func (w WithDeadLetter) Recover(ctx context.Context, attempt int, err error) (retry bool, wait time.Duration) {
	retry, wait = w.Inner.Recover(ctx, attempt, err)
	if retry {
		return retry, wait
	}

	rec, ok := kactor.CommittedRecordFromContext(ctx)
	if !ok {
		return retry, wait
	}

	dl := deadletter.Record{
		GroupID:   w.GroupID,
		Topic:     rec.TP.Topic,
		Partition: rec.TP.Partition,
		Offset:    rec.Offset,
		Reason:    err.Error(),
	}
	if pubErr := w.Publisher.Publish(context.Background(), dl); pubErr != nil && w.Log != nil {
		w.Log.Error(ctx, "commitrecovery: failed to dead-letter abandoned commit", "error", pubErr, "tp", rec.TP.String(), "offset", rec.Offset)
	}
	return retry, wait
}

var _ kactor.CommitRecovery = WithDeadLetter{}
