package commitrecovery

import (
	"context"
	"time"

	"kactor/pkg/auditstore"
	"kactor/pkg/kactor"
)

// WithAudit decorates inner with a side effect: when inner finally gives up
// on a commit, the abandoned record is written to store as a
// commit_failures row before the give-up is reported to the caller. The
// retry decision itself is always inner's; this decorator never changes it.
type WithAudit struct {
	Inner   kactor.CommitRecovery
	Store   *auditstore.Store
	GroupID string
	Log     kactor.Logger
}

// Recover implements kactor.CommitRecovery.
func (w WithAudit) Recover(ctx context.Context, attempt int, err error) (retry bool, wait time.Duration) {
	retry, wait = w.Inner.Recover(ctx, attempt, err)
	if retry {
		return retry, wait
	}

	rec, ok := kactor.CommittedRecordFromContext(ctx)
	if !ok {
		return retry, wait
	}

	fc := auditstore.FailedCommit{
		GroupID:    w.GroupID,
		Topic:      rec.TP.Topic,
		Partition:  rec.TP.Partition,
		Offset:     rec.Offset,
		Reason:     err.Error(),
		RecordedAt: time.Now(),
	}
	if auditErr := w.Store.Record(context.Background(), fc); auditErr != nil && w.Log != nil {
		w.Log.Error(ctx, "commitrecovery: failed to audit abandoned commit", "error", auditErr, "tp", rec.TP.String(), "offset", rec.Offset)
	}
	return retry, wait
}

var _ kactor.CommitRecovery = WithAudit{}
