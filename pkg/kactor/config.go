package kactor

import (
	"context"
	"fmt"
	"time"
)

// CommittedRecord is the minimal view of a record the per-record commit
// function and RecordMetadata need: enough to name an offset, nothing
// about its payload.
type CommittedRecord struct {
	TP     TP
	Offset int64
}

// CommitRecovery is invoked when an asynchronous commit callback reports
// failure. It decides whether the commit coordinator should resubmit the
// same commit, and if so after how long.
type CommitRecovery interface {
	// Recover is called with the 0-based retry attempt number and the
	// failure. retry=false means give up; the error is then surfaced to
	// the caller as *CommitFailureError. ctx carries the CommittedRecord
	// being recovered (CommittedRecordFromContext), so a recovery policy
	// that wants to audit or dead-letter an exhausted commit knows which
	// offset it gave up on without the interface needing a wider shape.
	Recover(ctx context.Context, attempt int, err error) (retry bool, wait time.Duration)
}

type committedRecordCtxKey struct{}

// ContextWithCommittedRecord attaches rec to ctx for the duration of a
// single CommitRecovery.Recover call.
func ContextWithCommittedRecord(ctx context.Context, rec CommittedRecord) context.Context {
	return context.WithValue(ctx, committedRecordCtxKey{}, rec)
}

// CommittedRecordFromContext retrieves the record attached by
// ContextWithCommittedRecord, if any.
func CommittedRecordFromContext(ctx context.Context) (CommittedRecord, bool) {
	rec, ok := ctx.Value(committedRecordCtxKey{}).(CommittedRecord)
	return rec, ok
}

// Config holds the options spec.md §6 recognizes, validated with the same
// hand-rolled if-chain convention the teacher's own leaf packages use
// (pkg/kafka, pkg/redis, pkg/postgres all hand-roll Validate()).
type Config struct {
	// GroupID is the consumer-group identifier, exposed to commit
	// requests for logging; optional.
	GroupID string

	// PollInterval is the cadence for the Periodic Poll Source: a lower
	// bound on poll frequency, not an upper bound on latency.
	PollInterval time.Duration

	// PollTimeout bounds each call into the native client's Poll.
	PollTimeout time.Duration

	// CommitTimeout bounds how long a caller waits for a Commit result.
	CommitTimeout time.Duration

	// CommitRecovery is consulted on commit failure. If nil, New installs
	// an internal no-retry policy (the same behaviour as
	// commitrecovery.NoRetry{}).
	CommitRecovery CommitRecovery

	// RecordMetadata attaches optional metadata to an offset-commit
	// entry for a given record. May be nil.
	RecordMetadata func(CommittedRecord) *string
}

// DefaultConfig returns sane defaults, following the teacher's
// DefaultConfig convention across its own leaf packages.
func DefaultConfig() Config {
	return Config{
		PollInterval:  200 * time.Millisecond,
		PollTimeout:   500 * time.Millisecond,
		CommitTimeout: 10 * time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("kactor: poll_interval must be greater than 0")
	}
	if c.PollTimeout <= 0 {
		return fmt.Errorf("kactor: poll_timeout must be greater than 0")
	}
	if c.CommitTimeout <= 0 {
		return fmt.Errorf("kactor: commit_timeout must be greater than 0")
	}
	return nil
}
