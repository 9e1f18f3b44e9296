package lagreport

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"kactor/pkg/kactor"
)

// AssignmentSource is the slice of kactor.Actor a Reporter needs: its
// current partition assignment. A narrow interface instead of *kactor.Actor
// so this package never depends on kactor's internals beyond the public
// upward API spec.md defines.
type AssignmentSource interface {
	Assignment(ctx context.Context, listener *kactor.RebalanceListener) ([]kactor.TP, error)
}

// Reporter periodically computes per-partition lag (end offset minus
// committed offset) for a consumer group's current assignment and caches
// it. It never talks to the actor's Client Gate: lag is end-offset minus
// committed-offset, both read through kadm, entirely outside the core.
type Reporter struct {
	actor   AssignmentSource
	admin   *kadm.Client
	cache   *Cache
	groupID string
	every   time.Duration
	log     kactor.Logger
}

// NewReporter builds a Reporter. cl is the same *kgo.Client the actor's
// kafka.Adapter wraps; kadm reads are safe to issue concurrently with the
// actor's own Poll/CommitAsync calls since they use the admin API, not the
// consumer-group fetch path.
func NewReporter(actor AssignmentSource, cl *kgo.Client, cache *Cache, groupID string, every time.Duration, log kactor.Logger) *Reporter {
	if log == nil {
		log = noopLogger{}
	}
	return &Reporter{
		actor:   actor,
		admin:   kadm.NewClient(cl),
		cache:   cache,
		groupID: groupID,
		every:   every,
		log:     log,
	}
}

type noopLogger struct{}

func (noopLogger) Debug(context.Context, string, ...any) {}
func (noopLogger) Info(context.Context, string, ...any)  {}
func (noopLogger) Warn(context.Context, string, ...any)  {}
func (noopLogger) Error(context.Context, string, ...any) {}

// Run loops until ctx is cancelled, computing and caching a snapshot every
// r.every.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.snapshotOnce(ctx); err != nil {
				r.log.Error(ctx, "lagreport: snapshot failed", "error", err)
			}
		}
	}
}

func (r *Reporter) snapshotOnce(ctx context.Context) error {
	tps, err := r.actor.Assignment(ctx, nil)
	if err != nil {
		return fmt.Errorf("assignment: %w", err)
	}
	if len(tps) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var topics []string
	for _, tp := range tps {
		if _, ok := seen[tp.Topic]; !ok {
			seen[tp.Topic] = struct{}{}
			topics = append(topics, tp.Topic)
		}
	}

	ends, err := r.admin.ListEndOffsets(ctx, topics...)
	if err != nil {
		return fmt.Errorf("list end offsets: %w", err)
	}

	committed, err := r.admin.FetchOffsets(ctx, r.groupID)
	if err != nil {
		return fmt.Errorf("fetch committed offsets: %w", err)
	}

	lags := make(map[kactor.TP]int64, len(tps))
	for _, tp := range tps {
		end, ok := ends.Lookup(tp.Topic, tp.Partition)
		if !ok {
			continue
		}
		var committedOffset int64
		if o, ok := committed.Lookup(tp.Topic, tp.Partition); ok {
			committedOffset = o.At
		}
		lag := end.Offset - committedOffset
		if lag < 0 {
			lag = 0
		}
		lags[tp] = lag
	}

	return r.cache.Put(ctx, r.groupID, lags)
}
