package kafka

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"

	"kactor/pkg/kactor"
)

// Adapter wraps a *kgo.Client behind kactor.Client. Every exported method
// of kactor.Client is called by the actor from inside its Client Gate.
// Assignment is also safe to call outside the gate, since franz-go's own
// accessor is concurrency-safe.
type Adapter struct {
	cl *kgo.Client

	mu       sync.Mutex
	listener kactor.RebalanceListener
}

// NewAdapter constructs the underlying client with BlockRebalanceOnPoll
// and auto-commit disabled, the same combination the teacher's
// pkg/kafka/connection.go uses for its own split-consumer example:
// offset commits are entirely the actor's responsibility via
// CommitAsync, never the client's.
func NewAdapter(ctx context.Context, cfg Config) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka: invalid config: %w", err)
	}

	a := &Adapter{}
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.OnPartitionsAssigned(a.onAssigned),
		kgo.OnPartitionsRevoked(a.onRevoked),
		kgo.OnPartitionsLost(a.onRevoked),
		kgo.DisableAutoCommit(),
		kgo.BlockRebalanceOnPoll(),
	}
	if len(cfg.Topics) > 0 {
		opts = append(opts, kgo.ConsumeTopics(cfg.Topics...))
	}

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("kafka: new client: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := cl.Ping(connectCtx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("kafka: ping: %w", err)
	}

	a.cl = cl
	return a, nil
}

// Close releases the underlying client. Not part of kactor.Client: the
// actor never closes the client it was handed, per spec.md's "client
// construction is the caller's concern" note.
func (a *Adapter) Close() { a.cl.Close() }

// RawClient returns the underlying *kgo.Client, for collaborators like
// kafka.Preflight and lagreport.Reporter that need admin-API access
// alongside (never inside) the actor's own Client Gate calls.
func (a *Adapter) RawClient() *kgo.Client { return a.cl }

func (a *Adapter) currentListener() kactor.RebalanceListener {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listener
}

func (a *Adapter) onAssigned(_ context.Context, _ *kgo.Client, assigned map[string][]int32) {
	l := a.currentListener()
	if l.OnAssigned != nil {
		l.OnAssigned(toTPs(assigned))
	}
}

func (a *Adapter) onRevoked(_ context.Context, _ *kgo.Client, revoked map[string][]int32) {
	l := a.currentListener()
	if l.OnRevoked != nil {
		l.OnRevoked(toTPs(revoked))
	}
}

func toTPs(m map[string][]int32) []kactor.TP {
	var out []kactor.TP
	for topic, partitions := range m {
		for _, p := range partitions {
			out = append(out, kactor.TP{Topic: topic, Partition: p})
		}
	}
	return out
}

// Subscribe registers listener and adds topics to the consumer group
// subscription. franz-go propagates this to the group balancer and will
// invoke onAssigned/onRevoked on a future Poll once the rebalance
// completes.
func (a *Adapter) Subscribe(ctx context.Context, topics []string, listener kactor.RebalanceListener) error {
	a.mu.Lock()
	a.listener = listener
	a.mu.Unlock()
	a.cl.AddConsumeTopics(topics...)
	return nil
}

// SubscribePattern resolves pattern against the cluster's current topic
// list via kadm (a one-time admin call, not a standing watch) and adds
// the matches the same way Subscribe does. franz-go's own ConsumeRegex
// option is construction-time only, so runtime pattern subscription is
// realized as "snapshot cluster metadata, then subscribe to what matches".
func (a *Adapter) SubscribePattern(ctx context.Context, pattern string, listener kactor.RebalanceListener) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("kafka: invalid topic pattern: %w", err)
	}

	admin := kadm.NewClient(a.cl)
	topics, err := admin.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("kafka: list topics: %w", err)
	}

	var matched []string
	for name := range topics {
		if re.MatchString(name) {
			matched = append(matched, name)
		}
	}

	a.mu.Lock()
	a.listener = listener
	a.mu.Unlock()
	a.cl.AddConsumeTopics(matched...)
	return nil
}

// Assign manually assigns partitions, bypassing the consumer group
// protocol; no rebalance callbacks fire for partitions assigned this way.
func (a *Adapter) Assign(ctx context.Context, tps []kactor.TP) error {
	offsets := make(map[string]map[int32]kgo.Offset, len(tps))
	for _, tp := range tps {
		if offsets[tp.Topic] == nil {
			offsets[tp.Topic] = make(map[int32]kgo.Offset)
		}
		offsets[tp.Topic][tp.Partition] = kgo.NewOffset().AtStart()
	}
	a.cl.AddConsumePartitions(offsets)
	return nil
}

// Unsubscribe drops the current subscription or manual assignment.
func (a *Adapter) Unsubscribe(ctx context.Context) error {
	a.cl.PurgeTopicsFromClient()
	return nil
}

// Assignment returns the partitions currently owned by this client.
func (a *Adapter) Assignment() []kactor.TP {
	var out []kactor.TP
	for topic, partitions := range a.cl.GetConsumePartitions() {
		for partition := range partitions {
			out = append(out, kactor.TP{Topic: topic, Partition: partition})
		}
	}
	return out
}

// Pause stops fetching the given partitions.
func (a *Adapter) Pause(tps []kactor.TP) {
	byTopic := groupByTopic(tps)
	if len(byTopic) > 0 {
		a.cl.PauseFetchPartitions(byTopic)
	}
}

// Resume restarts fetching the given partitions.
func (a *Adapter) Resume(tps []kactor.TP) {
	byTopic := groupByTopic(tps)
	if len(byTopic) > 0 {
		a.cl.ResumeFetchPartitions(byTopic)
	}
}

func groupByTopic(tps []kactor.TP) map[string][]int32 {
	out := make(map[string][]int32, len(tps))
	for _, tp := range tps {
		out[tp.Topic] = append(out[tp.Topic], tp.Partition)
	}
	return out
}

// Poll fetches the next batch, bounded by timeout, and allows any
// rebalance the group coordinator requested to proceed once this batch
// has been handed back — matching BlockRebalanceOnPoll's contract that
// onAssigned/onRevoked run synchronously inside the *next* PollFetches
// call after AllowRebalance is invoked.
func (a *Adapter) Poll(ctx context.Context, timeout time.Duration) (kactor.Batch, error) {
	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fetches := a.cl.PollFetches(pollCtx)
	defer a.cl.AllowRebalance()

	if fetches.IsClientClosed() {
		return kactor.Batch{}, fmt.Errorf("kafka: client closed")
	}

	var firstErr error
	fetches.EachError(func(topic string, partition int32, err error) {
		if firstErr == nil {
			firstErr = fmt.Errorf("kafka: fetch error topic=%s partition=%d: %w", topic, partition, err)
		}
	})

	records := make(map[kactor.TP][]kactor.Record)
	fetches.EachPartition(func(p kgo.FetchTopicPartition) {
		tp := kactor.TP{Topic: p.Topic, Partition: p.Partition}
		for _, rec := range p.Records {
			records[tp] = append(records[tp], toRecord(rec))
		}
	})

	return kactor.Batch{Records: records}, firstErr
}

func toRecord(rec *kgo.Record) kactor.Record {
	headers := make(map[string]string, len(rec.Headers))
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}
	return kactor.Record{
		TP:        kactor.TP{Topic: rec.Topic, Partition: rec.Partition},
		Offset:    rec.Offset,
		Timestamp: rec.Timestamp.UnixMilli(),
		Key:       rec.Key,
		Value:     rec.Value,
		Headers:   headers,
	}
}

// CommitAsync issues an asynchronous offset commit. onDone is invoked from
// the client's internal response-handling goroutine, matching
// kactor.Client's documented contract.
func (a *Adapter) CommitAsync(ctx context.Context, offsets map[kactor.TP]kactor.CommitEntry, onDone func(error)) {
	if len(offsets) == 0 {
		onDone(nil)
		return
	}

	toCommit := make(map[string]map[int32]kgo.EpochOffset, len(offsets))
	for tp, entry := range offsets {
		if toCommit[tp.Topic] == nil {
			toCommit[tp.Topic] = make(map[int32]kgo.EpochOffset)
		}
		toCommit[tp.Topic][tp.Partition] = kgo.EpochOffset{Epoch: -1, Offset: entry.Offset}
	}

	a.cl.CommitOffsetsAsync(ctx, toCommit, func(_ *kgo.Client, _ *kmsg.OffsetCommitRequest, _ *kmsg.OffsetCommitResponse, err error) {
		onDone(err)
	})
}
