package kafka

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Preflight checks the cluster before the actor starts: CheckTopics
// confirms the configured topics exist, and DescribeGroup reports the
// consumer group's current state. It does not reject a group that already
// has members attached. This is a one-time startup check, run before the actor's Run loop
// starts — never from inside it, per spec.md's admin-operations Non-goal.
type Preflight struct {
	admin *kadm.Client
}

// NewPreflight wraps an existing client with a kadm admin client. It does
// not take ownership of cl; the caller is still responsible for closing it
// once the real Adapter around the same client is done.
func NewPreflight(cl *kgo.Client) *Preflight {
	return &Preflight{admin: kadm.NewClient(cl)}
}

// CheckTopics verifies that every topic in topics exists, returning a
// descriptive error naming the first missing one.
func (p *Preflight) CheckTopics(ctx context.Context, topics []string) error {
	if len(topics) == 0 {
		return nil
	}
	details, err := p.admin.ListTopics(ctx, topics...)
	if err != nil {
		return fmt.Errorf("kafka: list topics: %w", err)
	}
	for _, topic := range topics {
		td, ok := details[topic]
		if !ok || td.Err != nil {
			return fmt.Errorf("kafka: topic %q does not exist or is unreadable", topic)
		}
	}
	return nil
}

// GroupState describes the observed state of the consumer group at
// startup, for logging/diagnostics only.
type GroupState struct {
	GroupID string
	State   string
	Members int
}

// DescribeGroup reports the consumer group's current state. A group in
// "Stable" with members already attached may indicate an unexpected second
// instance is running; it is the caller's decision what to do with that,
// this preflight only reports it.
func (p *Preflight) DescribeGroup(ctx context.Context, groupID string) (GroupState, error) {
	described, err := p.admin.DescribeGroups(ctx, groupID)
	if err != nil {
		return GroupState{}, fmt.Errorf("kafka: describe group: %w", err)
	}
	g, ok := described[groupID]
	if !ok {
		return GroupState{GroupID: groupID, State: "Unknown"}, nil
	}
	return GroupState{GroupID: groupID, State: g.State, Members: len(g.Members)}, nil
}
