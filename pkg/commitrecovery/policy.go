// Package commitrecovery provides kactor.CommitRecovery implementations:
// a no-retry policy, a bounded exponential backoff policy, and decorators
// that make a policy's final give-up observable by auditing it to Postgres
// or publishing it to a RabbitMQ dead-letter exchange.
package commitrecovery

import (
	"context"
	"math"
	"time"

	"kactor/pkg/kactor"
)

// NoRetry never retries; every failure gives up immediately. This is
// kactor's own internal default made public, for callers who want to
// compose it into a decorator explicitly instead of relying on the
// package-level zero value.
type NoRetry struct{}

// Recover implements kactor.CommitRecovery.
func (NoRetry) Recover(ctx context.Context, attempt int, err error) (retry bool, wait time.Duration) {
	return false, 0
}

var _ kactor.CommitRecovery = NoRetry{}

// ExponentialBackoff retries up to MaxAttempts times, doubling the wait
// from BaseDelay up to MaxDelay between attempts.
type ExponentialBackoff struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// NewExponentialBackoff returns a policy with sane defaults, following the
// teacher's DefaultConfig convention adapted to a value constructor since
// this type has no other required dependencies.
func NewExponentialBackoff() ExponentialBackoff {
	return ExponentialBackoff{
		MaxAttempts: 5,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    30 * time.Second,
	}
}

// Recover implements kactor.CommitRecovery.
func (b ExponentialBackoff) Recover(ctx context.Context, attempt int, err error) (retry bool, wait time.Duration) {
	if attempt >= b.MaxAttempts {
		return false, 0
	}
	delay := float64(b.BaseDelay) * math.Pow(2, float64(attempt))
	if delay > float64(b.MaxDelay) {
		delay = float64(b.MaxDelay)
	}
	return true, time.Duration(delay)
}

var _ kactor.CommitRecovery = ExponentialBackoff{}
