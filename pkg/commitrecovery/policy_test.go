package commitrecovery

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoRetryNeverRetries(t *testing.T) {
	retry, wait := NoRetry{}.Recover(context.Background(), 0, errors.New("boom"))
	if retry {
		t.Fatalf("NoRetry.Recover: got retry=true, want false")
	}
	if wait != 0 {
		t.Fatalf("NoRetry.Recover: got wait=%v, want 0", wait)
	}
}

func TestExponentialBackoffDoublesUntilMaxDelay(t *testing.T) {
	b := ExponentialBackoff{MaxAttempts: 10, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	retry, wait := b.Recover(context.Background(), 0, errors.New("x"))
	if !retry || wait != 100*time.Millisecond {
		t.Fatalf("attempt 0: got (%v, %v), want (true, 100ms)", retry, wait)
	}

	retry, wait = b.Recover(context.Background(), 1, errors.New("x"))
	if !retry || wait != 200*time.Millisecond {
		t.Fatalf("attempt 1: got (%v, %v), want (true, 200ms)", retry, wait)
	}

	retry, wait = b.Recover(context.Background(), 4, errors.New("x"))
	if !retry || wait != time.Second {
		t.Fatalf("attempt 4: got (%v, %v), want (true, capped at 1s)", retry, wait)
	}
}

func TestExponentialBackoffGivesUpAtMaxAttempts(t *testing.T) {
	b := ExponentialBackoff{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Second}

	retry, _ := b.Recover(context.Background(), 3, errors.New("x"))
	if retry {
		t.Fatalf("attempt == MaxAttempts: got retry=true, want false")
	}
	retry, _ = b.Recover(context.Background(), 10, errors.New("x"))
	if retry {
		t.Fatalf("attempt > MaxAttempts: got retry=true, want false")
	}
}
