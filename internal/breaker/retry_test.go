package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

func fastPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestDo_SuccessFirstAttempt(t *testing.T) {
	b := New("dep", 5, time.Second)
	calls := 0

	got, err := Do(context.Background(), b, fastPolicy(), func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got != 42 || calls != 1 {
		t.Fatalf("got %d after %d calls, want 42 after 1", got, calls)
	}
}

func TestDo_RetriesTransientThenSucceeds(t *testing.T) {
	b := New("dep", 5, time.Second)
	calls := 0

	got, err := Do(context.Background(), b, fastPolicy(), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", domain.MarkTransient(errBoom)
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Fatalf("got %q after %d calls, want \"ok\" after 3", got, calls)
	}
}

func TestDo_ExhaustedTransientWrapsUnavailable(t *testing.T) {
	b := New("dep", 10, time.Second)
	calls := 0

	_, err := Do(context.Background(), b, fastPolicy(), func(context.Context) (int, error) {
		calls++
		return 0, domain.MarkTransient(errBoom)
	})
	if !errors.Is(err, domain.ErrDependencyUnavailable) {
		t.Fatalf("Do = %v, want ErrDependencyUnavailable", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestDo_PermanentNotRetried(t *testing.T) {
	b := New("dep", 5, time.Second)
	calls := 0
	permanent := errors.New("bad credentials")

	_, err := Do(context.Background(), b, fastPolicy(), func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Do = %v, want the permanent error", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry)", calls)
	}
}

func TestDo_OpenBreakerShortCircuits(t *testing.T) {
	b := New("dep", 1, time.Minute)
	failN(t, b, 1) // open it

	calls := 0
	_, err := Do(context.Background(), b, fastPolicy(), func(context.Context) (int, error) {
		calls++
		return 0, nil
	})
	if !errors.Is(err, domain.ErrCircuitOpen) {
		t.Fatalf("Do = %v, want ErrCircuitOpen", err)
	}
	if calls != 0 {
		t.Fatalf("calls = %d, want 0 (short-circuit must not invoke fn)", calls)
	}
}

func TestDo_BreakerOpensMidRetryStopsAttempts(t *testing.T) {
	// Threshold 2: the second transient failure opens the breaker and the
	// third attempt must be short-circuited.
	b := New("dep", 2, time.Minute)
	calls := 0

	_, err := Do(context.Background(), b, fastPolicy(), func(context.Context) (int, error) {
		calls++
		return 0, domain.MarkTransient(errBoom)
	})
	if !errors.Is(err, domain.ErrCircuitOpen) {
		t.Fatalf("Do = %v, want ErrCircuitOpen", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestDo_ContextCancelledBetweenAttempts(t *testing.T) {
	b := New("dep", 10, time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := Do(ctx, b, Policy{MaxAttempts: 3, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second},
		func(context.Context) (int, error) {
			cancel()
			return 0, domain.MarkTransient(errBoom)
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do = %v, want context.Canceled", err)
	}
}

func TestBackoffDelay_DoublesAndCaps(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond}

	for attempt, maxWant := range []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond, // capped
		300 * time.Millisecond, // capped
	} {
		got := backoffDelay(p, attempt)
		if got < maxWant/2 || got > maxWant {
			t.Fatalf("attempt %d delay = %v, want in [%v, %v]", attempt, got, maxWant/2, maxWant)
		}
	}
}
