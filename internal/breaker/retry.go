package breaker

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Policy configures the retry envelope.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy returns the standard envelope: 3 attempts, 100ms base delay
// doubling per attempt, capped at 5s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Do runs fn through the breaker with retries for transient failures.
//
// Composition rules: an open breaker short-circuits without consuming the
// retry budget; non-transient errors propagate immediately; a transient
// failure that survives every attempt is wrapped in ErrDependencyUnavailable.
// Backoff doubles per attempt with randomized jitter so concurrent callers
// do not retry in lockstep.
func Do[T any](ctx context.Context, b *Breaker, p Policy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if err := b.Allow(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		b.Record(err)
		if err == nil {
			return result, nil
		}

		if !domain.IsTransient(err) {
			return zero, err
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoffDelay(p, attempt)):
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", domain.ErrDependencyUnavailable, attempts, lastErr)
}

// backoffDelay returns the sleep before the next attempt: exponential in the
// attempt number, jittered over the upper half to spread retry storms.
func backoffDelay(p Policy, attempt int) time.Duration {
	delay := p.BaseDelay << uint(attempt)
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	if delay <= 0 {
		return 0
	}
	half := delay / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}
