// Package breaker implements per-dependency circuit breakers and the
// retry-with-backoff envelope wrapped around every external call.
package breaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// State is a circuit breaker state.
type State string

const (
	// StateClosed passes calls through; failures are counted.
	StateClosed State = "closed"
	// StateOpen fails all calls immediately until the cooldown elapses.
	StateOpen State = "open"
	// StateHalfOpen admits exactly one probe call.
	StateHalfOpen State = "half_open"
)

// Status is a point-in-time view of one breaker, used by the health monitor.
type Status struct {
	Name       string
	State      State
	Failures   int
	RetryAfter time.Duration // time until the half-open probe; zero unless open
}

// Breaker is a failure-isolation state machine for a single dependency.
// A state transition and its counter update happen atomically under one lock.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration
	clock     func() time.Time
	onChange  func(from, to State)

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// New creates a closed breaker. threshold is the consecutive-failure count
// that opens it; cooldown is how long it stays open before admitting a probe.
func New(name string, threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		name:      name,
		threshold: threshold,
		cooldown:  cooldown,
		clock:     time.Now,
		state:     StateClosed,
	}
}

// WithClock overrides the time source. Test hook.
func (b *Breaker) WithClock(clock func() time.Time) *Breaker {
	b.clock = clock
	return b
}

// WithOnChange registers a callback invoked on every state transition,
// outside hot-path locking concerns (called while holding the lock; keep it cheap).
func (b *Breaker) WithOnChange(fn func(from, to State)) *Breaker {
	b.onChange = fn
	return b
}

// Name returns the dependency identifier.
func (b *Breaker) Name() string { return b.name }

// Allow reports whether a call may proceed. Returns ErrCircuitOpen (wrapped
// with the dependency name) when the breaker is open or a half-open probe is
// already in flight. A successful Allow in half-open claims the probe slot;
// the caller must follow up with Record.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if b.clock().Sub(b.openedAt) < b.cooldown {
			return fmt.Errorf("%s: %w", b.name, domain.ErrCircuitOpen)
		}
		b.transition(StateHalfOpen)
		b.probing = true
		return nil
	case StateHalfOpen:
		if b.probing {
			return fmt.Errorf("%s: probe in flight: %w", b.name, domain.ErrCircuitOpen)
		}
		b.probing = true
		return nil
	default:
		panic(fmt.Sprintf("breaker %s in unknown state %q", b.name, b.state))
	}
}

// Record accounts the outcome of a call previously admitted by Allow.
// Success resets the failure counter and closes a half-open breaker;
// failure increments the counter and opens the breaker at the threshold
// (immediately, when the failure was the half-open probe).
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	probe := b.probing
	b.probing = false

	if err == nil {
		b.failures = 0
		if b.state != StateClosed {
			b.transition(StateClosed)
		}
		return
	}

	b.failures++
	if probe || b.failures >= b.threshold {
		b.openedAt = b.clock()
		if b.state != StateOpen {
			b.transition(StateOpen)
		}
	}
}

// Snapshot returns the breaker's current status without mutating it.
func (b *Breaker) Snapshot() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Status{Name: b.name, State: b.state, Failures: b.failures}
	if b.state == StateOpen {
		if remaining := b.cooldown - b.clock().Sub(b.openedAt); remaining > 0 {
			s.RetryAfter = remaining
		}
	}
	return s
}

// transition must be called with b.mu held.
func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	if b.onChange != nil {
		b.onChange(from, to)
	}
}
