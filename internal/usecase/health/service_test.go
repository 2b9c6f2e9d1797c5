package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/ragdex/internal/breaker"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockBreakers struct {
	statuses []breaker.Status
}

func (m *mockBreakers) Snapshot() []breaker.Status { return m.statuses }

func closedBreakers() *mockBreakers {
	return &mockBreakers{statuses: []breaker.Status{
		{Name: "embedding", State: breaker.StateClosed},
		{Name: "storage", State: breaker.StateClosed},
	}}
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, closedBreakers())
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if len(r.Breakers) != 2 {
		t.Errorf("expected 2 breaker statuses, got %d", len(r.Breakers))
	}
	if len(r.Unavailable) != 0 {
		t.Errorf("expected no unavailable dependencies, got %v", r.Unavailable)
	}
}

func TestCheck_DBErrorDegrades(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, closedBreakers())
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
}

func TestCheck_OpenEmbeddingBreakerDegrades(t *testing.T) {
	brs := &mockBreakers{statuses: []breaker.Status{
		{Name: "embedding", State: breaker.StateOpen, Failures: 5, RetryAfter: 12 * time.Second},
		{Name: "storage", State: breaker.StateClosed},
	}}
	svc := New(&mockDBPinger{}, brs)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if len(r.Unavailable) != 1 || r.Unavailable[0] != "embedding" {
		t.Errorf("unavailable = %v, want [embedding]", r.Unavailable)
	}
}

func TestCheck_HalfOpenDegrades(t *testing.T) {
	brs := &mockBreakers{statuses: []breaker.Status{
		{Name: "embedding", State: breaker.StateHalfOpen},
	}}
	svc := New(&mockDBPinger{}, brs)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	// Half-open is a probe in progress, not an outage.
	if len(r.Unavailable) != 0 {
		t.Errorf("unavailable = %v, want empty", r.Unavailable)
	}
}

func TestCheck_StorageGoneIsUnhealthy(t *testing.T) {
	brs := &mockBreakers{statuses: []breaker.Status{
		{Name: "embedding", State: breaker.StateClosed},
		{Name: "storage", State: breaker.StateOpen, Failures: 5},
	}}
	svc := New(&mockDBPinger{err: errors.New("db down")}, brs)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if len(r.Unavailable) != 1 || r.Unavailable[0] != "storage" {
		t.Errorf("unavailable = %v, want [storage]", r.Unavailable)
	}
}

func TestCheck_OpenStorageBreakerAloneDegrades(t *testing.T) {
	// Storage breaker open but the database answers pings again: stale
	// cache serving still works and the breaker will probe shortly.
	brs := &mockBreakers{statuses: []breaker.Status{
		{Name: "storage", State: breaker.StateOpen},
	}}
	svc := New(&mockDBPinger{}, brs)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
}
