// Package health aggregates dependency checks and circuit breaker state
// into one system health snapshot. Read-only; never mutates breaker state.
package health

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/breaker"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all dependencies are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure with the core path still serving
	// through fallbacks.
	Degraded Status = "degraded"
	// Unhealthy indicates all retrieval paths are unavailable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results and breaker state.
type Report struct {
	Status      Status
	Checks      map[string]CheckResult
	Breakers    []breaker.Status
	Unavailable []string // dependencies with an open breaker
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	breakers BreakerReader
}

// New creates a Service.
func New(db DBPinger, breakers BreakerReader) *Service {
	return &Service{db: db, breakers: breakers}
}

// Check builds the current health snapshot. The system is degraded while
// any breaker is not closed or a check fails; it is unhealthy only when
// storage itself is gone, since every retrieval fallback ends there.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	dbDown := false
	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		dbDown = true
	} else {
		checks["database"] = CheckOK
	}

	snapshots := s.breakers.Snapshot()

	var unavailable []string
	storageOpen := false
	for _, b := range snapshots {
		if b.State == breaker.StateOpen {
			unavailable = append(unavailable, b.Name)
			if b.Name == "storage" {
				storageOpen = true
			}
		}
	}

	status := Healthy
	switch {
	case dbDown && storageOpen:
		status = Unhealthy
	case dbDown || degradedBreakers(snapshots):
		status = Degraded
	}

	return Report{
		Status:      status,
		Checks:      checks,
		Breakers:    snapshots,
		Unavailable: unavailable,
	}
}

func degradedBreakers(snapshots []breaker.Status) bool {
	for _, b := range snapshots {
		if b.State != breaker.StateClosed {
			return true
		}
	}
	return false
}
