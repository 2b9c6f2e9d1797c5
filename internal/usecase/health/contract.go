package health

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/breaker"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// BreakerReader exposes a read-only view of all registered breakers.
type BreakerReader interface {
	Snapshot() []breaker.Status
}
