package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals a malformed query or invalid parameters.
	// Never retried, surfaced to the caller with a specific reason.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrCircuitOpen signals a short-circuited call: the dependency's
	// breaker is open and the call was not attempted.
	ErrCircuitOpen = errors.New("circuit open")
	// ErrDependencyUnavailable signals a transient failure that survived
	// the full retry budget.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrRetrievalFailed signals that all retrieval paths are down and no
	// fallback produced a result. Hard failure; nothing is fabricated.
	ErrRetrievalFailed = errors.New("all retrieval paths failed")
	// ErrRateLimited signals a rate limit hit on an external dependency.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// TransientError marks an error as retryable (network timeout, momentary
// unavailability, 5xx-equivalent). The retry envelope only retries errors
// classified transient.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %s", e.Err.Error())
}

func (e *TransientError) Unwrap() error { return e.Err }

// MarkTransient wraps err as transient. Returns nil for a nil err.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err should be retried. Deadline expiry counts
// as transient for breaker accounting; the caller still observes the
// deadline through its own context.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrDependencyUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}
