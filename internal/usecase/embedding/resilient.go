// Package embedding wraps the embedding provider with the resilience
// envelope: circuit breaking, retries for transient failures, and logging.
package embedding

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/breaker"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

// ResilientEmbedder routes every provider call through a circuit breaker
// and the retry policy. It wraps the provider directly, underneath the
// embedding cache, so only real provider calls reach the breaker.
type ResilientEmbedder struct {
	inner   domain.Embedder
	breaker *breaker.Breaker
	policy  breaker.Policy
	logger  *zap.Logger
}

// NewResilient wraps an embedder with breaker and retry.
func NewResilient(
	inner domain.Embedder, b *breaker.Breaker, p breaker.Policy, logger *zap.Logger,
) *ResilientEmbedder {
	return &ResilientEmbedder{inner: inner, breaker: b, policy: p, logger: logger}
}

// Embed delegates to the inner embedder under the resilience envelope.
func (e *ResilientEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()

	result, err := breaker.Do(ctx, e.breaker, e.policy,
		func(ctx context.Context) (domain.EmbeddingResult, error) {
			return e.inner.Embed(ctx, text)
		})

	duration := time.Since(start)

	if err != nil {
		e.logger.Warn("Embedding request failed",
			zap.String("dependency", e.breaker.Name()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, err
	}

	e.logger.Debug("Embedding request completed",
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}
