// Package embcache decorates an embedder with an in-memory lookaside cache.
// Embeddings for identical text never change for a fixed model, so entries
// are keyed by normalized text alone.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/cache"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

const bytesPerDim = 4

// CachedEmbedder caches embeddings in front of the real provider.
type CachedEmbedder struct {
	inner      domain.Embedder
	cache      *cache.Cache[[]float32]
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed
// explicitly from the composition root.
func New(
	inner domain.Embedder,
	c *cache.Cache[[]float32],
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		cache:      c,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Embed returns a cached embedding or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
// Cache miss: full EmbeddingResult from inner, cached on success.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := CacheKey(text)

	if vec, ok := c.cache.Get(key); ok {
		c.incCache("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	c.incCache("miss")

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	if len(result.Embedding) > 0 {
		c.cache.Put(key, result.Embedding, int64(len(result.Embedding)*bytesPerDim))
	} else {
		c.logger.Warn("Embedder returned empty vector, not caching", zap.String("key", key))
	}
	return result, nil
}

// Stats returns the cache counters for the admin surface.
func (c *CachedEmbedder) Stats() cache.Stats {
	return c.cache.Stats()
}

// InvalidateAll clears the cache.
func (c *CachedEmbedder) InvalidateAll() {
	c.cache.InvalidateAll()
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// CacheKey hashes normalized text; case and whitespace variations of the
// same content share one entry.
func CacheKey(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	h := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(h[:])
}
