// Package retrieval orchestrates the adaptive hybrid-retrieval pipeline:
// intent classification, per-intent weighting, candidate fetch, hybrid
// scoring, metadata boosts, diversification, and the cache-aside and
// degradation layers around all of it.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/breaker"
	"github.com/kailas-cloud/ragdex/internal/cache"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
	"github.com/kailas-cloud/ragdex/internal/usecase/intent"
	"github.com/kailas-cloud/ragdex/internal/usecase/rank"
)

const (
	// DefaultK is used when the caller does not request a result count.
	DefaultK = 10
	// MaxK caps the requested result count.
	MaxK = 100

	// The candidate pool is oversized relative to k so boosting and
	// diversification have material to work with.
	poolMultiplier   = 3
	minCandidatePool = 25
)

// Service runs the retrieval pipeline.
type Service struct {
	searcher       Searcher
	embedder       Embedder
	storageBreaker *breaker.Breaker
	policy         breaker.Policy
	queryCache     *cache.Cache[domain.Answer]
	booster        *rank.Booster
	logger         *zap.Logger
}

// New creates the retrieval service. The query cache and breaker are owned
// by the composition root and shared across requests.
func New(
	searcher Searcher,
	embedder Embedder,
	storageBreaker *breaker.Breaker,
	policy breaker.Policy,
	queryCache *cache.Cache[domain.Answer],
	booster *rank.Booster,
	logger *zap.Logger,
) *Service {
	return &Service{
		searcher:       searcher,
		embedder:       embedder,
		storageBreaker: storageBreaker,
		policy:         policy,
		queryCache:     queryCache,
		booster:        booster,
		logger:         logger,
	}
}

// Ask answers a query through the full pipeline. Degraded answers (keyword
// fallback, stale cache) are returned with their degradations listed rather
// than failing; only a total loss of retrieval paths is an error.
func (s *Service) Ask(ctx context.Context, q domain.Query) (domain.Answer, error) {
	start := time.Now()

	if strings.TrimSpace(q.Text) == "" {
		return domain.Answer{}, fmt.Errorf("%w: empty query text", domain.ErrInvalidQuery)
	}
	if q.K <= 0 {
		q.K = DefaultK
	}
	if q.K > MaxK {
		return domain.Answer{}, fmt.Errorf("%w: k %d exceeds maximum %d", domain.ErrInvalidQuery, q.K, MaxK)
	}

	key := Fingerprint(q)
	if ans, ok := s.queryCache.Get(key); ok {
		ans.Cached = true
		metrics.QueryCacheTotal.WithLabelValues("hit").Inc()
		metrics.RetrievalDuration.WithLabelValues("true").Observe(time.Since(start).Seconds())
		metrics.RetrievalRequestsTotal.WithLabelValues(string(ans.Intent), "ok").Inc()
		return ans, nil
	}
	metrics.QueryCacheTotal.WithLabelValues("miss").Inc()

	it := intent.Classify(q.Text)
	weights := intent.WeightsFor(it)

	var degradations []string
	var vector []float32

	embRes, err := s.embedder.Embed(ctx, q.Text)
	switch {
	case err == nil:
		vector = embRes.Embedding
	case errors.Is(err, context.Canceled):
		return domain.Answer{}, err
	default:
		// Keyword-only fallback: all ranking weight shifts to text.
		degradations = append(degradations, domain.DegradationEmbedding)
		weights = domain.WeightPair{Vector: 0, Text: 1}
		s.logger.Warn("Embedding unavailable, falling back to keyword-only retrieval",
			zap.String("intent", string(it)), zap.Error(err))
	}

	pool := poolMultiplier * q.K
	if pool < minCandidatePool {
		pool = minCandidatePool
	}

	candidates, err := breaker.Do(ctx, s.storageBreaker, s.policy,
		func(ctx context.Context) ([]domain.Candidate, error) {
			return s.searcher.Search(ctx, vector, q.NormalizedText(), q.Filter, pool)
		})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) || errors.Is(err, context.Canceled) {
			return domain.Answer{}, err
		}
		return s.serveStale(key, it, start, err)
	}

	results := rank.Combine(candidates, weights)
	s.booster.Apply(results, q.Text)
	rank.SortByFinalScore(results)
	if q.Diversify {
		results = rank.Diversify(results, q.K)
	}
	if len(results) > q.K {
		results = results[:q.K]
	}

	ans := domain.Answer{
		Query:        q.Text,
		Intent:       it,
		Weights:      weights,
		Results:      results,
		Degradations: degradations,
	}

	// Degraded answers are never cached: they would mask recovery for a
	// whole TTL.
	if !ans.Degraded() {
		s.queryCache.Put(key, ans, int64(ans.EstimatedSize()))
	}

	s.observe(ans, start)
	return ans, nil
}

// serveStale is the last fallback when storage is down: an expired cache
// entry beats a hard failure.
func (s *Service) serveStale(key string, it domain.Intent, start time.Time, cause error) (domain.Answer, error) {
	ans, _, ok := s.queryCache.GetStale(key)
	if !ok {
		metrics.RetrievalRequestsTotal.WithLabelValues(string(it), "error").Inc()
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, cause)
	}

	ans.Cached = true
	ans.Degradations = append(append([]string(nil), ans.Degradations...), domain.DegradationStaleCache)

	metrics.QueryCacheTotal.WithLabelValues("stale").Inc()
	s.logger.Warn("Storage unavailable, serving stale cached answer",
		zap.String("intent", string(it)), zap.Error(cause))
	s.observe(ans, start)
	return ans, nil
}

func (s *Service) observe(ans domain.Answer, start time.Time) {
	duration := time.Since(start)
	metrics.RetrievalDuration.WithLabelValues(strconv.FormatBool(ans.Cached)).Observe(duration.Seconds())
	metrics.RetrievalRequestsTotal.WithLabelValues(string(ans.Intent), "ok").Inc()
	for _, reason := range ans.Degradations {
		metrics.RetrievalDegradedTotal.WithLabelValues(reason).Inc()
	}

	s.logger.Debug("Retrieval completed",
		zap.String("intent", string(ans.Intent)),
		zap.Int("results", len(ans.Results)),
		zap.Bool("cached", ans.Cached),
		zap.Strings("degradations", ans.Degradations),
		zap.Duration("duration", duration),
	)
}

// CacheStats exposes query cache counters for the admin surface.
func (s *Service) CacheStats() cache.Stats {
	return s.queryCache.Stats()
}

// InvalidateCache clears the query cache.
func (s *Service) InvalidateCache() {
	s.queryCache.InvalidateAll()
	s.logger.Info("Query cache invalidated")
}
