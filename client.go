// Package ragdex is the embedded SDK for the adaptive retrieval pipeline:
// hybrid vector/keyword search with intent-dependent weighting, metadata
// boosts, caching and circuit-breaker fallbacks, all in-process against a
// Redis-backed chunk index.
package ragdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/ragdex/internal/breaker"
	"github.com/kailas-cloud/ragdex/internal/cache"
	"github.com/kailas-cloud/ragdex/internal/db"
	dbRedis "github.com/kailas-cloud/ragdex/internal/db/redis"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
	chunksrepo "github.com/kailas-cloud/ragdex/internal/repository/chunks"
	"github.com/kailas-cloud/ragdex/internal/repository/embcache"
	openaiEmb "github.com/kailas-cloud/ragdex/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/ragdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	"github.com/kailas-cloud/ragdex/internal/usecase/rank"
	retrievaluc "github.com/kailas-cloud/ragdex/internal/usecase/retrieval"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the ragdex SDK entry point.
type Client struct {
	store     *dbRedis.Store
	retrieval *retrievaluc.Service
	cachedEmb *embcache.CachedEmbedder
	health    *healthuc.Service
	cfg       *clientConfig
}

// New creates a ragdex Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	cfg.applyDefaults()

	if len(cfg.addrs) == 0 {
		return nil, errors.New("ragdex: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("ragdex: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("ragdex: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store *dbRedis.Store, cfg *clientConfig) *Client {
	registry := breaker.NewRegistry(cfg.breakerThreshold, cfg.breakerCooldown)
	policy := breaker.Policy{
		MaxAttempts: cfg.retryAttempts,
		BaseDelay:   cfg.retryBaseDelay,
		MaxDelay:    cfg.retryMaxDelay,
	}

	// Embedder chain: provider -> resilient -> cached. Custom embedder
	// when given, OpenAI when configured, otherwise a stub whose failures
	// degrade every query to keyword-only retrieval. The cache sits
	// outermost so hits never touch the breaker.
	var base domain.Embedder
	switch {
	case cfg.embedder != nil:
		base = &embedderAdapter{inner: cfg.embedder}
	case cfg.openaiAPIKey != "":
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.openaiAPIKey,
			BaseURL:    cfg.openaiURL,
			Model:      cfg.openaiModel,
			Dimensions: cfg.dimensions,
			Logger:     cfg.logger,
		})
	default:
		base = noopEmbedder{}
	}

	cachedEmb := embcache.New(
		embeddinguc.NewResilient(base, registry.Get("embedding"), policy, cfg.logger),
		cache.New[[]float32](cache.Config{MaxEntries: cfg.embCacheEntries}),
		metrics.EmbeddingCacheTotal,
		cfg.logger,
	)

	queryCache := cache.New[domain.Answer](cache.Config{
		MaxEntries: cfg.queryCacheEntries,
		MaxBytes:   cfg.queryCacheBytes,
		TTL:        cfg.queryCacheTTL,
	})

	retrievalSvc := retrievaluc.New(
		chunksrepo.New(store, cfg.indexName, cfg.keyPrefix),
		cachedEmb,
		registry.Get("storage"),
		policy,
		queryCache,
		rank.NewBooster(),
		cfg.logger,
	)

	return &Client{
		store:     store,
		retrieval: retrievalSvc,
		cachedEmb: cachedEmb,
		health:    healthuc.New(store, registry),
		cfg:       cfg,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureIndex creates the chunk index if it does not exist (idempotent).
func (c *Client) EnsureIndex(ctx context.Context) error {
	def := db.ChunkIndex(c.cfg.indexName, c.cfg.keyPrefix, c.cfg.dimensions).
		WithHNSW(c.cfg.hnswM, c.cfg.hnswEF)
	if err := c.store.EnsureIndex(ctx, def); err != nil {
		return fmt.Errorf("ensure index %q: %w", c.cfg.indexName, err)
	}
	return nil
}

// Ask answers a query through the full retrieval pipeline.
func (c *Client) Ask(ctx context.Context, q Query) (Answer, error) {
	ans, err := c.retrieval.Ask(ctx, toDomainQuery(q, c.cfg.diversify))
	if err != nil {
		return Answer{}, fmt.Errorf("ask: %w", err)
	}
	return fromDomainAnswer(ans), nil
}

// Search returns a fluent builder for one query.
func (c *Client) Search(text string) *SearchBuilder {
	return &SearchBuilder{client: c, query: Query{Text: text}}
}

// Warm runs the given queries through the pipeline so their answers are
// cached. Returns how many answers were cached.
func (c *Client) Warm(ctx context.Context, queries []Query) (int, error) {
	dq := make([]domain.Query, len(queries))
	for i, q := range queries {
		dq[i] = toDomainQuery(q, c.cfg.diversify)
	}
	warmed, err := c.retrieval.Warm(ctx, dq)
	if err != nil {
		return warmed, fmt.Errorf("warm: %w", err)
	}
	return warmed, nil
}

// CacheStats returns the counters of both caches.
func (c *Client) CacheStats() Stats {
	return Stats{
		Query:     fromCacheStats(c.retrieval.CacheStats()),
		Embedding: fromCacheStats(c.cachedEmb.Stats()),
	}
}

// InvalidateCaches drops both caches. Counters survive.
func (c *Client) InvalidateCaches() {
	c.retrieval.InvalidateCache()
	c.cachedEmb.InvalidateAll()
}

// Health returns the aggregated health snapshot.
func (c *Client) Health(ctx context.Context) HealthReport {
	return fromHealthReport(c.health.Check(ctx))
}

// embedderAdapter wraps the public Embedder to satisfy domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder fails every call; the pipeline then serves keyword-only
// retrieval (used when no embedder is configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"ragdex: embedder not configured (use WithEmbedder or WithOpenAI)",
	)
}
