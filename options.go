package ragdex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	username string
	password string

	indexName  string
	keyPrefix  string
	dimensions int
	hnswM      int
	hnswEF     int

	embedder     Embedder
	openaiAPIKey string
	openaiURL    string
	openaiModel  string

	queryCacheEntries int
	queryCacheBytes   int64
	queryCacheTTL     time.Duration
	embCacheEntries   int

	breakerThreshold int
	breakerCooldown  time.Duration

	retryAttempts  int
	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration

	diversify bool
	logger    *zap.Logger
}

// WithRedis sets the Redis address and password.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithIndex overrides the chunk index name and key prefix.
func WithIndex(name, keyPrefix string) Option {
	return func(c *clientConfig) {
		c.indexName = name
		c.keyPrefix = keyPrefix
	}
}

// WithDimensions sets the embedding dimensionality used for index creation.
func WithDimensions(n int) Option {
	return func(c *clientConfig) {
		c.dimensions = n
	}
}

// WithHNSW sets the HNSW build parameters used for index creation.
func WithHNSW(m, efConstruct int) Option {
	return func(c *clientConfig) {
		c.hnswM = m
		c.hnswEF = efConstruct
	}
}

// WithEmbedder plugs a custom embedding provider.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithOpenAI configures the built-in OpenAI-compatible embedding provider.
// baseURL may be empty for api.openai.com.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return func(c *clientConfig) {
		c.openaiAPIKey = apiKey
		c.openaiURL = baseURL
		c.openaiModel = model
	}
}

// WithQueryCache bounds the query result cache.
func WithQueryCache(maxEntries int, maxBytes int64, ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.queryCacheEntries = maxEntries
		c.queryCacheBytes = maxBytes
		c.queryCacheTTL = ttl
	}
}

// WithEmbeddingCache bounds the embedding cache entry count.
func WithEmbeddingCache(maxEntries int) Option {
	return func(c *clientConfig) {
		c.embCacheEntries = maxEntries
	}
}

// WithBreaker tunes the circuit breakers shared by all dependencies.
func WithBreaker(failureThreshold int, cooldown time.Duration) Option {
	return func(c *clientConfig) {
		c.breakerThreshold = failureThreshold
		c.breakerCooldown = cooldown
	}
}

// WithRetry tunes the retry envelope around dependency calls.
func WithRetry(maxAttempts int, baseDelay, maxDelay time.Duration) Option {
	return func(c *clientConfig) {
		c.retryAttempts = maxAttempts
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithDiversify enables adjacent-chunk diversification by default.
func WithDiversify() Option {
	return func(c *clientConfig) {
		c.diversify = true
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

func (c *clientConfig) applyDefaults() {
	if c.indexName == "" {
		c.indexName = "ragdex:chunks:idx"
	}
	if c.keyPrefix == "" {
		c.keyPrefix = "ragdex:chunk:"
	}
	if c.dimensions <= 0 {
		c.dimensions = 1536
	}
	if c.openaiModel == "" {
		c.openaiModel = "text-embedding-3-small"
	}
	if c.queryCacheEntries <= 0 {
		c.queryCacheEntries = 1000
	}
	if c.queryCacheBytes <= 0 {
		c.queryCacheBytes = 500 << 20
	}
	if c.queryCacheTTL <= 0 {
		c.queryCacheTTL = time.Hour
	}
	if c.embCacheEntries <= 0 {
		c.embCacheEntries = 5000
	}
	if c.breakerThreshold <= 0 {
		c.breakerThreshold = 5
	}
	if c.breakerCooldown <= 0 {
		c.breakerCooldown = 30 * time.Second
	}
	if c.retryAttempts <= 0 {
		c.retryAttempts = 3
	}
	if c.retryBaseDelay <= 0 {
		c.retryBaseDelay = 100 * time.Millisecond
	}
	if c.retryMaxDelay <= 0 {
		c.retryMaxDelay = 5 * time.Second
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
}
