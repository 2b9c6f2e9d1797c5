package domain

import "context"

// EmbeddingResult holds a computed embedding and its token usage.
// Cache hits report zero tokens (no real tokens consumed).
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies that a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
