package retrieval

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Searcher fetches hybrid retrieval candidates from storage. A nil vector
// requests keyword-only retrieval.
type Searcher interface {
	Search(ctx context.Context, vector []float32, text string, filter domain.Filter, k int) ([]domain.Candidate, error)
}

// Embedder produces the query embedding. Expected to already carry its own
// cache and resilience envelope.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
