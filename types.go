package ragdex

import (
	"context"
	"time"

	"github.com/kailas-cloud/ragdex/internal/cache"
	"github.com/kailas-cloud/ragdex/internal/domain"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
)

// Embedder produces one embedding per text.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult is the vector plus provider token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Query is one retrieval request.
type Query struct {
	Text string
	// K caps the result count; 0 uses the service default.
	K int
	// Diversify drops adjacent same-document chunks.
	Diversify bool
	// DocumentID and ChunkType narrow the search when non-empty.
	DocumentID string
	ChunkType  string
}

// Result is one retrieved chunk with its score breakdown.
type Result struct {
	ID            string
	Content       string
	VectorScore   float64
	TextScore     float64
	CombinedScore float64
	BoostFactor   float64
	FinalScore    float64
	NearDuplicate bool

	DocumentID   string
	Position     int
	ChunkType    string
	SectionTitle string
	UpdatedAt    time.Time
}

// Answer is the retrieval outcome for one query.
type Answer struct {
	Query        string
	Intent       string
	VectorWeight float64
	TextWeight   float64
	Results      []Result
	Cached       bool
	Degradations []string
}

// Degraded reports whether any fallback was taken.
func (a Answer) Degraded() bool {
	return len(a.Degradations) > 0
}

// CacheStats is a point-in-time cache counter snapshot.
type CacheStats struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
	Entries     int
	Bytes       int64
}

// Stats groups the counters of both caches.
type Stats struct {
	Query     CacheStats
	Embedding CacheStats
}

// BreakerStatus is one circuit breaker's state.
type BreakerStatus struct {
	Name       string
	State      string
	Failures   int
	RetryAfter time.Duration
}

// HealthReport is the aggregated health snapshot.
type HealthReport struct {
	// Status is "ok", "degraded" or "error".
	Status      string
	Checks      map[string]string
	Breakers    []BreakerStatus
	Unavailable []string
}

func toDomainQuery(q Query, defaultDiversify bool) domain.Query {
	return domain.Query{
		Text: q.Text,
		Filter: domain.Filter{
			DocumentID: q.DocumentID,
			ChunkType:  q.ChunkType,
		},
		K:         q.K,
		Diversify: q.Diversify || defaultDiversify,
	}
}

func fromDomainAnswer(ans domain.Answer) Answer {
	results := make([]Result, len(ans.Results))
	for i, r := range ans.Results {
		results[i] = Result{
			ID:            r.ID,
			Content:       r.Content,
			VectorScore:   r.VectorScore,
			TextScore:     r.TextScore,
			CombinedScore: r.CombinedScore,
			BoostFactor:   r.BoostFactor,
			FinalScore:    r.FinalScore,
			NearDuplicate: r.NearDuplicate,
			DocumentID:    r.Meta.DocumentID,
			Position:      r.Meta.Position,
			ChunkType:     r.Meta.ChunkType,
			SectionTitle:  r.Meta.SectionTitle,
			UpdatedAt:     r.Meta.UpdatedAt,
		}
	}

	return Answer{
		Query:        ans.Query,
		Intent:       string(ans.Intent),
		VectorWeight: ans.Weights.Vector,
		TextWeight:   ans.Weights.Text,
		Results:      results,
		Cached:       ans.Cached,
		Degradations: ans.Degradations,
	}
}

func fromCacheStats(s cache.Stats) CacheStats {
	return CacheStats(s)
}

func fromHealthReport(r healthuc.Report) HealthReport {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}

	breakers := make([]BreakerStatus, len(r.Breakers))
	for i, b := range r.Breakers {
		breakers[i] = BreakerStatus{
			Name:       b.Name,
			State:      string(b.State),
			Failures:   b.Failures,
			RetryAfter: b.RetryAfter,
		}
	}

	return HealthReport{
		Status:      string(r.Status),
		Checks:      checks,
		Breakers:    breakers,
		Unavailable: r.Unavailable,
	}
}
