package chi

import (
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest            = "bad_request"
	codeInvalidQuery          = "invalid_query"
	codeUnauthorized          = "unauthorized"
	codeRateLimited           = "rate_limited"
	codeEmbeddingProvider     = "embedding_provider_error"
	codeDependencyUnavailable = "dependency_unavailable"
	codeRetrievalFailed       = "retrieval_failed"
	codeInternalError         = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchRequest is the POST /search payload. Diversify is a pointer so an
// absent field falls back to the server default.
type SearchRequest struct {
	Query     string         `json:"query"`
	K         int            `json:"k,omitempty"`
	Diversify *bool          `json:"diversify,omitempty"`
	Filter    *FilterRequest `json:"filter,omitempty"`
}

// FilterRequest narrows search to a document or chunk type.
type FilterRequest struct {
	DocumentID string `json:"document_id,omitempty"`
	ChunkType  string `json:"chunk_type,omitempty"`
}

// SearchResponse is the POST /search result payload.
type SearchResponse struct {
	Query        string       `json:"query"`
	Intent       string       `json:"intent"`
	Weights      Weights      `json:"weights"`
	Results      []ResultItem `json:"results"`
	Cached       bool         `json:"cached"`
	Degradations []string     `json:"degradations,omitempty"`
}

// Weights is the vector/text weight pair applied to the query.
type Weights struct {
	Vector float64 `json:"vector"`
	Text   float64 `json:"text"`
}

// ResultItem is one retrieved chunk with its score breakdown.
type ResultItem struct {
	ID            string         `json:"id"`
	Content       string         `json:"content"`
	VectorScore   float64        `json:"vector_score"`
	TextScore     float64        `json:"text_score"`
	CombinedScore float64        `json:"combined_score"`
	BoostFactor   float64        `json:"boost_factor"`
	FinalScore    float64        `json:"final_score"`
	NearDuplicate bool           `json:"near_duplicate,omitempty"`
	Metadata      ResultMetadata `json:"metadata"`
}

// ResultMetadata carries the chunk attributes surfaced to the caller.
type ResultMetadata struct {
	DocumentID   string     `json:"document_id"`
	Position     int        `json:"position"`
	ChunkType    string     `json:"chunk_type,omitempty"`
	SectionTitle string     `json:"section_title,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// WarmRequest is the POST /admin/cache/warm payload.
type WarmRequest struct {
	Queries []SearchRequest `json:"queries"`
}

// WarmResponse reports how many queries were cached.
type WarmResponse struct {
	Warmed int `json:"warmed"`
	Total  int `json:"total"`
}

// BreakerItem is one circuit breaker's state for the admin endpoint.
type BreakerItem struct {
	Name          string  `json:"name"`
	State         string  `json:"state"`
	Failures      int     `json:"failures"`
	RetryAfterSec float64 `json:"retry_after_sec,omitempty"`
}

// HealthResponse is the GET /health payload.
type HealthResponse struct {
	Status      string            `json:"status"`
	Checks      map[string]string `json:"checks"`
	Breakers    []BreakerItem     `json:"breakers,omitempty"`
	Unavailable []string          `json:"unavailable,omitempty"`
}

func queryFromRequest(req SearchRequest, defaultDiversify bool) domain.Query {
	diversify := defaultDiversify
	if req.Diversify != nil {
		diversify = *req.Diversify
	}

	q := domain.Query{
		Text:      req.Query,
		K:         req.K,
		Diversify: diversify,
	}
	if req.Filter != nil {
		q.Filter = domain.Filter{
			DocumentID: req.Filter.DocumentID,
			ChunkType:  req.Filter.ChunkType,
		}
	}
	return q
}

func answerToResponse(ans domain.Answer) SearchResponse {
	results := make([]ResultItem, len(ans.Results))
	for i, r := range ans.Results {
		results[i] = resultToItem(r)
	}

	return SearchResponse{
		Query:        ans.Query,
		Intent:       string(ans.Intent),
		Weights:      Weights{Vector: ans.Weights.Vector, Text: ans.Weights.Text},
		Results:      results,
		Cached:       ans.Cached,
		Degradations: ans.Degradations,
	}
}

func resultToItem(r domain.ScoredResult) ResultItem {
	meta := ResultMetadata{
		DocumentID:   r.Meta.DocumentID,
		Position:     r.Meta.Position,
		ChunkType:    r.Meta.ChunkType,
		SectionTitle: r.Meta.SectionTitle,
	}
	if !r.Meta.UpdatedAt.IsZero() {
		t := r.Meta.UpdatedAt
		meta.UpdatedAt = &t
	}

	return ResultItem{
		ID:            r.ID,
		Content:       r.Content,
		VectorScore:   r.VectorScore,
		TextScore:     r.TextScore,
		CombinedScore: r.CombinedScore,
		BoostFactor:   r.BoostFactor,
		FinalScore:    r.FinalScore,
		NearDuplicate: r.NearDuplicate,
		Metadata:      meta,
	}
}
