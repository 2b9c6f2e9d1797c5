// Package chunks implements candidate retrieval over the chunk index:
// one KNN pass, one BM25 pass, merged by chunk ID into hybrid candidates.
package chunks

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo fetches retrieval candidates from the chunk index.
type Repo struct {
	store     store
	indexName string
	keyPrefix string
}

// New creates a chunk repository over the given index.
func New(s store, indexName, keyPrefix string) *Repo {
	return &Repo{store: s, indexName: indexName, keyPrefix: keyPrefix}
}

// Search runs the hybrid candidate fetch. A nil vector skips the KNN pass
// (keyword-only retrieval when embeddings are unavailable); empty text skips
// the BM25 pass. A chunk found by both passes carries both raw scores.
// Storage failures are transient for retry/breaker accounting.
func (r *Repo) Search(
	ctx context.Context, vector []float32, text string, filter domain.Filter, k int,
) ([]domain.Candidate, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidQuery)
	}

	dbFilter := db.Filter{DocumentID: filter.DocumentID, ChunkType: filter.ChunkType}

	byID := make(map[string]*domain.Candidate)
	var order []string

	if len(vector) > 0 {
		sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
			IndexName:    r.indexName,
			Vector:       vector,
			Filter:       dbFilter,
			K:            k,
			ReturnFields: db.ChunkReturnFields(),
		})
		if err != nil {
			return nil, domain.MarkTransient(fmt.Errorf("search knn: %w", err))
		}
		for _, entry := range sr.Entries {
			c := r.parseEntry(entry)
			c.VectorScore = entry.Score
			byID[c.ID] = &c
			order = append(order, c.ID)
		}
	}

	if text != "" {
		sr, err := r.store.SearchText(ctx, &db.TextQuery{
			IndexName:    r.indexName,
			Text:         text,
			Filter:       dbFilter,
			TopK:         k,
			ReturnFields: db.ChunkReturnFields(),
		})
		if err != nil {
			return nil, domain.MarkTransient(fmt.Errorf("search text: %w", err))
		}
		for _, entry := range sr.Entries {
			id := r.chunkID(entry.Key)
			if existing, ok := byID[id]; ok {
				existing.TextScore = entry.Score
				continue
			}
			c := r.parseEntry(entry)
			c.TextScore = entry.Score
			byID[id] = &c
			order = append(order, id)
		}
	}

	candidates := make([]domain.Candidate, 0, len(order))
	for _, id := range order {
		candidates = append(candidates, *byID[id])
	}
	return candidates, nil
}
