package chunks

import (
	"context"
	"strconv"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn  func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchTextFn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "chunks-idx", "chunk:")
	return repo, ms
}

func testVector() []float32 {
	vec := make([]float32, 4)
	for i := range vec {
		vec[i] = 0.1
	}
	return vec
}

func chunkEntry(id string, score float64, doc string, pos int) db.SearchEntry {
	return db.SearchEntry{
		Key:   "chunk:" + id,
		Score: score,
		Fields: map[string]string{
			db.FieldContent:      "content of " + id,
			db.FieldDocumentID:   doc,
			db.FieldChunkType:    "paragraph",
			db.FieldSectionTitle: "Overview",
			db.FieldPosition:     strconv.Itoa(pos),
			db.FieldUpdatedAt:    "1748600000",
		},
	}
}
