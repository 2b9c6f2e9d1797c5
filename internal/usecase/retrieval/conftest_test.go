package retrieval

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/breaker"
	"github.com/kailas-cloud/ragdex/internal/cache"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/usecase/rank"
)

type mockSearcher struct {
	searchFn func(ctx context.Context, vector []float32, text string, filter domain.Filter, k int) ([]domain.Candidate, error)
	calls    int
}

func (m *mockSearcher) Search(
	ctx context.Context, vector []float32, text string, filter domain.Filter, k int,
) ([]domain.Candidate, error) {
	m.calls++
	if m.searchFn != nil {
		return m.searchFn(ctx, vector, text, filter, k)
	}
	return nil, nil
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testHarness struct {
	svc      *Service
	searcher *mockSearcher
	embedder *mockEmbedder
	cache    *cache.Cache[domain.Answer]
	breaker  *breaker.Breaker
	clock    *fakeClock
}

func newTestService(t *testing.T) *testHarness {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	ms := &mockSearcher{}
	me := &mockEmbedder{}
	qc := cache.New[domain.Answer](cache.Config{MaxEntries: 100, TTL: time.Hour}).WithClock(clock.Now)
	b := breaker.New("storage", 5, 30*time.Second)
	policy := breaker.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
	booster := rank.NewBooster()

	svc := New(ms, me, b, policy, qc, booster, zap.NewNop())
	return &testHarness{svc: svc, searcher: ms, embedder: me, cache: qc, breaker: b, clock: clock}
}

func candidate(id, doc string, pos int, vec, text float64) domain.Candidate {
	return domain.Candidate{
		ID:          id,
		Content:     "content " + id,
		VectorScore: vec,
		TextScore:   text,
		Meta:        domain.Metadata{DocumentID: doc, Position: pos, ChunkType: "paragraph"},
	}
}
