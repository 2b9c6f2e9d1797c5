package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/breaker"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

type mockEmbedder struct {
	results []func() (domain.EmbeddingResult, error)
	calls   int
}

func (m *mockEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	fn := m.results[min(m.calls, len(m.results)-1)]
	m.calls++
	return fn()
}

func ok(vec ...float32) func() (domain.EmbeddingResult, error) {
	return func() (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
}

func fail(err error) func() (domain.EmbeddingResult, error) {
	return func() (domain.EmbeddingResult, error) { return domain.EmbeddingResult{}, err }
}

func fastPolicy() breaker.Policy {
	return breaker.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestResilientEmbed_Success(t *testing.T) {
	inner := &mockEmbedder{results: []func() (domain.EmbeddingResult, error){ok(0.1, 0.2)}}
	b := breaker.New("embedding", 5, time.Second)
	e := NewResilient(inner, b, fastPolicy(), zap.NewNop())

	got, err := e.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(got.Embedding) != 2 {
		t.Fatalf("embedding = %v", got.Embedding)
	}
}

func TestResilientEmbed_RetriesTransient(t *testing.T) {
	inner := &mockEmbedder{results: []func() (domain.EmbeddingResult, error){
		fail(domain.MarkTransient(errors.New("timeout"))),
		ok(0.3),
	}}
	b := breaker.New("embedding", 5, time.Second)
	e := NewResilient(inner, b, fastPolicy(), zap.NewNop())

	got, err := e.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 2 || got.Embedding[0] != 0.3 {
		t.Fatalf("calls=%d embedding=%v", inner.calls, got.Embedding)
	}
}

func TestResilientEmbed_OpenBreakerShortCircuits(t *testing.T) {
	inner := &mockEmbedder{results: []func() (domain.EmbeddingResult, error){
		fail(domain.MarkTransient(errors.New("down"))),
	}}
	b := breaker.New("embedding", 1, time.Minute)
	e := NewResilient(inner, b, fastPolicy(), zap.NewNop())

	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected failure")
	}
	callsBefore := inner.calls

	_, err := e.Embed(context.Background(), "text")
	if !errors.Is(err, domain.ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
	if inner.calls != callsBefore {
		t.Fatal("open breaker still reached the provider")
	}
}

func TestResilientEmbed_PermanentNotRetried(t *testing.T) {
	permanent := errors.New("invalid api key")
	inner := &mockEmbedder{results: []func() (domain.EmbeddingResult, error){fail(permanent)}}
	b := breaker.New("embedding", 5, time.Second)
	e := NewResilient(inner, b, fastPolicy(), zap.NewNop())

	_, err := e.Embed(context.Background(), "text")
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v, want the permanent error", err)
	}
	if inner.calls != 1 {
		t.Fatalf("calls = %d, want 1", inner.calls)
	}
}
