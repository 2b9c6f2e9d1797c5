// Package chi implements the HTTP API on the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/cache"
	"github.com/kailas-cloud/ragdex/internal/domain"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/ragdex/internal/usecase/retrieval"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// EmbeddingCache exposes the embedding cache admin surface.
type EmbeddingCache interface {
	Stats() cache.Stats
	InvalidateAll()
}

// Server exposes the retrieval pipeline over HTTP.
type Server struct {
	retrieval        *retrievaluc.Service
	health           *healthuc.Service
	embCache         EmbeddingCache
	logger           *zap.Logger
	defaultDiversify bool
	errorHandlers    []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	retrieval *retrievaluc.Service,
	health *healthuc.Service,
	embCache EmbeddingCache,
	defaultDiversify bool,
	logger *zap.Logger,
) *Server {
	s := &Server{
		retrieval:        retrieval,
		health:           health,
		embCache:         embCache,
		logger:           logger,
		defaultDiversify: defaultDiversify,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrRetrievalFailed, http.StatusServiceUnavailable, codeRetrievalFailed),
		sentinelHandler(domain.ErrCircuitOpen, http.StatusServiceUnavailable, codeDependencyUnavailable),
		sentinelHandler(domain.ErrDependencyUnavailable, http.StatusServiceUnavailable, codeDependencyUnavailable),
	}
	return s
}

// Register mounts all API routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Post("/search", s.Search)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/cache/stats", s.CacheStats)
		r.Post("/cache/invalidate", s.InvalidateCache)
		r.Post("/cache/warm", s.WarmCache)
		r.Get("/breakers", s.Breakers)
	})
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ans, err := s.retrieval.Ask(r.Context(), queryFromRequest(req, s.defaultDiversify))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerToResponse(ans))
}

// HealthCheck handles GET /health. A degraded system still answers 200:
// fallbacks are serving and load balancers must not pull the instance.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	breakers := make([]BreakerItem, len(report.Breakers))
	for i, b := range report.Breakers {
		breakers[i] = BreakerItem{
			Name:          b.Name,
			State:         string(b.State),
			Failures:      b.Failures,
			RetryAfterSec: b.RetryAfter.Seconds(),
		}
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:      string(report.Status),
		Checks:      checks,
		Breakers:    breakers,
		Unavailable: report.Unavailable,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// CacheStats handles GET /admin/cache/stats.
func (s *Server) CacheStats(w http.ResponseWriter, r *http.Request) {
	resp := map[string]cache.Stats{
		"query": s.retrieval.CacheStats(),
	}
	if s.embCache != nil {
		resp["embedding"] = s.embCache.Stats()
	}
	writeJSON(w, http.StatusOK, resp)
}

// InvalidateCache handles POST /admin/cache/invalidate. Drops both caches.
func (s *Server) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	s.retrieval.InvalidateCache()
	if s.embCache != nil {
		s.embCache.InvalidateAll()
	}
	s.logger.Info("caches invalidated")
	w.WriteHeader(http.StatusNoContent)
}

// WarmCache handles POST /admin/cache/warm.
func (s *Server) WarmCache(w http.ResponseWriter, r *http.Request) {
	var req WarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Queries) == 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "queries must not be empty")
		return
	}

	queries := make([]domain.Query, len(req.Queries))
	for i, q := range req.Queries {
		queries[i] = queryFromRequest(q, s.defaultDiversify)
	}

	warmed, err := s.retrieval.Warm(r.Context(), queries)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, WarmResponse{Warmed: warmed, Total: len(queries)})
}

// Breakers handles GET /admin/breakers.
func (s *Server) Breakers(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	items := make([]BreakerItem, len(report.Breakers))
	for i, b := range report.Breakers {
		items[i] = BreakerItem{
			Name:          b.Name,
			State:         string(b.State),
			Failures:      b.Failures,
			RetryAfterSec: b.RetryAfter.Seconds(),
		}
	}

	writeJSON(w, http.StatusOK, map[string][]BreakerItem{"breakers": items})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
		domain.ErrRetrievalFailed,
		domain.ErrCircuitOpen,
		domain.ErrDependencyUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
