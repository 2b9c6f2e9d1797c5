package retrieval

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Warm pre-populates the query cache by running the given queries through
// the pipeline. Individual failures are logged and skipped; the count of
// successfully warmed queries is returned. Degraded answers do not enter
// the cache, so they do not count as warmed.
func (s *Service) Warm(ctx context.Context, queries []domain.Query) (int, error) {
	warmed := 0
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}

		ans, err := s.Ask(ctx, q)
		if err != nil {
			s.logger.Warn("Cache warmup query failed",
				zap.String("query", q.Text), zap.Error(err))
			continue
		}
		if !ans.Degraded() {
			warmed++
		}
	}

	s.logger.Info("Cache warmup finished",
		zap.Int("requested", len(queries)), zap.Int("warmed", warmed))
	return warmed, nil
}
