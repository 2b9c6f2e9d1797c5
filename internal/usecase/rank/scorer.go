// Package rank implements the scoring pipeline applied to retrieval
// candidates: hybrid vector/text combination, metadata boosts, and
// near-duplicate diversification. Everything here is pure computation over
// request-local data; no locks, no I/O.
package rank

import (
	"sort"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Combine turns candidates into scored results using the given weight split.
// Raw text scores are unbounded (lexical rank units), so they are normalized
// to [0,1] against the per-query maximum before mixing with vector
// similarity. One result per candidate; nothing is dropped here.
func Combine(candidates []domain.Candidate, w domain.WeightPair) []domain.ScoredResult {
	var maxText float64
	for _, c := range candidates {
		if c.TextScore > maxText {
			maxText = c.TextScore
		}
	}

	results := make([]domain.ScoredResult, len(candidates))
	for i, c := range candidates {
		normText := 0.0
		if maxText > 0 {
			normText = c.TextScore / maxText
		}
		combined := w.Vector*c.VectorScore + w.Text*normText

		results[i] = domain.ScoredResult{
			Candidate:     c,
			CombinedScore: combined,
			BoostFactor:   1.0,
			FinalScore:    combined,
		}
	}
	return results
}

// SortByFinalScore orders results descending by final score. The sort is
// stable so candidates with equal scores keep their retrieval order.
func SortByFinalScore(results []domain.ScoredResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
}
