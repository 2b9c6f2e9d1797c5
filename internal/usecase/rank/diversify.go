package rank

import "github.com/kailas-cloud/ragdex/internal/domain"

// Diversify suppresses near-duplicate chunks in a ranked list: results from
// the same document whose positions differ by exactly 1 are overlapping
// windows of one passage, and only the higher-ranked of the pair should
// survive. When dropping duplicates would leave fewer than k results, the
// highest-ranked dropped ones are restored and flagged as near-duplicates
// instead. Idempotent: running it on its own output changes nothing.
func Diversify(ranked []domain.ScoredResult, k int) []domain.ScoredResult {
	if len(ranked) < 2 {
		return ranked
	}

	keep := make([]bool, len(ranked))
	kept := make([]int, 0, len(ranked))
	dropped := make([]int, 0)

	for i := range ranked {
		if conflictsWithKept(ranked, kept, i) {
			dropped = append(dropped, i)
			continue
		}
		keep[i] = true
		kept = append(kept, i)
	}

	// Restore highest-ranked duplicates when the cut goes below k.
	flagged := make(map[int]bool)
	for _, i := range dropped {
		if len(kept) >= k {
			break
		}
		keep[i] = true
		flagged[i] = true
		kept = append(kept, i)
	}

	out := make([]domain.ScoredResult, 0, len(kept))
	for i, r := range ranked {
		if !keep[i] {
			continue
		}
		if flagged[i] {
			r.NearDuplicate = true
		}
		out = append(out, r)
	}
	return out
}

// conflictsWithKept reports whether ranked[i] is an adjacent-position
// sibling of any already kept result. Results flagged as near-duplicates on
// a previous pass are excluded on both sides of the comparison, so a
// restored result neither gets re-dropped nor displaces anything else.
func conflictsWithKept(ranked []domain.ScoredResult, kept []int, i int) bool {
	if ranked[i].NearDuplicate {
		return false
	}
	for _, j := range kept {
		if ranked[j].NearDuplicate {
			continue
		}
		if ranked[j].Meta.DocumentID != ranked[i].Meta.DocumentID {
			continue
		}
		diff := ranked[j].Meta.Position - ranked[i].Meta.Position
		if diff == 1 || diff == -1 {
			return true
		}
	}
	return false
}
