package domain

// Degradation reasons reported on answers produced through a fallback.
const (
	// DegradationEmbedding marks keyword-only retrieval after the embedding
	// provider was unavailable.
	DegradationEmbedding = "embedding_unavailable"
	// DegradationStaleCache marks an expired cache entry served while
	// storage was unavailable.
	DegradationStaleCache = "stale_cache"
)

// Answer is the outcome of the retrieval pipeline for one query.
type Answer struct {
	Query   string
	Intent  Intent
	Weights WeightPair
	Results []ScoredResult

	// Cached is true when the answer was served from the query cache.
	Cached bool
	// Degradations lists fallbacks taken while producing the answer
	// (e.g. "embedding_unavailable", "stale_cache"). Empty on the happy path.
	Degradations []string
}

// Degraded reports whether any fallback was taken.
func (a Answer) Degraded() bool {
	return len(a.Degradations) > 0
}

// EstimatedSize approximates the answer's payload size in bytes for
// cache memory accounting. Counts string content plus fixed per-result
// overhead; exactness is not required, only monotonicity with payload size.
func (a Answer) EstimatedSize() int {
	const perResultOverhead = 128

	size := len(a.Query) + 64
	for _, r := range a.Results {
		size += len(r.ID) + len(r.Content) +
			len(r.Meta.DocumentID) + len(r.Meta.SectionTitle) + len(r.Meta.ChunkType) +
			perResultOverhead
	}
	return size
}
