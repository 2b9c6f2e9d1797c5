package domain

import "time"

// Metadata carries the chunk attributes used for boosting and diversification.
type Metadata struct {
	DocumentID   string
	Position     int
	ChunkType    string
	SectionTitle string
	UpdatedAt    time.Time
}

// Candidate is a chunk returned by the storage collaborator before scoring.
// VectorScore is cosine-normalized to [0,1]; TextScore is a raw BM25 rank
// score (non-negative, unbounded) normalized downstream.
type Candidate struct {
	ID          string
	Content     string
	VectorScore float64
	TextScore   float64
	Meta        Metadata
}

// ScoredResult is a candidate after hybrid scoring and boosting.
// FinalScore = CombinedScore * BoostFactor; all boost factors are >= 1.0,
// so FinalScore >= CombinedScore >= 0 always holds.
type ScoredResult struct {
	Candidate
	CombinedScore float64
	BoostFactor   float64
	FinalScore    float64
	NearDuplicate bool
}
