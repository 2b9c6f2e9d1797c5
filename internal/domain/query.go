package domain

import "strings"

// Intent is the coarse classification of a query's information-seeking mode.
type Intent string

const (
	// IntentFactual marks lookup-style questions ("what is", "define").
	IntentFactual Intent = "factual"
	// IntentConceptual marks explanation-seeking questions ("why", "explain").
	IntentConceptual Intent = "conceptual"
	// IntentProcedural marks how-to questions ("how to", "steps").
	IntentProcedural Intent = "procedural"
	// IntentBalanced is the default when no marker matches.
	IntentBalanced Intent = "balanced"
)

// WeightPair holds the vector/text weighting for hybrid scoring.
// Vector + Text always sums to 1.0.
type WeightPair struct {
	Vector float64
	Text   float64
}

// Filter restricts retrieval to a subset of the corpus.
// Zero value means no filtering.
type Filter struct {
	DocumentID string
	ChunkType  string
}

// IsEmpty reports whether the filter restricts anything.
func (f Filter) IsEmpty() bool {
	return f.DocumentID == "" && f.ChunkType == ""
}

// Canonical returns a stable string representation for cache fingerprinting.
func (f Filter) Canonical() string {
	if f.IsEmpty() {
		return ""
	}
	return "doc=" + f.DocumentID + ";type=" + f.ChunkType
}

// Query is a retrieval request. Immutable once issued.
type Query struct {
	Text      string
	Filter    Filter
	K         int
	Diversify bool
}

// NormalizedText returns the query text lowercased and trimmed,
// used for cache keys and lexical matching.
func (q Query) NormalizedText() string {
	return strings.ToLower(strings.TrimSpace(q.Text))
}
