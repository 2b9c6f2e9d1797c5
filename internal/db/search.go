package db

// Filter restricts a search to chunks matching the given tag values.
// Empty fields mean no restriction.
type Filter struct {
	DocumentID string
	ChunkType  string
}

// IsEmpty reports whether the filter restricts nothing.
func (f Filter) IsEmpty() bool {
	return f.DocumentID == "" && f.ChunkType == ""
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	Filter       Filter
	K            int
	ReturnFields []string
}

// TextQuery is the input for BM25 text search.
type TextQuery struct {
	IndexName    string
	Text         string
	Filter       Filter
	TopK         int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single chunk hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
