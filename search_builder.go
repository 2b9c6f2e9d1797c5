package ragdex

import "context"

// SearchBuilder is a fluent builder for one retrieval query.
type SearchBuilder struct {
	client *Client
	query  Query
}

// K caps the result count.
func (b *SearchBuilder) K(n int) *SearchBuilder {
	b.query.K = n
	return b
}

// Diversify drops adjacent same-document chunks from the results.
func (b *SearchBuilder) Diversify() *SearchBuilder {
	b.query.Diversify = true
	return b
}

// InDocument narrows retrieval to one document.
func (b *SearchBuilder) InDocument(documentID string) *SearchBuilder {
	b.query.DocumentID = documentID
	return b
}

// OfType narrows retrieval to one chunk type (e.g. "definition", "example").
func (b *SearchBuilder) OfType(chunkType string) *SearchBuilder {
	b.query.ChunkType = chunkType
	return b
}

// Do executes the query through the full pipeline.
func (b *SearchBuilder) Do(ctx context.Context) (Answer, error) {
	return b.client.Ask(ctx, b.query)
}
