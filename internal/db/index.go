package db

import (
	"errors"
	"strconv"
)

// Chunk index schema constants shared between index creation and search.
const (
	FieldContent      = "content"
	FieldEmbedding    = "embedding"
	FieldDocumentID   = "document_id"
	FieldChunkType    = "chunk_type"
	FieldSectionTitle = "section_title"
	FieldPosition     = "position"
	FieldUpdatedAt    = "updated_at"

	// VectorScoreField is the alias FT.SEARCH uses for the KNN distance of
	// the embedding field.
	VectorScoreField = "__" + FieldEmbedding + "_score"
)

// IndexFieldType enumerates supported index field types.
type IndexFieldType int

const (
	// IndexFieldNumeric is a numeric field.
	IndexFieldNumeric IndexFieldType = iota
	// IndexFieldTag is a tag field.
	IndexFieldTag
	// IndexFieldText is a text field.
	IndexFieldText
	// IndexFieldVector is an HNSW cosine vector field.
	IndexFieldVector
)

// IndexField describes a single field in the index schema.
type IndexField struct {
	Name string
	Type IndexFieldType

	// VECTOR options
	VectorDim         int
	VectorM           int // HNSW M: max edges per node
	VectorEFConstruct int // HNSW EF_CONSTRUCTION: build-time list size
}

// IndexDefinition is a complete FT index definition used by FT.CREATE.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// ChunkIndex returns the definition of the chunk index for embeddings of
// the given dimensionality.
func ChunkIndex(name, prefix string, dim int) *IndexDefinition {
	return &IndexDefinition{
		Name:     name,
		Prefixes: []string{prefix},
		Fields: []IndexField{
			{Name: FieldContent, Type: IndexFieldText},
			{Name: FieldEmbedding, Type: IndexFieldVector, VectorDim: dim},
			{Name: FieldDocumentID, Type: IndexFieldTag},
			{Name: FieldChunkType, Type: IndexFieldTag},
			{Name: FieldSectionTitle, Type: IndexFieldText},
			{Name: FieldPosition, Type: IndexFieldNumeric},
			{Name: FieldUpdatedAt, Type: IndexFieldNumeric},
		},
	}
}

// WithHNSW sets HNSW build parameters on the vector field. Zero values
// leave the server defaults in place.
func (idx *IndexDefinition) WithHNSW(m, efConstruct int) *IndexDefinition {
	for i := range idx.Fields {
		if idx.Fields[i].Type == IndexFieldVector {
			idx.Fields[i].VectorM = m
			idx.Fields[i].VectorEFConstruct = efConstruct
		}
	}
	return idx
}

// ChunkReturnFields lists the fields retrieval asks FT.SEARCH to return.
func ChunkReturnFields() []string {
	return []string{
		FieldContent,
		FieldDocumentID,
		FieldChunkType,
		FieldSectionTitle,
		FieldPosition,
		FieldUpdatedAt,
	}
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !isValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool)
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true

		if f.Type == IndexFieldVector && f.VectorDim <= 0 {
			return errors.New("vector field requires positive DIM")
		}
	}

	return nil
}

// isValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
