package chunks

import (
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/ragdex/internal/db"
	"github.com/kailas-cloud/ragdex/internal/domain"
)

// chunkID strips the storage key prefix, leaving the chunk identifier.
func (r *Repo) chunkID(key string) string {
	return strings.TrimPrefix(key, r.keyPrefix)
}

// parseEntry maps flat hash fields onto a candidate. Unparsable numeric
// fields degrade to zero values rather than failing the whole result.
func (r *Repo) parseEntry(entry db.SearchEntry) domain.Candidate {
	c := domain.Candidate{
		ID:      r.chunkID(entry.Key),
		Content: entry.Fields[db.FieldContent],
		Meta: domain.Metadata{
			DocumentID:   entry.Fields[db.FieldDocumentID],
			ChunkType:    entry.Fields[db.FieldChunkType],
			SectionTitle: entry.Fields[db.FieldSectionTitle],
		},
	}

	if v, err := strconv.Atoi(entry.Fields[db.FieldPosition]); err == nil {
		c.Meta.Position = v
	}
	if v, err := strconv.ParseInt(entry.Fields[db.FieldUpdatedAt], 10, 64); err == nil && v > 0 {
		c.Meta.UpdatedAt = time.Unix(v, 0).UTC()
	}

	return c
}
