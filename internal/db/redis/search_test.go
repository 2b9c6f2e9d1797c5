package redis

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/db"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter db.Filter
		want   string
	}{
		{"empty", db.Filter{}, ""},
		{"document only", db.Filter{DocumentID: "doc-7"}, `@document_id:{doc\-7}`},
		{"chunk type only", db.Filter{ChunkType: "definition"}, "@chunk_type:{definition}"},
		{
			"both",
			db.Filter{DocumentID: "doc-7", ChunkType: "example"},
			`@document_id:{doc\-7} @chunk_type:{example}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildFilter(tt.filter); got != tt.want {
				t.Fatalf("buildFilter = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeQuery(t *testing.T) {
	got := escapeQuery(`what is a "KNN" search?`)
	want := `what is a \"KNN\" search?`
	if got != want {
		t.Fatalf("escapeQuery = %q, want %q", got, want)
	}
}

func TestVectorToBytes(t *testing.T) {
	buf := []byte(vectorToBytes([]float32{1.5, -0.25}))
	if len(buf) != 8 {
		t.Fatalf("len = %d, want 8", len(buf))
	}
	first := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
	second := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8]))
	if first != 1.5 || second != -0.25 {
		t.Fatalf("round trip = %v, %v", first, second)
	}
}
