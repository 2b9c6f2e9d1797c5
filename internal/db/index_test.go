package db

import "testing"

func TestChunkIndex(t *testing.T) {
	def := ChunkIndex("chunks-idx", "chunk:", 1536)

	if err := def.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(def.Prefixes) != 1 || def.Prefixes[0] != "chunk:" {
		t.Fatalf("prefixes = %v", def.Prefixes)
	}

	var vec *IndexField
	for i := range def.Fields {
		if def.Fields[i].Type == IndexFieldVector {
			vec = &def.Fields[i]
		}
	}
	if vec == nil {
		t.Fatal("chunk index has no vector field")
	}
	if vec.Name != FieldEmbedding || vec.VectorDim != 1536 {
		t.Fatalf("vector field = %+v", vec)
	}
}

func TestIndexDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     IndexDefinition
		wantErr bool
	}{
		{
			"valid",
			IndexDefinition{Name: "idx", Fields: []IndexField{{Name: "f", Type: IndexFieldText}}},
			false,
		},
		{
			"missing name",
			IndexDefinition{Fields: []IndexField{{Name: "f", Type: IndexFieldText}}},
			true,
		},
		{
			"invalid name",
			IndexDefinition{Name: "bad name!", Fields: []IndexField{{Name: "f", Type: IndexFieldText}}},
			true,
		},
		{
			"no fields",
			IndexDefinition{Name: "idx"},
			true,
		},
		{
			"duplicate field",
			IndexDefinition{Name: "idx", Fields: []IndexField{
				{Name: "f", Type: IndexFieldText},
				{Name: "f", Type: IndexFieldTag},
			}},
			true,
		},
		{
			"vector without dim",
			IndexDefinition{Name: "idx", Fields: []IndexField{{Name: "v", Type: IndexFieldVector}}},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
