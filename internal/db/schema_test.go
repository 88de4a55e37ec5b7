package db

import (
	"strings"
	"testing"
)

// The vector indexes must be sized with the configured embedder dimension,
// not a fixed default.
func TestSchemaEmbedDimension(t *testing.T) {
	ddl := Schema(384)
	if got := strings.Count(ddl, "HNSW DIMENSION 384"); got != 2 {
		t.Fatalf("expected 2 vector indexes with dimension 384, found %d", got)
	}

	ddl = Schema(1536)
	if got := strings.Count(ddl, "HNSW DIMENSION 1536"); got != 2 {
		t.Fatalf("expected 2 vector indexes with dimension 1536, found %d", got)
	}
	if strings.Contains(ddl, "384") {
		t.Fatalf("default dimension leaked into rendered schema:\n%s", ddl)
	}
}
