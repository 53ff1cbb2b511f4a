// internal/format/format.go
// Package format detects which vector store export convention a raw payload
// matches, converts it into the canonical document model, and serializes
// canonical databases back into any of the known target conventions.
package format

import (
	"fmt"
	"strings"
)

// Format identifies one vector store export convention.
type Format string

const (
	// FormatCanonical is this system's own wire shape.
	FormatCanonical Format = "canonical"
	// FormatEnriched is any export carrying the full-fidelity side-channel
	// documents array written by Export. Import-only.
	FormatEnriched Format = "enriched"
	// FormatChroma is the ids/embeddings/documents/metadatas parallel-array shape.
	FormatChroma Format = "chroma"
	// FormatQdrant is the points/payload shape.
	FormatQdrant Format = "qdrant"
	// FormatPinecone is the vectors/values/metadata shape.
	FormatPinecone Format = "pinecone"
	// FormatWeaviate is the objects/properties shape.
	FormatWeaviate Format = "weaviate"
	// FormatMilvus is the parallel column-descriptor fields shape.
	FormatMilvus Format = "milvus"
	// FormatLanceDB is the row-table-with-schema shape.
	FormatLanceDB Format = "lancedb"
	// FormatFAISS is the 2D embeddings array plus sidecar metadata shape. Import-only.
	FormatFAISS Format = "faiss"
	// FormatArray is a bare array of records carrying embeddings. Import-only.
	FormatArray Format = "array"
	// FormatDuckDB is a columnar shape with an explicit schema block. Export-only.
	FormatDuckDB Format = "duckdb"
	// FormatRedis is a flat key-to-value shape. Export-only.
	FormatRedis Format = "redis"
)

// ExportTargets are the formats Export accepts, in no particular order.
var ExportTargets = []Format{
	FormatCanonical,
	FormatChroma,
	FormatQdrant,
	FormatPinecone,
	FormatWeaviate,
	FormatMilvus,
	FormatLanceDB,
	FormatDuckDB,
	FormatRedis,
}

// ParseFormat validates a format name from user input.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range ExportTargets {
		if f == t {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (supported: %s)", s, formatNames(ExportTargets))
}

func formatNames(formats []Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
