// internal/codec/codec.go
// Package codec renders logical export structures as bytes and decodes raw
// bytes back into the generic form the format detector consumes. Byte-level
// encoding is orthogonal to store-format selection: the same structure can
// be rendered as plain JSON, as compact binary BSON, or as a debug-oriented
// columnar JSON.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// Encoding identifies a byte-level serialization format.
type Encoding string

const (
	EncodingJSON     Encoding = "json"
	EncodingBSON     Encoding = "bson"
	EncodingColumnar Encoding = "columnar"
)

// Encodings lists the supported serializations.
var Encodings = []Encoding{EncodingJSON, EncodingBSON, EncodingColumnar}

// ParseEncoding validates an encoding name from user input.
func ParseEncoding(s string) (Encoding, error) {
	e := Encoding(strings.ToLower(strings.TrimSpace(s)))
	switch e {
	case EncodingJSON, EncodingBSON, EncodingColumnar:
		return e, nil
	}
	return "", fmt.Errorf("unknown encoding %q (supported: json, bson, columnar)", s)
}

// MIMEType returns the MIME type for an encoding. The mapping is 1:1 per
// serialization format, not per store format.
func MIMEType(e Encoding) string {
	switch e {
	case EncodingBSON:
		return "application/bson"
	case EncodingColumnar:
		return "application/vnd.vecbridge.columnar+json"
	default:
		return "application/json"
	}
}

// Extension returns the file extension for an encoding, dot included.
func Extension(e Encoding) string {
	switch e {
	case EncodingBSON:
		return ".bson"
	case EncodingColumnar:
		return ".columns.json"
	default:
		return ".json"
	}
}

// Marshal renders a logical structure with the given encoding. The columnar
// rendering only applies to canonical databases; it is a flat
// field-to-array-of-values structure for offline inspection.
func Marshal(v any, e Encoding) ([]byte, error) {
	switch e {
	case EncodingJSON:
		return json.Marshal(v)
	case EncodingBSON:
		data, err := bson.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("bson encode: %w", err)
		}
		return data, nil
	case EncodingColumnar:
		db, ok := v.(*vectordb.Database)
		if !ok {
			return nil, fmt.Errorf("columnar encoding requires a canonical database, got %T", v)
		}
		return json.MarshalIndent(columnar(db), "", "  ")
	}
	return nil, fmt.Errorf("unknown encoding %q", e)
}

// Unmarshal decodes bytes into the generic map/slice form the format
// detector consumes. BSON values are normalized so downstream code never
// sees driver-specific container types.
func Unmarshal(data []byte, e Encoding) (any, error) {
	switch e {
	case EncodingJSON, EncodingColumnar:
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("json decode: %w", err)
		}
		return v, nil
	case EncodingBSON:
		var m bson.M
		if err := bson.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("bson decode: %w", err)
		}
		return normalize(m), nil
	}
	return nil, fmt.Errorf("unknown encoding %q", e)
}

// DetectEncoding guesses the encoding from a file name, defaulting to JSON.
// The columnar suffix is checked first since ".columns.json" also ends in
// ".json".
func DetectEncoding(path string) Encoding {
	switch {
	case strings.HasSuffix(path, Extension(EncodingColumnar)):
		return EncodingColumnar
	case strings.HasSuffix(path, Extension(EncodingBSON)):
		return EncodingBSON
	}
	return EncodingJSON
}

// columnar pivots a database into column arrays plus an explicit schema block.
func columnar(db *vectordb.Database) map[string]any {
	n := len(db.Documents)
	ids := make([]string, n)
	fileNames := make([]string, n)
	contents := make([]string, n)
	embeddings := make([][]float32, n)
	titles := make([]string, n)
	created := make([]string, n)

	for i, d := range db.Documents {
		ids[i] = d.ID
		fileNames[i] = d.FileName
		contents[i] = d.Content
		embeddings[i] = d.Embedding
		titles[i] = d.Metadata.Title
		created[i] = d.Metadata.CreatedAt
	}

	return map[string]any{
		"name":      db.Name,
		"createdAt": db.CreatedAt,
		"dimension": db.Dimension,
		"rows":      n,
		"schema": []map[string]string{
			{"name": "id", "type": "string"},
			{"name": "fileName", "type": "string"},
			{"name": "content", "type": "string"},
			{"name": "embedding", "type": "float32[]"},
			{"name": "title", "type": "string"},
			{"name": "createdAt", "type": "string"},
		},
		"columns": map[string]any{
			"id":        ids,
			"fileName":  fileNames,
			"content":   contents,
			"embedding": embeddings,
			"title":     titles,
			"createdAt": created,
		},
	}
}

// normalize rewrites BSON driver container types (bson.M, bson.D,
// primitive.A) into plain maps and slices.
func normalize(v any) any {
	switch val := v.(type) {
	case bson.M:
		out := make(map[string]any, len(val))
		for k, el := range val {
			out[k] = normalize(el)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, el := range val {
			out[el.Key] = normalize(el.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(val))
		for i, el := range val {
			out[i] = normalize(el)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, el := range val {
			out[i] = normalize(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, el := range val {
			out[k] = normalize(el)
		}
		return out
	}
	return v
}
