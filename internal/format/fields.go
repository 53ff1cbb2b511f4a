// internal/format/fields.go
package format

import (
	"encoding/json"
	"strconv"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// Field-name fallback chains shared by the shape converters. Stores disagree
// on casing and separators, so each logical field is resolved against an
// ordered candidate list instead of repeating chained lookups.
var (
	idFields        = []string{"id", "ids", "_id"}
	fileNameFields  = []string{"fileName", "filename", "file_name", "source", "doc_name"}
	contentFields   = []string{"content", "documents", "document", "text"}
	titleFields     = []string{"title"}
	createdAtFields = []string{"createdAt", "created_at", "timestamp"}
	vectorFields    = []string{"embedding", "embeddings", "vector", "values"}
)

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// firstPresent returns the value of the first candidate key present in rec.
func firstPresent(rec map[string]any, candidates []string) (any, bool) {
	for _, name := range candidates {
		if v, ok := rec[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stringOf coerces scalar values into their string form. Store exports are
// inconsistent about numeric vs string IDs.
func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case int64:
		return strconv.FormatInt(s, 10)
	case json.Number:
		return s.String()
	}
	return ""
}

// stringField resolves a string through the candidate list.
func stringField(rec map[string]any, candidates []string) string {
	if v, ok := firstPresent(rec, candidates); ok {
		return stringOf(v)
	}
	return ""
}

// floatVector converts a decoded JSON/BSON array into a float32 vector.
// It returns nil for anything that is not a usable numeric sequence, which
// callers treat as "skip this record".
func floatVector(v any) []float32 {
	switch vec := v.(type) {
	case []float32:
		out := make([]float32, len(vec))
		copy(out, vec)
		return out
	case []float64:
		out := make([]float32, len(vec))
		for i, f := range vec {
			out[i] = float32(f)
		}
		return out
	case []any:
		if len(vec) == 0 {
			return nil
		}
		out := make([]float32, 0, len(vec))
		for _, el := range vec {
			switch f := el.(type) {
			case float64:
				out = append(out, float32(f))
			case float32:
				out = append(out, f)
			case int:
				out = append(out, float32(f))
			case int32:
				out = append(out, float32(f))
			case int64:
				out = append(out, float32(f))
			case json.Number:
				parsed, err := f.Float64()
				if err != nil {
					return nil
				}
				out = append(out, float32(parsed))
			default:
				return nil
			}
		}
		return out
	}
	return nil
}

// contentOf extracts text content from either a bare string or a record
// carrying one of the content field names.
func contentOf(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case map[string]any:
		return stringField(c, contentFields)
	}
	return ""
}

// index returns s[i] when in range, nil otherwise. Parallel-array shapes are
// zipped by index and the arrays are not guaranteed equal length.
func index(s []any, i int) any {
	if i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}

// indexMap returns s[i] as a record when possible.
func indexMap(s []any, i int) map[string]any {
	if m, ok := asMap(index(s, i)); ok {
		return m
	}
	return nil
}

// canonicalDocs converts a side-channel or canonical documents array back
// into typed documents. Accepts both the in-process typed form and the
// decoded map form; records without a usable embedding are skipped.
func canonicalDocs(v any) ([]vectordb.Document, bool) {
	switch docs := v.(type) {
	case []vectordb.Document:
		out := make([]vectordb.Document, 0, len(docs))
		for _, d := range docs {
			if len(d.Embedding) == 0 {
				continue
			}
			out = append(out, d)
		}
		return out, true
	case []any:
		out := make([]vectordb.Document, 0, len(docs))
		for _, el := range docs {
			rec, ok := asMap(el)
			if !ok {
				return nil, false
			}
			emb := floatVector(rec["embedding"])
			if len(emb) == 0 {
				continue
			}
			doc := vectordb.Document{
				ID:        stringField(rec, idFields),
				FileName:  stringField(rec, fileNameFields),
				Content:   stringField(rec, contentFields),
				Embedding: emb,
			}
			if meta, ok := asMap(rec["metadata"]); ok {
				doc.Metadata.Title = stringField(meta, titleFields)
				doc.Metadata.CreatedAt = stringField(meta, createdAtFields)
			}
			out = append(out, doc)
		}
		return out, true
	}
	return nil, false
}
