package format_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vecbridge/vecbridge/internal/format"
	"github.com/vecbridge/vecbridge/internal/vectordb"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("invalid test payload: %v", err)
	}
	return v
}

func importRaw(t *testing.T, raw string) *vectordb.Database {
	t.Helper()
	db, err := format.NewImporter(nil).Import(decode(t, raw), "test-source")
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	return db
}

func TestImport_Chroma(t *testing.T) {
	db := importRaw(t, `{
		"ids": ["a", "b"],
		"documents": ["hello", "world"],
		"embeddings": [[1, 0], [0, 1]],
		"metadatas": [{"title": "A"}, {"title": "B"}]
	}`)

	if len(db.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(db.Documents))
	}
	if db.Dimension != 2 {
		t.Errorf("expected dimension 2, got %d", db.Dimension)
	}

	first := db.Documents[0]
	if first.ID != "a" {
		t.Errorf("expected id 'a', got %q", first.ID)
	}
	if first.Content != "hello" {
		t.Errorf("expected content 'hello', got %q", first.Content)
	}
	if first.Embedding[0] != 1 || first.Embedding[1] != 0 {
		t.Errorf("unexpected embedding %v", first.Embedding)
	}
	if first.Metadata.Title != "A" {
		t.Errorf("expected title 'A', got %q", first.Metadata.Title)
	}
}

func TestImport_Chroma_SkipsEmptyEmbedding(t *testing.T) {
	db := importRaw(t, `{
		"ids": ["a", "b", "c"],
		"documents": ["one", "two", "three"],
		"embeddings": [[1, 0], [], [0, 1]]
	}`)

	if len(db.Documents) != 2 {
		t.Fatalf("expected 2 documents after filtering, got %d", len(db.Documents))
	}
	if db.Documents[0].ID != "a" || db.Documents[1].ID != "c" {
		t.Errorf("wrong documents survived: %q, %q", db.Documents[0].ID, db.Documents[1].ID)
	}
}

func TestImport_Chroma_SkipsMismatchedDimension(t *testing.T) {
	db := importRaw(t, `{
		"ids": ["a", "b"],
		"documents": ["one", "two"],
		"embeddings": [[1, 0], [0, 1, 5]]
	}`)

	if db.Dimension != 2 {
		t.Fatalf("expected dimension 2, got %d", db.Dimension)
	}
	if len(db.Documents) != 1 {
		t.Fatalf("expected 1 document after filtering, got %d", len(db.Documents))
	}
	if db.Documents[0].ID != "a" {
		t.Errorf("wrong document survived: %q", db.Documents[0].ID)
	}
	for _, d := range db.Documents {
		if len(d.Embedding) != db.Dimension {
			t.Errorf("document %q: embedding length %d does not match dimension %d",
				d.ID, len(d.Embedding), db.Dimension)
		}
	}
}

func TestImport_Canonical_SkipsMismatchedDimension(t *testing.T) {
	db := importRaw(t, `{
		"name": "mixed",
		"documents": [
			{"id": "a", "content": "one", "embedding": [1, 0, 0]},
			{"id": "b", "content": "two", "embedding": [0, 1]},
			{"id": "c", "content": "three", "embedding": [0, 0, 1]}
		]
	}`)

	if db.Dimension != 3 {
		t.Fatalf("expected dimension 3, got %d", db.Dimension)
	}
	if len(db.Documents) != 2 {
		t.Fatalf("expected 2 documents after filtering, got %d", len(db.Documents))
	}
	if db.Documents[0].ID != "a" || db.Documents[1].ID != "c" {
		t.Errorf("wrong documents survived: %q, %q", db.Documents[0].ID, db.Documents[1].ID)
	}
}

func TestImport_Chroma_FileNameFallbacks(t *testing.T) {
	db := importRaw(t, `{
		"ids": ["a", "b", "c"],
		"documents": ["x", "y", "z"],
		"embeddings": [[1], [2], [3]],
		"metadatas": [{"fileName": "one.txt"}, {"filename": "two.txt"}, {"file_name": "three.txt"}]
	}`)

	want := []string{"one.txt", "two.txt", "three.txt"}
	for i, w := range want {
		if db.Documents[i].FileName != w {
			t.Errorf("document %d: expected fileName %q, got %q", i, w, db.Documents[i].FileName)
		}
	}
}

func TestImport_Canonical(t *testing.T) {
	db := importRaw(t, `{
		"name": "notes",
		"createdAt": "2025-06-01T00:00:00Z",
		"dimension": 2,
		"documents": [
			{"id": "d1", "fileName": "a.txt", "content": "alpha", "embedding": [1, 0],
			 "metadata": {"title": "Alpha", "createdAt": "2025-06-01T00:00:00Z"}}
		]
	}`)

	if db.Name != "notes" {
		t.Errorf("expected name 'notes', got %q", db.Name)
	}
	if db.CreatedAt != "2025-06-01T00:00:00Z" {
		t.Errorf("expected createdAt preserved, got %q", db.CreatedAt)
	}
	if len(db.Documents) != 1 || db.Documents[0].Metadata.Title != "Alpha" {
		t.Errorf("unexpected documents: %+v", db.Documents)
	}
}

func TestImport_Qdrant(t *testing.T) {
	db := importRaw(t, `{
		"points": [
			{"id": 7, "vector": [0.5, 0.5], "payload": {"content": "text", "filename": "f.md", "title": "T"}}
		]
	}`)

	if len(db.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(db.Documents))
	}
	d := db.Documents[0]
	if d.ID != "7" {
		t.Errorf("expected numeric id coerced to '7', got %q", d.ID)
	}
	if d.Content != "text" || d.FileName != "f.md" || d.Metadata.Title != "T" {
		t.Errorf("unexpected document %+v", d)
	}
}

func TestImport_Pinecone(t *testing.T) {
	db := importRaw(t, `{
		"vectors": [
			{"id": "v1", "values": [1, 2, 3], "metadata": {"content": "body", "filename": "p.txt", "title": "P"}}
		]
	}`)

	if len(db.Documents) != 1 || db.Dimension != 3 {
		t.Fatalf("unexpected import: %d docs, dimension %d", len(db.Documents), db.Dimension)
	}
	if db.Documents[0].Content != "body" {
		t.Errorf("expected content 'body', got %q", db.Documents[0].Content)
	}
}

func TestImport_Weaviate_AdditionalFallback(t *testing.T) {
	db := importRaw(t, `{
		"objects": [
			{"_additional": {"id": "w1", "vector": [1, 0]}, "properties": {"content": "weaviate text", "title": "W"}}
		]
	}`)

	if len(db.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(db.Documents))
	}
	if db.Documents[0].ID != "w1" {
		t.Errorf("expected id from _additional, got %q", db.Documents[0].ID)
	}
	if db.Documents[0].Content != "weaviate text" {
		t.Errorf("unexpected content %q", db.Documents[0].Content)
	}
}

func TestImport_Milvus(t *testing.T) {
	db := importRaw(t, `{
		"collection_name": "papers",
		"fields": [
			{"name": "id", "data": ["m1", "m2"]},
			{"name": "embedding", "data": [[1, 0], [0, 1]]},
			{"name": "content", "data": ["first", "second"]},
			{"name": "filename", "data": ["a.pdf", "b.pdf"]},
			{"name": "title", "data": ["First", "Second"]}
		]
	}`)

	if db.Name != "papers" {
		t.Errorf("expected name from collection_name, got %q", db.Name)
	}
	if len(db.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(db.Documents))
	}
	if db.Documents[1].Content != "second" || db.Documents[1].Metadata.Title != "Second" {
		t.Errorf("column pivot wrong: %+v", db.Documents[1])
	}
}

func TestImport_LanceDB(t *testing.T) {
	db := importRaw(t, `{
		"schema": {"fields": [{"name": "id", "type": "string"}]},
		"data": [
			{"id": "l1", "vector": [0.1, 0.2], "content": "row text", "filename": "l.txt", "title": "L", "created_at": "2025-01-01T00:00:00Z"}
		]
	}`)

	if len(db.Documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(db.Documents))
	}
	if db.Documents[0].Metadata.CreatedAt != "2025-01-01T00:00:00Z" {
		t.Errorf("expected created_at preserved, got %q", db.Documents[0].Metadata.CreatedAt)
	}
}

func TestImport_FAISS(t *testing.T) {
	db := importRaw(t, `{
		"embeddings": [[1, 0], [0, 1]],
		"metadata": {
			"documents": ["cat text", "dog text"],
			"metadatas": [{"title": "Cat", "filename": "cat.txt"}, {"title": "Dog"}]
		}
	}`)

	if len(db.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(db.Documents))
	}
	if db.Documents[0].Content != "cat text" || db.Documents[0].Metadata.Title != "Cat" {
		t.Errorf("sidecar zip wrong: %+v", db.Documents[0])
	}
}

func TestImport_GenericArray(t *testing.T) {
	db := importRaw(t, `[
		{"id": "g1", "text": "generic one", "vector": [1, 1]},
		{"ids": "g2", "documents": "generic two", "embeddings": [2, 2], "file_name": "g2.txt"}
	]`)

	if len(db.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(db.Documents))
	}
	if db.Documents[0].Content != "generic one" {
		t.Errorf("expected text fallback, got %q", db.Documents[0].Content)
	}
	if db.Documents[1].ID != "g2" || db.Documents[1].FileName != "g2.txt" {
		t.Errorf("field fallbacks wrong: %+v", db.Documents[1])
	}
}

func TestImport_SynthesizedDefaults(t *testing.T) {
	db := importRaw(t, `{
		"ids": [null, null],
		"documents": ["x", "y"],
		"embeddings": [[1], [2]]
	}`)

	if db.Documents[0].ID != "doc_0" || db.Documents[1].ID != "doc_1" {
		t.Errorf("expected synthesized ids, got %q, %q", db.Documents[0].ID, db.Documents[1].ID)
	}
	if db.Documents[0].Metadata.Title == "" {
		t.Error("expected title to fall back to synthesized file name")
	}
	if db.Documents[0].Metadata.CreatedAt == "" {
		t.Error("expected createdAt to default to import time")
	}
}

func TestImport_Unrecognized(t *testing.T) {
	_, err := format.NewImporter(nil).Import(decode(t, `{"foo": "bar"}`), "test")
	if err == nil {
		t.Fatal("expected error for unrecognized format")
	}
	if !errors.Is(err, vectordb.ErrUnrecognizedFormat) {
		t.Errorf("expected ErrUnrecognizedFormat, got %v", err)
	}
	// Diagnostics should name the conventions that were considered.
	if want := "chroma"; !strings.Contains(err.Error(), want) {
		t.Errorf("expected error to mention %q, got %q", want, err.Error())
	}
}

func TestImport_AllRecordsFilteredIsEmptySuccess(t *testing.T) {
	db := importRaw(t, `{
		"ids": ["a"],
		"documents": ["x"],
		"embeddings": [[]]
	}`)

	if len(db.Documents) != 0 {
		t.Fatalf("expected 0 documents, got %d", len(db.Documents))
	}
	if db.Dimension != vectordb.DefaultDimension {
		t.Errorf("expected fallback dimension %d, got %d", vectordb.DefaultDimension, db.Dimension)
	}
}

func TestDetect_PriorityOrder(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want format.Format
	}{
		{"canonical", `{"dimension": 2, "documents": [{"id": "x", "embedding": [1, 0]}]}`, format.FormatCanonical},
		{"chroma", `{"ids": [], "embeddings": [], "documents": []}`, format.FormatChroma},
		{"enriched", `{"entries": {}, "_documents": []}`, format.FormatEnriched},
		{"qdrant", `{"points": []}`, format.FormatQdrant},
		{"pinecone", `{"vectors": []}`, format.FormatPinecone},
		{"weaviate", `{"objects": []}`, format.FormatWeaviate},
		{"milvus", `{"fields": []}`, format.FormatMilvus},
		{"lancedb", `{"schema": {}, "data": []}`, format.FormatLanceDB},
		{"faiss", `{"embeddings": [[1]], "metadata": {"documents": ["x"]}}`, format.FormatFAISS},
		{"array", `[{"embedding": [1]}]`, format.FormatArray},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := format.Detect(decode(t, tc.raw))
			if !ok {
				t.Fatal("expected detection to succeed")
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
