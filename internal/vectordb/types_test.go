package vectordb_test

import (
	"testing"
	"time"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

func TestNew_Dimension(t *testing.T) {
	docs := []vectordb.Document{
		{ID: "a", Embedding: []float32{1, 0, 0}},
		{ID: "b", Embedding: []float32{0, 1, 0}},
	}

	db := vectordb.New("test", docs)
	if db.Dimension != 3 {
		t.Errorf("expected dimension 3, got %d", db.Dimension)
	}
	if len(db.Documents) != 2 {
		t.Errorf("expected 2 documents, got %d", len(db.Documents))
	}
}

func TestNew_EmptyFallsBackToDefaultDimension(t *testing.T) {
	db := vectordb.New("empty", nil)
	if db.Dimension != vectordb.DefaultDimension {
		t.Errorf("expected dimension %d, got %d", vectordb.DefaultDimension, db.Dimension)
	}
	if db.Documents == nil {
		t.Error("expected non-nil documents slice")
	}
}

func TestNew_CreatedAtIsRFC3339(t *testing.T) {
	db := vectordb.New("test", nil)
	if _, err := time.Parse(time.RFC3339, db.CreatedAt); err != nil {
		t.Errorf("createdAt %q is not RFC3339: %v", db.CreatedAt, err)
	}
}

func TestHasEmbeddings(t *testing.T) {
	db := vectordb.New("test", []vectordb.Document{{ID: "a"}})
	if db.HasEmbeddings() {
		t.Error("expected no embeddings")
	}

	db = vectordb.New("test", []vectordb.Document{{ID: "a", Embedding: []float32{1}}})
	if !db.HasEmbeddings() {
		t.Error("expected embeddings")
	}
}
