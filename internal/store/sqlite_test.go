//go:build cgo

package store_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/vecbridge/vecbridge/internal/store"
	"github.com/vecbridge/vecbridge/internal/vectordb"
)

func newSQLiteStore(t *testing.T) *store.SQLite {
	t.Helper()

	f, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	f.Close()

	s, err := store.NewSQLite(f.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SaveLoad(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testDatabase("notes")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(ctx, "notes")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.Name != "notes" {
		t.Errorf("expected name 'notes', got %q", got.Name)
	}
	if got.Dimension != 3 {
		t.Errorf("expected dimension 3, got %d", got.Dimension)
	}
	if len(got.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(got.Documents))
	}

	first := got.Documents[0]
	if first.ID != "a" || first.Content != "alpha" || first.Metadata.Title != "Alpha" {
		t.Errorf("unexpected document: %+v", first)
	}
	if len(first.Embedding) != 3 || first.Embedding[0] != 1 {
		t.Errorf("unexpected embedding: %v", first.Embedding)
	}
}

func TestSQLiteStore_SaveReplaces(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testDatabase("notes")); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	smaller := vectordb.New("notes", []vectordb.Document{
		{ID: "only", Content: "single", Embedding: []float32{1, 1}},
	})
	if err := s.Save(ctx, smaller); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := s.Load(ctx, "notes")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Documents) != 1 || got.Documents[0].ID != "only" {
		t.Errorf("expected replacement, got %+v", got.Documents)
	}
	if got.Dimension != 2 {
		t.Errorf("expected dimension 2 after replace, got %d", got.Dimension)
	}
}

func TestSQLiteStore_LoadMissing(t *testing.T) {
	s := newSQLiteStore(t)

	_, err := s.Load(context.Background(), "nope")
	if !errors.Is(err, vectordb.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_List(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testDatabase("beta")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save(ctx, testDatabase("alpha")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("expected sorted [alpha beta], got %v", names)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testDatabase("notes")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Delete(ctx, "notes"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := s.Load(ctx, "notes"); !errors.Is(err, vectordb.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.Delete(ctx, "notes"); !errors.Is(err, vectordb.ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestSQLiteStore_PunctuatedNamesKeepSeparateIndexes(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	underscore := vectordb.New("a_b", []vectordb.Document{
		{ID: "x", Content: "underscore doc", Embedding: []float32{1, 0}},
	})
	hyphen := vectordb.New("a-b", []vectordb.Document{
		{ID: "y", Content: "hyphen doc", Embedding: []float32{0, 1}},
	})

	if err := s.Save(ctx, underscore); err != nil {
		t.Fatalf("Save a_b failed: %v", err)
	}
	if err := s.Save(ctx, hyphen); err != nil {
		t.Fatalf("Save a-b failed: %v", err)
	}

	docs, err := s.Search(ctx, "a_b", []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search a_b failed: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "x" {
		t.Errorf("expected doc x from a_b, got %v", docs)
	}

	docs, err = s.Search(ctx, "a-b", []float32{0, 1}, 5)
	if err != nil {
		t.Fatalf("Search a-b failed: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "y" {
		t.Errorf("expected doc y from a-b, got %v", docs)
	}
}

func TestSQLiteStore_Search(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testDatabase("notes")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	docs, err := s.Search(ctx, "notes", []float32{0.9, 0.1, 0}, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 result, got %d", len(docs))
	}
	if docs[0].ID != "a" {
		t.Errorf("expected nearest document 'a', got %q", docs[0].ID)
	}
}
