package store_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/vecbridge/vecbridge/internal/store"
	"github.com/vecbridge/vecbridge/internal/vectordb"
)

func newMongoStore(t *testing.T) *store.MongoDB {
	t.Helper()

	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set, skipping MongoDB tests")
	}

	s, err := store.NewMongoDB(context.Background(), uri, "vecbridge_test")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMongoStore_SaveLoadDelete(t *testing.T) {
	s := newMongoStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testDatabase("notes")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	t.Cleanup(func() { s.Delete(ctx, "notes") })

	got, err := s.Load(ctx, "notes")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Documents) != 2 || got.Documents[0].Metadata.Title != "Alpha" {
		t.Errorf("unexpected documents: %+v", got.Documents)
	}

	if err := s.Delete(ctx, "notes"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Load(ctx, "notes"); !errors.Is(err, vectordb.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMongoStore_Search(t *testing.T) {
	s := newMongoStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, testDatabase("notes")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	t.Cleanup(func() { s.Delete(ctx, "notes") })

	docs, err := s.Search(ctx, "notes", []float32{0.9, 0.1, 0}, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "a" {
		t.Errorf("expected nearest document 'a', got %+v", docs)
	}
}
