package search_test

import (
	"testing"

	"github.com/vecbridge/vecbridge/internal/search"
	"github.com/vecbridge/vecbridge/internal/vectordb"
)

func TestCache_PutGetInvalidate(t *testing.T) {
	c := search.NewCache()
	db := vectordb.New("test", nil)

	if _, ok := c.Get("a"); ok {
		t.Error("expected miss on empty cache")
	}

	c.Put("a", db)
	got, ok := c.Get("a")
	if !ok || got != db {
		t.Error("expected hit after Put")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after Invalidate")
	}
}

func TestCache_Keys(t *testing.T) {
	c := search.NewCache()
	c.Put("b", vectordb.New("b", nil))
	c.Put("a", vectordb.New("a", nil))

	keys := c.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("expected sorted keys [a b], got %v", keys)
	}
}

func TestSourceKey(t *testing.T) {
	if got := search.SourceKey("/tmp/db.json", nil); got != "/tmp/db.json" {
		t.Errorf("expected path key, got %q", got)
	}

	h1 := search.SourceKey("", []byte("payload"))
	h2 := search.SourceKey("", []byte("payload"))
	h3 := search.SourceKey("", []byte("different"))
	if h1 != h2 {
		t.Error("expected identical hash for identical content")
	}
	if h1 == h3 {
		t.Error("expected different hash for different content")
	}
}
