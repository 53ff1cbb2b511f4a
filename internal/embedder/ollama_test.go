package embedder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

func TestOllama_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		resp := embeddingResponse{
			Embedding: make([]float32, 768),
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewOllama(server.URL, "nomic-embed-text")
	emb, err := client.Embed(context.Background(), "test content")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(emb) != 768 {
		t.Errorf("expected 768 dimensions, got %d", len(emb))
	}
}

func TestOllama_EmbedTruncatesInput(t *testing.T) {
	var receivedPrompt string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		json.NewDecoder(r.Body).Decode(&req)
		receivedPrompt = req.Prompt

		resp := embeddingResponse{
			Embedding: make([]float32, 8),
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewOllama(server.URL, "nomic-embed-text")
	long := strings.Repeat("x", MaxInputChars+500)
	_, err := client.Embed(context.Background(), long)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(receivedPrompt) != MaxInputChars {
		t.Errorf("expected prompt truncated to %d chars, got %d", MaxInputChars, len(receivedPrompt))
	}
}

func TestOllama_EmbedServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewOllama(server.URL, "nomic-embed-text")
	_, err := client.Embed(context.Background(), "test")
	if err == nil {
		t.Fatal("expected error for server failure")
	}
	if !errors.Is(err, vectordb.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short"); got != "short" {
		t.Errorf("expected unchanged text, got %q", got)
	}

	long := strings.Repeat("a", MaxInputChars*2)
	if got := Truncate(long); len(got) != MaxInputChars {
		t.Errorf("expected %d chars, got %d", MaxInputChars, len(got))
	}
}
