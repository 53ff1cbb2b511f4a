package embedder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

func TestOpenAI_Embed(t *testing.T) {
	var receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		receivedAuth = r.Header.Get("Authorization")

		resp := map[string]any{
			"data": []map[string]any{
				{"embedding": make([]float32, 1536)},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewOpenAI(OpenAIConfig{BaseURL: server.URL, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}

	emb, err := client.Embed(context.Background(), "test content")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(emb) != 1536 {
		t.Errorf("expected 1536 dimensions, got %d", len(emb))
	}
	if receivedAuth != "Bearer sk-test" {
		t.Errorf("expected bearer auth header, got %q", receivedAuth)
	}
}

func TestOpenAI_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAI(OpenAIConfig{})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestOpenAI_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	client, err := NewOpenAI(OpenAIConfig{BaseURL: server.URL, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}

	_, err = client.Embed(context.Background(), "test")
	if !errors.Is(err, vectordb.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "word2vec"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
