// internal/embedder/embedder.go
// Package embedder provides the embedding provider boundary: text in, fixed
// dimension float vector out. Pooling and normalization policy belong to the
// provider; this core only assumes the dimension is stable per model.
package embedder

import (
	"context"
	"fmt"

	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// MaxInputChars is the input truncation limit applied before inference.
// Longer texts are cut, not rejected.
const MaxInputChars = 8000

// Embedder generates vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Truncate cuts text to MaxInputChars.
func Truncate(text string) string {
	if len(text) > MaxInputChars {
		return text[:MaxInputChars]
	}
	return text
}

// providerErr marks a failure as a provider outage so callers can match it
// with errors.Is. Retries, if any, belong to the caller.
func providerErr(err error) error {
	return fmt.Errorf("%w: %v", vectordb.ErrProviderUnavailable, err)
}

// Config holds embedding provider configuration.
type Config struct {
	Provider string // "ollama" or "openai"

	// Ollama
	OllamaURL   string
	OllamaModel string

	// OpenAI-compatible
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAIKey     string
}

// New creates an Embedder implementation based on config.
func New(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case "", "ollama":
		if cfg.OllamaURL == "" {
			return nil, fmt.Errorf("ollama URL is required")
		}
		if cfg.OllamaModel == "" {
			cfg.OllamaModel = "nomic-embed-text"
		}
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel), nil

	case "openai":
		return NewOpenAI(OpenAIConfig{
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			APIKey:  cfg.OpenAIKey,
		})

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
