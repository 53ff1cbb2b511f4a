// internal/search/service.go
// Package search contains the query-side business logic: embedding a query,
// ranking a canonical database against it, and extracting bounded context
// from the results.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vecbridge/vecbridge/internal/embedder"
	"github.com/vecbridge/vecbridge/internal/similarity"
	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// DefaultTopK is used when a caller passes a non-positive topK.
const DefaultTopK = 5

// Result is one ranked document with its similarity score.
type Result struct {
	Document vectordb.Document `json:"document"`
	Score    float64           `json:"score"`
}

// Service contains the search business logic.
type Service struct {
	embedder embedder.Embedder
	log      *slog.Logger
}

// New creates a new Service. A nil logger falls back to slog.Default.
func New(emb embedder.Embedder, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{embedder: emb, log: log}
}

// Search embeds the query once, ranks every document in the database by
// cosine similarity, and returns the top-K results sorted descending.
// topK is clamped to [0, len(documents)]; an empty or embedding-less
// database yields an empty result set without calling the provider.
// A query whose embedding length differs from the database dimension fails
// with ErrDimensionMismatch rather than degrading into all-zero scores.
func (s *Service) Search(ctx context.Context, db *vectordb.Database, query string, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if db == nil || !db.HasEmbeddings() {
		return []Result{}, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	if len(queryVec) != db.Dimension {
		return nil, fmt.Errorf("%w: query dimension %d, database dimension %d",
			vectordb.ErrDimensionMismatch, len(queryVec), db.Dimension)
	}

	corpus := make([]similarity.Vector, len(db.Documents))
	for i, d := range db.Documents {
		corpus[i] = similarity.Vector{ID: d.ID, Values: d.Embedding}
	}

	ranked := similarity.Rank(queryVec, corpus)
	if topK > len(ranked) {
		topK = len(ranked)
	}

	results := make([]Result, topK)
	for i := 0; i < topK; i++ {
		results[i] = Result{
			Document: db.Documents[ranked[i].Index],
			Score:    ranked[i].Score,
		}
	}

	s.log.Debug("search complete",
		"database", db.Name,
		"corpus", len(db.Documents),
		"returned", len(results))
	return results, nil
}
