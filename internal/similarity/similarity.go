// internal/similarity/similarity.go
// Package similarity implements cosine similarity and brute-force ranking
// over small corpora (thousands of documents at most).
package similarity

import (
	"math"
	"sort"
)

// Cosine returns the cosine similarity between a and b. It returns 0 when
// the lengths differ or either vector has zero norm; it never returns NaN.
// Length enforcement belongs to the caller; this is a safety net.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Vector is one corpus entry to be ranked.
type Vector struct {
	ID     string
	Values []float32
}

// Scored is a ranked corpus entry.
type Scored struct {
	ID    string
	Index int
	Score float64
}

// Rank scores every corpus vector against the query and returns the full
// list sorted descending by score. Truncation to top-K is the caller's
// concern and happens after ranking.
func Rank(query []float32, corpus []Vector) []Scored {
	scored := make([]Scored, len(corpus))
	for i, v := range corpus {
		scored[i] = Scored{
			ID:    v.ID,
			Index: i,
			Score: Cosine(query, v.Values),
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
