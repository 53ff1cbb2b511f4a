package similarity_test

import (
	"math"
	"testing"

	"github.com/vecbridge/vecbridge/internal/similarity"
)

func TestCosine_IdenticalVectors(t *testing.T) {
	a := []float32{0.3, -0.7, 0.1, 0.9}
	got := similarity.Cosine(a, a)
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("expected ~1.0 for identical vectors, got %v", got)
	}
}

func TestCosine_Orthogonal(t *testing.T) {
	got := similarity.Cosine([]float32{1, 0}, []float32{0, 1})
	if math.Abs(got) > 1e-6 {
		t.Errorf("expected ~0 for orthogonal vectors, got %v", got)
	}
}

func TestCosine_Opposite(t *testing.T) {
	got := similarity.Cosine([]float32{1, 0}, []float32{-1, 0})
	if math.Abs(got+1.0) > 1e-6 {
		t.Errorf("expected ~-1 for opposite vectors, got %v", got)
	}
}

func TestCosine_LengthMismatchReturnsZero(t *testing.T) {
	got := similarity.Cosine([]float32{1, 0, 0}, []float32{1, 0})
	if got != 0 {
		t.Errorf("expected 0 for mismatched lengths, got %v", got)
	}
}

func TestCosine_ZeroVectorReturnsZero(t *testing.T) {
	got := similarity.Cosine([]float32{0, 0, 0}, []float32{1, 2, 3})
	if got != 0 {
		t.Errorf("expected 0 for zero vector, got %v", got)
	}
	if math.IsNaN(got) {
		t.Error("got NaN for zero vector")
	}
}

func TestCosine_Bounds(t *testing.T) {
	vectors := [][]float32{
		{1, 2, 3},
		{-4, 5, -6},
		{0.001, -0.002, 100},
		{7, 7, 7},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			got := similarity.Cosine(a, b)
			if got < -1.0-1e-9 || got > 1.0+1e-9 {
				t.Errorf("Cosine(%v, %v) = %v, out of [-1, 1]", a, b, got)
			}
		}
	}
}

func TestRank_SortedDescending(t *testing.T) {
	query := []float32{1, 0}
	corpus := []similarity.Vector{
		{ID: "orthogonal", Values: []float32{0, 1}},
		{ID: "exact", Values: []float32{1, 0}},
		{ID: "close", Values: []float32{0.9, 0.1}},
	}

	ranked := similarity.Rank(query, corpus)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 results, got %d", len(ranked))
	}

	if ranked[0].ID != "exact" {
		t.Errorf("expected 'exact' first, got %q", ranked[0].ID)
	}
	if math.Abs(ranked[0].Score-1.0) > 1e-6 {
		t.Errorf("expected top score ~1.0, got %v", ranked[0].Score)
	}

	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("results not sorted descending at index %d", i)
		}
	}
}

func TestRank_EmptyCorpus(t *testing.T) {
	ranked := similarity.Rank([]float32{1, 0}, nil)
	if len(ranked) != 0 {
		t.Errorf("expected empty ranking, got %d results", len(ranked))
	}
}
