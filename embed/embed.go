// Package embed maps text to vectors for relevance ranking.
//
// Three embedders are provided: [OpenAI] calls an OpenAI-compatible
// embeddings endpoint, [Hashing] builds feature-hashed bag-of-words vectors
// locally, and [Cache] wraps either one with a SQLite store so repeated runs
// over the same sections skip the model.
//
// All embedders preserve order: the i-th vector belongs to the i-th text.
package embed

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Embedder maps a batch of texts to vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Func adapts a function to the Embedder interface.
type Func func(ctx context.Context, texts []string) ([][]float32, error)

// Embed calls f.
func (f Func) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return f(ctx, texts)
}

// ErrDimensionMismatch is returned when vectors of different lengths are
// compared.
var ErrDimensionMismatch = errors.New("vector dimensions differ")

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. A zero vector has similarity 0 with everything.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim)), nil
}

// Normalize scales v to unit length in place. Zero vectors are left as is.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}

// checkCount verifies an embedder returned one vector per input.
func checkCount(got, want int) error {
	if got != want {
		return fmt.Errorf("embedder returned %d vectors for %d texts", got, want)
	}
	return nil
}
