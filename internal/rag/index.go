// Package rag builds per-document vector indexes and retrieves the chunks
// closest to a query by exact nearest-neighbor search.
package rag

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mohammad-safakhou/interviewd/internal/provider"
)

// Chunk is one indexed window of the source document.
type Chunk struct {
	Index int
	Text  string
}

// Result pairs a chunk with its distance from the query vector. Smaller is
// closer.
type Result struct {
	Chunk    Chunk
	Distance float64
}

// ErrEmptyIndex is returned when searching an index with no chunks.
var ErrEmptyIndex = errors.New("rag: empty index")

// Index holds the embedded chunks of a single document. It is immutable after
// BuildIndex returns and safe for concurrent searches.
type Index struct {
	chunks  []Chunk
	vectors [][]float32
	dim     int
}

// BuildIndex embeds all texts in one batched call and returns a ready index.
// Building is all-or-nothing: any embedding failure or dimension mismatch
// leaves no index behind.
func BuildIndex(ctx context.Context, emb provider.Embedder, texts []string) (*Index, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("rag: no chunks to index")
	}
	vectors, err := emb.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("rag: got %d vectors for %d chunks", len(vectors), len(texts))
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("rag: empty embedding vector")
	}
	chunks := make([]Chunk, len(texts))
	for i, text := range texts {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("rag: vector %d has dimension %d, want %d", i, len(vectors[i]), dim)
		}
		chunks[i] = Chunk{Index: i, Text: text}
	}
	return &Index{chunks: chunks, vectors: vectors, dim: dim}, nil
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.chunks)
}

// Search returns the k chunks nearest to vec by Euclidean distance, ordered
// ascending with ties broken by chunk position. k larger than the index
// clamps to the index size.
func (ix *Index) Search(vec []float32, k int) ([]Result, error) {
	if ix == nil || len(ix.chunks) == 0 {
		return nil, ErrEmptyIndex
	}
	if k <= 0 {
		return nil, fmt.Errorf("rag: k must be positive, got %d", k)
	}
	if len(vec) != ix.dim {
		return nil, fmt.Errorf("rag: query vector has dimension %d, want %d", len(vec), ix.dim)
	}
	if k > len(ix.chunks) {
		k = len(ix.chunks)
	}
	results := make([]Result, len(ix.chunks))
	for i, v := range ix.vectors {
		results[i] = Result{Chunk: ix.chunks[i], Distance: euclidean(vec, v)}
	}
	sort.Slice(results, func(a, b int) bool {
		if results[a].Distance != results[b].Distance {
			return results[a].Distance < results[b].Distance
		}
		return results[a].Chunk.Index < results[b].Chunk.Index
	})
	return results[:k], nil
}

func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
