package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/interviewd/internal/provider"
)

// Retriever embeds a query and pulls the closest chunks from one index.
// TopK must be positive; the interview config supplies the default.
type Retriever struct {
	Embedder provider.Embedder
	Index    *Index
	TopK     int
}

// Retrieve embeds q once and returns the TopK nearest chunks.
func (r Retriever) Retrieve(ctx context.Context, q string) ([]Result, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("rag: empty query")
	}
	qvecs, err := r.Embedder.Embed(ctx, []string{q})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(qvecs) == 0 {
		return nil, fmt.Errorf("rag: embedder returned no query vector")
	}
	return r.Index.Search(qvecs[0], r.TopK)
}

// ContextText joins result chunk texts into a single prompt context block.
func ContextText(results []Result) string {
	parts := make([]string, len(results))
	for i, res := range results {
		parts[i] = res.Chunk.Text
	}
	return strings.Join(parts, "\n\n")
}
