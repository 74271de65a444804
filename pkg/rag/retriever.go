package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reelstack/reelqa/pkg/chunk"
	"github.com/reelstack/reelqa/pkg/embeddings"
	"github.com/reelstack/reelqa/pkg/pipeline"
	"github.com/reelstack/reelqa/pkg/vector"
)

// DefaultTopK is the number of chunks retrieved per question when none is
// configured.
const DefaultTopK = 4

// Retriever adapts an embedder and a vector index into a "query text to
// ranked chunks" stage.
type Retriever struct {
	embedder embeddings.Embedder
	index    vector.Index
	k        int
	logger   *slog.Logger
}

// RetrieverConfig holds configuration for a Retriever.
type RetrieverConfig struct {
	Embedder embeddings.Embedder
	Index    vector.Index

	// K is the number of results per query. Defaults to DefaultTopK if
	// zero.
	K int

	Logger *slog.Logger
}

// NewRetriever creates a retriever over the given embedder and index.
func NewRetriever(cfg RetrieverConfig) (*Retriever, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("retriever requires an embedder")
	}
	if cfg.Index == nil {
		return nil, fmt.Errorf("retriever requires a vector index")
	}

	k := cfg.K
	if k == 0 {
		k = DefaultTopK
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", vector.ErrInvalidK, k)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Retriever{
		embedder: cfg.Embedder,
		index:    cfg.Index,
		k:        k,
		logger:   logger,
	}, nil
}

// Retrieve embeds the query and returns its k nearest chunks in rank
// order, similarity scores dropped.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]chunk.Chunk, error) {
	return r.RetrieveK(ctx, query, r.k)
}

// RetrieveK is Retrieve with an explicit result count.
func (r *Retriever) RetrieveK(ctx context.Context, query string, k int) ([]chunk.Chunk, error) {
	results, err := r.Results(ctx, query, k)
	if err != nil {
		return nil, err
	}

	chunks := make([]chunk.Chunk, len(results))
	for i, res := range results {
		chunks[i] = res.Payload
	}
	return chunks, nil
}

// Results is RetrieveK keeping the similarity scores, for search surfaces
// that display them.
func (r *Retriever) Results(ctx context.Context, query string, k int) ([]vector.Result, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := r.index.Query(ctx, vec, k)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("retrieved chunks",
		"query_len", len(query),
		"k", k,
		"hits", len(results),
	)
	return results, nil
}

// Invoke implements pipeline.Runnable. The input must be the query string;
// the output is the ranked []chunk.Chunk.
func (r *Retriever) Invoke(ctx context.Context, in any) (any, error) {
	query, ok := in.(string)
	if !ok {
		return nil, fmt.Errorf("retriever expects a string query, got %T", in)
	}
	return r.Retrieve(ctx, query)
}

// Label implements pipeline.Runnable.
func (r *Retriever) Label() string { return "retriever" }

// InputShape implements pipeline.Typed.
func (r *Retriever) InputShape() string { return "string" }

// OutputShape implements pipeline.Typed.
func (r *Retriever) OutputShape() string { return "[]chunk.Chunk" }

// FormatContext flattens retrieved chunks into a single grounding context
// block, one chunk per paragraph in rank order.
func FormatContext(chunks []chunk.Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, strings.TrimSpace(c.Text))
	}
	return strings.Join(parts, "\n\n")
}

// FormatterStage wraps FormatContext as a pipeline stage.
func FormatterStage() pipeline.Runnable {
	return pipeline.TypedLambda("format_context", "[]chunk.Chunk", "string", func(_ context.Context, in any) (any, error) {
		chunks, ok := in.([]chunk.Chunk)
		if !ok {
			return nil, fmt.Errorf("formatter expects []chunk.Chunk, got %T", in)
		}
		return FormatContext(chunks), nil
	})
}

var (
	_ pipeline.Runnable = (*Retriever)(nil)
	_ pipeline.Typed    = (*Retriever)(nil)
)
