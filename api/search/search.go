// Package search provides shared search types and logic for semantic search
// over indexed transcript chunks. It is used by both the REST API endpoint
// and the MCP server tool.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reelstack/reelqa/pkg/embeddings"
	"github.com/reelstack/reelqa/pkg/vector"
)

// DefaultTopK is the number of results returned when the caller does not
// specify one.
const DefaultTopK = 4

// SearchInput represents the input arguments for a search request.
type SearchInput struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// SearchResult represents a single search result.
type SearchResult struct {
	ID      int64   `json:"id"`
	Score   float32 `json:"score"`
	Ordinal int     `json:"ordinal"`
	Offset  int     `json:"offset"`
	Text    string  `json:"text"`
}

// SearchOutput represents the output of a search operation.
type SearchOutput struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// Search performs a semantic search over indexed transcript chunks.
// It embeds the query text and queries the vector index for the most
// similar chunks.
func Search(
	ctx context.Context,
	query string,
	topK int,
	embedder embeddings.Embedder,
	index vector.Index,
	logger *slog.Logger,
) (*SearchOutput, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.Debug("search request",
		slog.String("query", query),
		slog.Int("topK", topK),
	)

	// Embed the query
	queryEmbedding, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// Query the vector index
	results, err := index.Query(ctx, queryEmbedding, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector index: %w", err)
	}

	searchResults := make([]SearchResult, 0, len(results))
	for _, result := range results {
		searchResults = append(searchResults, BuildSearchResult(result))
	}

	return &SearchOutput{
		Query:   query,
		Results: searchResults,
		Count:   len(searchResults),
	}, nil
}

// BuildSearchResult converts a vector query result into a SearchResult.
func BuildSearchResult(result vector.Result) SearchResult {
	return SearchResult{
		ID:      result.ID,
		Score:   result.Score,
		Ordinal: result.Payload.Ordinal,
		Offset:  result.Payload.SourceOffset,
		Text:    result.Payload.Text,
	}
}
