package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apisearch "github.com/reelstack/reelqa/api/search"
)

var (
	searchToolName    = "transcript_search"
	searchDescription = "Search over the indexed video transcript using semantic search. Returns the most relevant transcript chunks for the query text, with their positions in the source."
)

// SearchInput represents the input arguments for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query text to find relevant transcript chunks"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of results to return (default: 4)"`
}

// handleSearch processes a search request.
func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, apisearch.SearchOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP search request",
		slog.String("query", input.Query),
		slog.Int("topK", input.TopK),
	)

	output, err := apisearch.Search(ctx, input.Query, input.TopK, s.config.Embedder, s.config.Index, logger)
	if err != nil {
		logger.Error("search failed", slog.Any("error", err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Search failed: %v", err)},
			},
		}, apisearch.SearchOutput{}, nil
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal search output", slog.Any("error", err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, apisearch.SearchOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, *output, nil
}
