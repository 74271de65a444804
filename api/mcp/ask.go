package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	askToolName    = "transcript_ask"
	askDescription = "Ask a natural-language question about the indexed video transcript. The answer is generated from the most relevant transcript chunks, so the transcript must be indexed first."
)

// AskInput represents the input arguments for the MCP transcript_ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed transcript"`
}

// AskOutput represents the structured output of an ask request.
type AskOutput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// handleAsk processes a question answering request via MCP.
func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	if input.Question == "" {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "question is required"},
			},
		}, AskOutput{}, nil
	}

	answer, err := s.config.Asker.Invoke(ctx, input.Question)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Ask failed: %v", err)},
			},
		}, AskOutput{}, nil
	}

	output := AskOutput{
		Question: input.Question,
		Answer:   answer,
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, AskOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
