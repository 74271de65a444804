// Package mcp provides an MCP (Model Context Protocol) server exposing
// transcript search and question answering as tools.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reelstack/reelqa/pkg/embeddings"
	"github.com/reelstack/reelqa/pkg/utils"
	"github.com/reelstack/reelqa/pkg/vector"
)

// Asker answers a natural-language question against the indexed transcript.
// *rag.Engine satisfies this.
type Asker interface {
	Invoke(ctx context.Context, question string) (string, error)
}

type Config struct {
	// Embedder for converting query text to vectors for semantic search
	// with the configured Index
	Embedder embeddings.Embedder

	// Index is the vector index holding transcript chunks
	Index vector.Index

	// Asker for the ask tool (optional, enables transcript_ask)
	Asker Asker

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the search tool.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	// Create the MCP server
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "reelqa",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.mcpServer = mcpServer
		return s, nil
	}

	if c.Embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if c.Index == nil {
		return nil, errors.New("vector index is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	// Add tools
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        searchToolName,
		Description: searchDescription,
	}, s.handleSearch)

	// Add the ask tool if an asker is configured
	if c.Asker != nil {
		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        askToolName,
			Description: askDescription,
		}, s.handleAsk)
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
