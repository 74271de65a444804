package api

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/reelstack/reelqa/pkg/rag"
)

// Server is the API server for indexing and querying transcripts.
type Server struct {
	config Config
	engine *rag.Engine
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server.
// The engine is injected to allow sharing with other components
// (e.g., the MCP server when both run in one process).
func NewServer(config Config, engine *rag.Engine, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		engine: engine,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/v1/search", s.handleSearchEndpoint)
	app.Post("/v1/ask", s.handleAsk)
	app.Post("/v1/index", s.handleIndex)
	app.Delete("/v1/index", s.handleClear)
	app.Get("/v1/stats", s.handleStats)
	app.Get("/v1/graph", s.handleGraph)

	return s
}

// MountMCP mounts an MCP streamable HTTP handler at /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.app.All("/mcp", adaptor.HTTPHandler(h))
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		slog.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
