package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/reelstack/reelqa/pkg/generation"
	"github.com/reelstack/reelqa/pkg/transcript"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AskRequest is the body of a POST /v1/ask request. K overrides the
// configured number of retrieved chunks when positive.
type AskRequest struct {
	Question string `json:"question"`
	K        int    `json:"k,omitempty"`
}

// AskResponse is the body of a successful POST /v1/ask response.
type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// IndexRequest is the body of a POST /v1/index request.
// Either VideoID alone (transcript is fetched from the configured source)
// or VideoID plus Text (the transcript is supplied inline).
type IndexRequest struct {
	VideoID string `json:"video_id"`
	Text    string `json:"text,omitempty"`
}

// IndexResponse is the body of a successful POST /v1/index response.
type IndexResponse struct {
	VideoID string `json:"video_id"`
	Chunks  int    `json:"chunks"`
	Indexed bool   `json:"indexed"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleAsk answers a question against the indexed transcript.
func (s *Server) handleAsk(c *fiber.Ctx) error {
	if s.engine == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "question answering is not configured",
		})
	}

	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "question is required"})
	}
	if req.K < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "k must be positive"})
	}

	var answer string
	var err error
	if req.K > 0 {
		answer, err = s.engine.InvokeK(c.Context(), req.Question, req.K)
	} else {
		answer, err = s.engine.Invoke(c.Context(), req.Question)
	}
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, generation.ErrGeneration) {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(AskResponse{
		Question: req.Question,
		Answer:   answer,
	})
}

// handleIndex fetches, splits, embeds, and indexes a transcript.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	if s.engine == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "indexing is not configured",
		})
	}

	var req IndexRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.VideoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "video_id is required"})
	}

	if req.Text != "" {
		chunks, err := s.engine.IndexText(c.Context(), req.VideoID, req.Text)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
		}
		return c.JSON(IndexResponse{VideoID: req.VideoID, Chunks: chunks, Indexed: true})
	}

	chunks, ok, err := s.engine.IndexVideo(c.Context(), req.VideoID)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, transcript.ErrFetch) {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
	}

	// ok is false when the video has no transcript available. That is not
	// an error, the caller just gets nothing to query.
	return c.JSON(IndexResponse{VideoID: req.VideoID, Chunks: chunks, Indexed: ok})
}

// handleClear removes all indexed chunks.
func (s *Server) handleClear(c *fiber.Ctx) error {
	if s.engine == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "indexing is not configured",
		})
	}

	if err := s.engine.Clear(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// handleStats returns statistics about the index.
func (s *Server) handleStats(c *fiber.Ctx) error {
	if s.engine == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "indexing is not configured",
		})
	}

	count, err := s.engine.Count(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(map[string]any{
		"chunks": count,
	})
}

// handleGraph returns the answer pipeline structure. With ?format=text the
// response is the ASCII rendering instead of JSON.
func (s *Server) handleGraph(c *fiber.Ctx) error {
	if s.engine == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "question answering is not configured",
		})
	}

	graph := s.engine.Graph()

	if c.Query("format") == "text" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(graph.Render())
	}

	return c.JSON(graph)
}
