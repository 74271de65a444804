// Package openai implements pkg/generation's Generator client for
// OpenAI-compatible chat completion APIs.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/reelstack/reelqa/pkg/generation"
	"github.com/reelstack/reelqa/pkg/sse"
)

const (
	// DefaultModel is the default chat completion model.
	DefaultModel = "gpt-4o-mini"

	// DefaultBaseURL is the default API URL. Any OpenAI-compatible server
	// works when pointed at its /v1 root.
	DefaultBaseURL = "https://api.openai.com/v1"

	// streamDone terminates an SSE completion stream.
	streamDone = "[DONE]"
)

// Generator wraps an OpenAI-compatible /chat/completions endpoint.
type Generator struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// GeneratorConfig holds configuration for the OpenAI generator.
type GeneratorConfig struct {
	// BaseURL is the API root. Defaults to DefaultBaseURL if empty.
	BaseURL string

	// APIKey is sent as a Bearer token when non-empty.
	APIKey string

	// Model is the chat model to use. Defaults to DefaultModel if empty.
	Model string

	// Temperature is the sampling temperature. Defaults to
	// generation.DefaultTemperature if nil.
	Temperature *float64
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// chatStreamChunk is one SSE data payload from a streaming completion.
type chatStreamChunk struct {
	Model   string `json:"model"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// NewGenerator creates a generator backed by an OpenAI-compatible API.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	temperature := generation.DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}

	return &Generator{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
	}, nil
}

// Generate produces a completion for the prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (*generation.Response, error) {
	body, err := g.send(ctx, prompt, false)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp chatResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", generation.ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response contains no choices", generation.ErrGeneration)
	}

	return &generation.Response{
		Text:             resp.Choices[0].Message.Content,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// GenerateStream produces a completion incrementally over SSE.
func (g *Generator) GenerateStream(ctx context.Context, prompt string, onDelta func(delta string)) (*generation.Response, error) {
	body, err := g.send(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var (
		text  strings.Builder
		model string
	)

	reader := sse.NewReader(body)
	for {
		ev, err := reader.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: reading stream: %v", generation.ErrGeneration, err)
		}
		if ev == nil || ev.Data == streamDone {
			break
		}

		var chunk chatStreamChunk
		if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
			return nil, fmt.Errorf("%w: decoding stream chunk: %v", generation.ErrGeneration, err)
		}
		if chunk.Model != "" {
			model = chunk.Model
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta.Content
		if delta != "" {
			text.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		}
	}

	return &generation.Response{
		Text:  text.String(),
		Model: model,
	}, nil
}

func (g *Generator) send(ctx context.Context, prompt string, stream bool) (io.ReadCloser, error) {
	reqBody := chatRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: g.temperature,
		Stream:      stream,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", generation.ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", generation.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %v", generation.ErrGeneration, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: api returned status %d: %s", generation.ErrGeneration, resp.StatusCode, string(body))
	}

	return resp.Body, nil
}

// Close releases resources held by the generator.
func (g *Generator) Close() error {
	return nil
}

var _ generation.StreamingGenerator = (*Generator)(nil)
