// Package ollama implements pkg/generation's Generator client for Ollama's
// generate API.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/reelstack/reelqa/pkg/generation"
)

const (
	// DefaultModel is the default generation model.
	DefaultModel = "llama3.2"

	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"
)

// Generator wraps Ollama's /api/generate endpoint.
type Generator struct {
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

// GeneratorConfig holds configuration for the Ollama generator.
type GeneratorConfig struct {
	// BaseURL is the Ollama API URL. Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the generation model to use. Defaults to DefaultModel if empty.
	Model string

	// Temperature is the sampling temperature. Defaults to
	// generation.DefaultTemperature if nil.
	Temperature *float64
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

// generateResponse is one NDJSON object from /api/generate. With
// stream=false a single object arrives carrying the whole completion; with
// stream=true each object carries a fragment and the final one sets Done
// and the eval counts.
type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

// NewGenerator creates a generator backed by Ollama.
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
		baseURL:     baseURL,
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

	var resp generateResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", generation.ErrGeneration, err)
	}

	return &generation.Response{
		Text:             resp.Response,
		Model:            resp.Model,
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
	}, nil
}

// GenerateStream produces a completion incrementally. Ollama streams
// newline-delimited JSON objects, one fragment per line.
func (g *Generator) GenerateStream(ctx context.Context, prompt string, onDelta func(delta string)) (*generation.Response, error) {
	body, err := g.send(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var (
		text  strings.Builder
		final generation.Response
	)

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var chunk generateResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return nil, fmt.Errorf("%w: decoding stream chunk: %v", generation.ErrGeneration, err)
		}

		if chunk.Response != "" {
			text.WriteString(chunk.Response)
			if onDelta != nil {
				onDelta(chunk.Response)
			}
		}
		if chunk.Done {
			final.Model = chunk.Model
			final.PromptTokens = chunk.PromptEvalCount
			final.CompletionTokens = chunk.EvalCount
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading stream: %v", generation.ErrGeneration, err)
	}

	final.Text = text.String()
	return &final, nil
}

func (g *Generator) send(ctx context.Context, prompt string, stream bool) (io.ReadCloser, error) {
	reqBody := generateRequest{
		Model:   g.model,
		Prompt:  prompt,
		Stream:  stream,
		Options: generateOptions{Temperature: g.temperature},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", generation.ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", generation.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %v", generation.ErrGeneration, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: ollama returned status %d: %s", generation.ErrGeneration, resp.StatusCode, string(body))
	}

	return resp.Body, nil
}

// Close releases resources held by the generator.
func (g *Generator) Close() error {
	return nil
}

// Ensure Generator implements the streaming interface.
var _ generation.StreamingGenerator = (*Generator)(nil)
