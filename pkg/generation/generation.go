// Package generation defines the text generation port used to turn a
// grounded prompt into an answer.
package generation

import "context"

// DefaultTemperature is the sampling temperature used when a provider
// config leaves it unset. Low by default: answers should stay close to the
// retrieved context.
const DefaultTemperature = 0.2

// Response is a completed generation.
type Response struct {
	// Text is the full generated completion.
	Text string `json:"text"`

	// Model is the model that produced the completion, as reported by the
	// provider.
	Model string `json:"model"`

	// PromptTokens and CompletionTokens are provider-reported usage counts,
	// zero when the provider omits them.
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
}

// Generator produces completions from prompts. Implementations call an
// external model service; failures are wrapped with ErrGeneration.
type Generator interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string) (*Response, error)

	// Close releases any resources held by the generator.
	Close() error
}

// StreamingGenerator is optionally implemented by generators that can
// deliver the completion incrementally. onDelta is called once per token
// chunk in stream order; the returned Response carries the full text.
type StreamingGenerator interface {
	Generator

	GenerateStream(ctx context.Context, prompt string, onDelta func(delta string)) (*Response, error)
}
