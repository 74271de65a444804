package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/reelstack/reelqa/pkg/generation"
	"github.com/reelstack/reelqa/pkg/pipeline"
)

// OutputParser extracts the final answer text from a generation response.
type OutputParser struct{}

// NewOutputParser creates an output parser stage.
func NewOutputParser() *OutputParser {
	return &OutputParser{}
}

// Parse returns the trimmed answer text. Returns ErrMalformedResponse for a
// nil response or one with no usable text.
func (p *OutputParser) Parse(resp *generation.Response) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrMalformedResponse)
	}

	answer := strings.TrimSpace(resp.Text)
	if answer == "" {
		return "", fmt.Errorf("%w: response contains no text", ErrMalformedResponse)
	}
	return answer, nil
}

// Invoke implements pipeline.Runnable. The input must be a
// *generation.Response; the output is the answer string.
func (p *OutputParser) Invoke(_ context.Context, in any) (any, error) {
	resp, ok := in.(*generation.Response)
	if !ok {
		return nil, fmt.Errorf("%w: output parser expects *generation.Response, got %T", ErrMalformedResponse, in)
	}
	return p.Parse(resp)
}

// Label implements pipeline.Runnable.
func (p *OutputParser) Label() string { return "output_parser" }

// InputShape implements pipeline.Typed.
func (p *OutputParser) InputShape() string { return "*generation.Response" }

// OutputShape implements pipeline.Typed.
func (p *OutputParser) OutputShape() string { return "string" }

// GeneratorStage wraps a Generator as a pipeline stage mapping a prompt
// string to a *generation.Response.
func GeneratorStage(g generation.Generator) pipeline.Runnable {
	return pipeline.TypedLambda("generator", "string", "*generation.Response", func(ctx context.Context, in any) (any, error) {
		prompt, ok := in.(string)
		if !ok {
			return nil, fmt.Errorf("generator expects a prompt string, got %T", in)
		}
		return g.Generate(ctx, prompt)
	})
}

var (
	_ pipeline.Runnable = (*OutputParser)(nil)
	_ pipeline.Typed    = (*OutputParser)(nil)
)
