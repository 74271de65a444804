package rag

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/reelstack/reelqa/pkg/pipeline"
)

// DefaultPromptTemplate grounds the answer in the retrieved context.
const DefaultPromptTemplate = `Answer the question using only the provided context. If the context does not contain the answer, say so.

Context:
{context}

Question: {question}

Answer:`

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// PromptBuilder fills a template's {name} placeholders from a pipeline
// Bundle. Every placeholder must have a value; extra bundle keys are
// ignored.
type PromptBuilder struct {
	template  string
	variables []string
}

// NewPromptBuilder creates a builder for the template. Pass
// DefaultPromptTemplate for the standard grounding prompt.
func NewPromptBuilder(template string) (*PromptBuilder, error) {
	if template == "" {
		template = DefaultPromptTemplate
	}

	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("template declares no {placeholder} variables")
	}

	seen := make(map[string]bool)
	var variables []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			variables = append(variables, m[1])
		}
	}

	return &PromptBuilder{template: template, variables: variables}, nil
}

// Variables reports the placeholder names the template requires, in first
// appearance order.
func (b *PromptBuilder) Variables() []string {
	out := make([]string, len(b.variables))
	copy(out, b.variables)
	return out
}

// Build renders the template from the bundle. Returns ErrMissingVariable
// when a placeholder has no bundle value.
func (b *PromptBuilder) Build(bundle pipeline.Bundle) (string, error) {
	prompt := b.template
	for _, name := range b.variables {
		value, ok := bundle[name]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrMissingVariable, name)
		}
		prompt = strings.ReplaceAll(prompt, "{"+name+"}", fmt.Sprintf("%v", value))
	}
	return prompt, nil
}

// Invoke implements pipeline.Runnable. The input must be a pipeline.Bundle;
// the output is the rendered prompt string.
func (b *PromptBuilder) Invoke(_ context.Context, in any) (any, error) {
	bundle, ok := in.(pipeline.Bundle)
	if !ok {
		return nil, fmt.Errorf("prompt builder expects a pipeline.Bundle, got %T", in)
	}
	return b.Build(bundle)
}

// Label implements pipeline.Runnable.
func (b *PromptBuilder) Label() string { return "prompt_builder" }

// InputShape implements pipeline.Typed.
func (b *PromptBuilder) InputShape() string { return "pipeline.Bundle" }

// OutputShape implements pipeline.Typed.
func (b *PromptBuilder) OutputShape() string { return "string" }

var (
	_ pipeline.Runnable = (*PromptBuilder)(nil)
	_ pipeline.Typed    = (*PromptBuilder)(nil)
)
