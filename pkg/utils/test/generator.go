package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/reelstack/reelqa/pkg/generation"
)

// MockGenerator is a test generator returning a canned completion.
type MockGenerator struct {
	// Response is the completion text returned by Generate. When empty the
	// generator echoes the prompt.
	Response string

	// Fail causes Generate to return an error.
	Fail bool

	mu      sync.Mutex
	prompts []string
}

func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{Response: response}
}

func (m *MockGenerator) Generate(_ context.Context, prompt string) (*generation.Response, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Fail {
		return nil, fmt.Errorf("%w: mock generation failure", generation.ErrGeneration)
	}

	text := m.Response
	if text == "" {
		text = prompt
	}
	return &generation.Response{Text: text, Model: "mock-model"}, nil
}

// Prompts returns every prompt passed to Generate, in call order.
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

func (m *MockGenerator) Close() error {
	return nil
}
