// Package testutils provides in-memory fakes for the engine's external
// collaborators.
package testutils

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync/atomic"
)

// MockEmbedder is a test embedder producing deterministic embeddings. By
// default each text maps to a bag-of-words vector (each lowercased word
// hashed to a dimension bucket), so texts sharing words land closer under
// cosine similarity. Explicit overrides win over the default.
type MockEmbedder struct {
	// Embeddings overrides the derived embedding for exact text matches.
	Embeddings map[string][]float32

	// Dim is the vector length. Defaults to 8 when zero.
	Dim uint

	// FailOn causes Embed to return an error when the input text matches.
	FailOn string

	// Calls counts every text embedded, across Embed and EmbedMany.
	Calls atomic.Int64
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
		Dim:        8,
	}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.Calls.Add(1)

	if m.FailOn != "" && text == m.FailOn {
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	if emb, ok := m.Embeddings[text]; ok {
		return emb, nil
	}

	return m.derive(text), nil
}

func (m *MockEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, v)
	}
	return vecs, nil
}

func (m *MockEmbedder) Dimensions() uint {
	if m.Dim == 0 {
		return 8
	}
	return m.Dim
}

func (m *MockEmbedder) Close() error {
	return nil
}

func (m *MockEmbedder) derive(text string) []float32 {
	dim := m.Dimensions()
	vec := make([]float32, dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%uint32(dim)]++
	}
	return vec
}
