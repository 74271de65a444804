package testutils

import (
	"context"
	"fmt"
)

// MockSource is a test transcript source backed by a map. Videos not in the
// map have no transcript available.
type MockSource struct {
	// Transcripts maps video IDs to transcript text.
	Transcripts map[string]string

	// FailOn causes Fetch to return an error when the video ID matches.
	FailOn string
}

func NewMockSource() *MockSource {
	return &MockSource{Transcripts: make(map[string]string)}
}

func (m *MockSource) Fetch(_ context.Context, videoID string) (string, bool, error) {
	if m.FailOn != "" && videoID == m.FailOn {
		return "", false, fmt.Errorf("mock transcript failure for: %s", videoID)
	}

	text, ok := m.Transcripts[videoID]
	return text, ok, nil
}

func (m *MockSource) Close() error {
	return nil
}
