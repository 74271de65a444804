package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	sessionFile = "session.json"
)

// SessionState represents the persisted QA session: the video last indexed
// and the exchange history of the current chat.
type SessionState struct {
	// VideoID is the video whose transcript is currently indexed.
	VideoID string `json:"video_id"`

	// ChunkCount is the number of chunks the transcript produced.
	ChunkCount int `json:"chunk_count"`

	// IndexedAt is when indexing completed.
	IndexedAt time.Time `json:"indexed_at"`

	// Exchanges is the question/answer history in chronological order
	// (oldest first).
	Exchanges []SessionExchange `json:"exchanges,omitempty"`
}

// SessionExchange is a single question and its answer.
type SessionExchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// LoadSessionState loads the session state from a target .reelqa/session.json.
// Returns nil, nil if no session exists.
// If overrideDir is non-empty, it is used instead of the default ~/.reelqa/ location.
func (m *Manager) LoadSessionState(overrideDir string) (*SessionState, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, sessionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session state: %w", err)
	}

	state := &SessionState{}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing session state: %w", err)
	}

	return state, nil
}

// SaveSession persists the session state to a target .reelqa/session.json.
func (m *Manager) SaveSession(state *SessionState, overrideDir string) error {
	if state == nil {
		return errors.New("cannot save nil session state")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}

	path := filepath.Join(dir, sessionFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}

	return nil
}

// ClearSession removes the session state file so the next index run starts
// fresh. Returns nil if the file doesn't exist (already cleared).
func (m *Manager) ClearSession(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, sessionFile)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing session state: %w", err)
	}

	return nil
}
