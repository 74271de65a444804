// Package eventstream defines transport-neutral event payloads emitted by
// the QA engine, plus the Publisher port for delivering them to a stream
// backend.
package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeDocumentIndexed is emitted after a transcript is chunked,
	// embedded, and inserted into the vector index.
	EventTypeDocumentIndexed = "reelqa.document.indexed"

	// EventTypeAnswerGenerated is emitted after the pipeline produces an
	// answer for a question.
	EventTypeAnswerGenerated = "reelqa.answer.generated"
)

// DocumentIndexedEvent records a completed indexing run.
type DocumentIndexedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	VideoID    string `json:"video_id,omitempty"`
	ChunkCount int    `json:"chunk_count"`
	Dimensions uint   `json:"dimensions"`
	DurationMs int64  `json:"duration_ms"`
}

// AnswerGeneratedEvent records a completed question-answer exchange.
type AnswerGeneratedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	Question        string `json:"question"`
	Answer          string `json:"answer"`
	Model           string `json:"model,omitempty"`
	RetrievedChunks int    `json:"retrieved_chunks"`
	DurationMs      int64  `json:"duration_ms"`
}

// NewEventID returns a fresh unique event identifier.
func NewEventID() string {
	return "evt_" + uuid.NewString()
}
