package testutils

import (
	"context"
	"sync"

	"github.com/reelstack/reelqa/pkg/eventstream"
)

// RecordingPublisher is a test eventstream publisher that captures every
// event it receives.
type RecordingPublisher struct {
	mu       sync.Mutex
	indexed  []*eventstream.DocumentIndexedEvent
	answered []*eventstream.AnswerGeneratedEvent
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) PublishDocumentIndexed(_ context.Context, event *eventstream.DocumentIndexedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indexed = append(p.indexed, event)
	return nil
}

func (p *RecordingPublisher) PublishAnswerGenerated(_ context.Context, event *eventstream.AnswerGeneratedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.answered = append(p.answered, event)
	return nil
}

// Indexed returns the captured document-indexed events.
func (p *RecordingPublisher) Indexed() []*eventstream.DocumentIndexedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*eventstream.DocumentIndexedEvent, len(p.indexed))
	copy(out, p.indexed)
	return out
}

// Answered returns the captured answer-generated events.
func (p *RecordingPublisher) Answered() []*eventstream.AnswerGeneratedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*eventstream.AnswerGeneratedEvent, len(p.answered))
	copy(out, p.answered)
	return out
}

func (p *RecordingPublisher) Close() error {
	return nil
}
