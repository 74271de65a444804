package eventstream

import "context"

// Publisher publishes engine events to an event stream backend.
type Publisher interface {
	PublishDocumentIndexed(ctx context.Context, event *DocumentIndexedEvent) error
	PublishAnswerGenerated(ctx context.Context, event *AnswerGeneratedEvent) error
	Close() error
}
