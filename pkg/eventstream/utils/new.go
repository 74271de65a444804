// Package eventstreamutils is the event publisher factory package.
package eventstreamutils

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/reelstack/reelqa/pkg/eventstream"
	"github.com/reelstack/reelqa/pkg/eventstream/kafka"
	"github.com/reelstack/reelqa/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	// ProviderType selects the backend: "nop" or "kafka".
	ProviderType string

	// Brokers is a comma-separated list of Kafka bootstrap brokers.
	Brokers string

	// Topic is the destination topic for the kafka backend.
	Topic string

	Logger *slog.Logger
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.ProviderType {
	case "nop", "":
		return nop.NewPublisher(), nil
	case "kafka":
		return kafka.NewPublisher(kafka.Config{
			Brokers: splitBrokers(o.Brokers),
			Topic:   o.Topic,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported event publisher provider: %s", o.ProviderType)
	}
}

func splitBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
