// Package ragutils is the engine factory package. It assembles an engine
// from a loaded configuration by constructing each provider through its
// own factory.
package ragutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reelstack/reelqa/pkg/config"
	embeddingutils "github.com/reelstack/reelqa/pkg/embeddings/utils"
	eventstreamutils "github.com/reelstack/reelqa/pkg/eventstream/utils"
	generationutils "github.com/reelstack/reelqa/pkg/generation/utils"
	"github.com/reelstack/reelqa/pkg/rag"
	transcriptutils "github.com/reelstack/reelqa/pkg/transcript/utils"
	vectorutils "github.com/reelstack/reelqa/pkg/vector/utils"
)

// NewEngine builds a fully wired engine from the given configuration.
// Providers are closed by the engine's Close, so callers own exactly one
// handle.
func NewEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*rag.Engine, error) {
	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		APIKey:       cfg.Embedding.APIKey,
		Dimensions:   cfg.Embedding.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("building embedder: %w", err)
	}

	index, err := vectorutils.NewIndex(ctx, &vectorutils.NewIndexOpts{
		ProviderType: cfg.VectorStore.Provider,
		Target:       cfg.VectorStore.Target,
		Collection:   cfg.VectorStore.Collection,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("building vector index: %w", err)
	}

	temperature := cfg.Generation.Temperature
	generator, err := generationutils.NewGenerator(&generationutils.NewGeneratorOpts{
		ProviderType: cfg.Generation.Provider,
		TargetURL:    cfg.Generation.Target,
		Model:        cfg.Generation.Model,
		APIKey:       cfg.Generation.APIKey,
		Temperature:  &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("building generator: %w", err)
	}

	source, err := transcriptutils.NewSource(&transcriptutils.NewSourceOpts{
		ProviderType: cfg.Transcript.Provider,
		Target:       cfg.Transcript.Target,
		Language:     cfg.Transcript.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("building transcript source: %w", err)
	}

	publisher, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: cfg.Events.Provider,
		Brokers:      cfg.Events.Brokers,
		Topic:        cfg.Events.Topic,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("building event publisher: %w", err)
	}

	engine, err := rag.NewEngine(rag.EngineConfig{
		Embedder:     embedder,
		Index:        index,
		Generator:    generator,
		Source:       source,
		Publisher:    publisher,
		ChunkSize:    cfg.Chunking.Size,
		ChunkOverlap: cfg.Chunking.Overlap,
		TopK:         cfg.Retrieval.K,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}

	return engine, nil
}
