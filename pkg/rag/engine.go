// Package rag wires chunking, embedding, vector search, and generation into
// a question-answering engine over a video transcript.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reelstack/reelqa/pkg/chunk"
	"github.com/reelstack/reelqa/pkg/embeddings"
	"github.com/reelstack/reelqa/pkg/eventstream"
	"github.com/reelstack/reelqa/pkg/eventstream/nop"
	"github.com/reelstack/reelqa/pkg/generation"
	"github.com/reelstack/reelqa/pkg/pipeline"
	"github.com/reelstack/reelqa/pkg/transcript"
	"github.com/reelstack/reelqa/pkg/vector"
)

const (
	// DefaultChunkSize is the chunk window length in runes.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the rune overlap between adjacent chunks.
	DefaultChunkOverlap = 200
)

// Engine is the single entry point of the QA pipeline: index a transcript,
// then invoke it with questions.
type Engine struct {
	splitter  *chunk.Splitter
	embedder  embeddings.Embedder
	index     vector.Index
	generator generation.Generator
	source    transcript.Source
	publisher eventstream.Publisher
	retriever *Retriever
	prompter  *PromptBuilder
	parser    *OutputParser
	indexer   *Indexer
	answerer  pipeline.Runnable
	logger    *slog.Logger
}

// EngineConfig holds configuration for the engine. Embedder, Index, and
// Generator are required; the rest defaults.
type EngineConfig struct {
	Embedder  embeddings.Embedder
	Index     vector.Index
	Generator generation.Generator

	// Source provides transcripts for IndexVideo. Optional; engines fed
	// through IndexText do not need one.
	Source transcript.Source

	// Publisher receives engine events. Defaults to the no-op publisher.
	Publisher eventstream.Publisher

	// ChunkSize and ChunkOverlap control splitting. Default to
	// DefaultChunkSize and DefaultChunkOverlap when zero. Invalid
	// combinations are rejected at construction.
	ChunkSize    int
	ChunkOverlap int

	// TopK is the number of chunks retrieved per question. Defaults to
	// DefaultTopK.
	TopK int

	// PromptTemplate overrides DefaultPromptTemplate. Must declare
	// {context} and {question} placeholders.
	PromptTemplate string

	// IndexWorkers and IndexBatchSize tune the indexing pool.
	IndexWorkers   int
	IndexBatchSize int

	Logger *slog.Logger
}

// NewEngine validates the configuration and composes the answer pipeline.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("engine requires an embedder")
	}
	if cfg.Index == nil {
		return nil, fmt.Errorf("engine requires a vector index")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("engine requires a generator")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	size := cfg.ChunkSize
	if size == 0 {
		size = DefaultChunkSize
	}
	overlap := cfg.ChunkOverlap
	if overlap == 0 && cfg.ChunkSize == 0 {
		overlap = DefaultChunkOverlap
	}
	splitter, err := chunk.NewSplitter(size, overlap)
	if err != nil {
		return nil, err
	}

	retriever, err := NewRetriever(RetrieverConfig{
		Embedder: cfg.Embedder,
		Index:    cfg.Index,
		K:        cfg.TopK,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	prompt, err := NewPromptBuilder(cfg.PromptTemplate)
	if err != nil {
		return nil, err
	}

	publisher := cfg.Publisher
	if publisher == nil {
		publisher = nop.NewPublisher()
	}

	e := &Engine{
		splitter:  splitter,
		embedder:  cfg.Embedder,
		index:     cfg.Index,
		generator: cfg.Generator,
		source:    cfg.Source,
		publisher: publisher,
		retriever: retriever,
		prompter:  prompt,
		parser:    NewOutputParser(),
		logger:    logger,
	}

	e.indexer = NewIndexer(IndexerConfig{
		Embedder:   cfg.Embedder,
		Index:      cfg.Index,
		NumWorkers: cfg.IndexWorkers,
		BatchSize:  cfg.IndexBatchSize,
		Logger:     logger,
	})

	e.answerer = pipeline.Pipe(
		pipeline.Join(map[string]pipeline.Runnable{
			"context":  pipeline.Pipe(retriever, FormatterStage()),
			"question": pipeline.Identity(),
		}),
		prompt,
		GeneratorStage(cfg.Generator),
		e.parser,
	)

	return e, nil
}

// IndexVideo fetches the video's transcript, chunks it, and indexes it.
// ok is false when the video has no transcript available; nothing is
// embedded or indexed in that case.
func (e *Engine) IndexVideo(ctx context.Context, videoID string) (chunks int, ok bool, err error) {
	if e.source == nil {
		return 0, false, fmt.Errorf("engine has no transcript source configured")
	}

	text, ok, err := e.source.Fetch(ctx, videoID)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		e.logger.Info("no transcript available", "video_id", videoID)
		return 0, false, nil
	}

	n, err := e.IndexText(ctx, videoID, text)
	return n, true, err
}

// IndexText chunks and indexes a transcript directly. videoID is carried
// into the emitted event and may be empty.
func (e *Engine) IndexText(ctx context.Context, videoID, text string) (int, error) {
	start := time.Now()

	chunks, err := e.splitter.Split(text)
	if err != nil {
		return 0, err
	}
	if err := e.indexer.Index(ctx, chunks); err != nil {
		return 0, err
	}

	e.logger.Info("transcript indexed",
		"video_id", videoID,
		"chunks", len(chunks),
		"duration", time.Since(start),
	)

	e.publish(ctx, func() error {
		return e.publisher.PublishDocumentIndexed(ctx, &eventstream.DocumentIndexedEvent{
			SchemaVersion: eventstream.SchemaVersionV1,
			EventType:     eventstream.EventTypeDocumentIndexed,
			EventID:       eventstream.NewEventID(),
			EmittedAt:     time.Now().UTC(),
			VideoID:       videoID,
			ChunkCount:    len(chunks),
			Dimensions:    e.embedder.Dimensions(),
			DurationMs:    time.Since(start).Milliseconds(),
		})
	})

	return len(chunks), nil
}

// Invoke answers a question from the indexed transcript. Failures from any
// stage (embedding, index, generation, parsing) propagate to the caller.
func (e *Engine) Invoke(ctx context.Context, question string) (string, error) {
	start := time.Now()

	out, err := e.answerer.Invoke(ctx, question)
	if err != nil {
		return "", err
	}
	answer, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("%w: pipeline produced %T, want string", ErrMalformedResponse, out)
	}

	e.publish(ctx, func() error {
		return e.publisher.PublishAnswerGenerated(ctx, &eventstream.AnswerGeneratedEvent{
			SchemaVersion:   eventstream.SchemaVersionV1,
			EventType:       eventstream.EventTypeAnswerGenerated,
			EventID:         eventstream.NewEventID(),
			EmittedAt:       time.Now().UTC(),
			Question:        question,
			Answer:          answer,
			RetrievedChunks: e.retriever.k,
			DurationMs:      time.Since(start).Milliseconds(),
		})
	})

	return answer, nil
}

// InvokeStream answers a question like Invoke but delivers the answer
// incrementally through onDelta when the generator supports streaming.
// Generators without a streaming path deliver the whole answer as a single
// delta. The returned string is always the complete parsed answer.
func (e *Engine) InvokeStream(ctx context.Context, question string, onDelta func(delta string)) (string, error) {
	return e.answer(ctx, question, 0, onDelta)
}

// InvokeK answers a question retrieving k chunks instead of the configured
// default. k <= 0 falls back to the configured value.
func (e *Engine) InvokeK(ctx context.Context, question string, k int) (string, error) {
	return e.answer(ctx, question, k, nil)
}

func (e *Engine) answer(ctx context.Context, question string, k int, onDelta func(delta string)) (string, error) {
	start := time.Now()

	if k <= 0 {
		k = e.retriever.k
	}
	chunks, err := e.retriever.RetrieveK(ctx, question, k)
	if err != nil {
		return "", err
	}

	prompt, err := e.prompter.Build(pipeline.Bundle{
		"context":  FormatContext(chunks),
		"question": question,
	})
	if err != nil {
		return "", err
	}

	var resp *generation.Response
	if streamer, ok := e.generator.(generation.StreamingGenerator); ok && onDelta != nil {
		resp, err = streamer.GenerateStream(ctx, prompt, onDelta)
	} else {
		resp, err = e.generator.Generate(ctx, prompt)
		if err == nil && onDelta != nil {
			if answer, parseErr := e.parser.Parse(resp); parseErr == nil {
				onDelta(answer)
			}
		}
	}
	if err != nil {
		return "", err
	}

	answer, err := e.parser.Parse(resp)
	if err != nil {
		return "", err
	}

	e.publish(ctx, func() error {
		return e.publisher.PublishAnswerGenerated(ctx, &eventstream.AnswerGeneratedEvent{
			SchemaVersion:   eventstream.SchemaVersionV1,
			EventType:       eventstream.EventTypeAnswerGenerated,
			EventID:         eventstream.NewEventID(),
			EmittedAt:       time.Now().UTC(),
			Question:        question,
			Answer:          answer,
			RetrievedChunks: k,
			DurationMs:      time.Since(start).Milliseconds(),
		})
	})

	return answer, nil
}

// Search embeds the query and returns its k nearest scored chunks without
// running generation.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]vector.Result, error) {
	return e.retriever.Results(ctx, query, k)
}

// Count reports the number of indexed chunks.
func (e *Engine) Count(ctx context.Context) (int, error) {
	return e.index.Count(ctx)
}

// Clear removes all indexed chunks.
func (e *Engine) Clear(ctx context.Context) error {
	return e.index.Clear(ctx)
}

// Graph returns the answer pipeline's structure for diagnostics.
func (e *Engine) Graph() pipeline.Graph {
	return pipeline.BuildGraph(e.answerer)
}

// Embedder exposes the engine's embedder for components that share it,
// such as the API search endpoint.
func (e *Engine) Embedder() embeddings.Embedder {
	return e.embedder
}

// Index exposes the engine's vector index for components that share it.
func (e *Engine) Index() vector.Index {
	return e.index
}

// publish delivers an event best-effort. Event delivery failures are logged
// and never fail the operation that emitted them.
func (e *Engine) publish(_ context.Context, fn func() error) {
	if err := fn(); err != nil {
		e.logger.Warn("event publish failed", "error", err)
	}
}

// Close releases the engine's collaborators.
func (e *Engine) Close() error {
	var firstErr error
	closers := []func() error{
		e.publisher.Close,
		e.generator.Close,
		e.embedder.Close,
		e.index.Close,
	}
	if e.source != nil {
		closers = append(closers, e.source.Close)
	}
	for _, close := range closers {
		if err := close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
