package rag

import (
	"context"
	"log/slog"
	"sync"

	"github.com/reelstack/reelqa/pkg/chunk"
	"github.com/reelstack/reelqa/pkg/embeddings"
	"github.com/reelstack/reelqa/pkg/vector"
)

var (
	defaultIndexWorkers   = 3
	defaultIndexBatchSize = 32
)

// Indexer embeds chunk batches and inserts them into the vector index using
// a bounded worker pool, so large transcripts do not serialize on the
// embedding service.
type Indexer struct {
	embedder   embeddings.Embedder
	index      vector.Index
	numWorkers int
	batchSize  int
	logger     *slog.Logger
}

// IndexerConfig holds configuration for an Indexer.
type IndexerConfig struct {
	Embedder embeddings.Embedder
	Index    vector.Index

	// NumWorkers is the number of concurrent embed-and-insert workers.
	NumWorkers int

	// BatchSize is the number of chunks embedded per service call.
	BatchSize int

	Logger *slog.Logger
}

// NewIndexer creates an indexer over the given embedder and index.
func NewIndexer(cfg IndexerConfig) *Indexer {
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = defaultIndexWorkers
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultIndexBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Indexer{
		embedder:   cfg.Embedder,
		index:      cfg.Index,
		numWorkers: numWorkers,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// Index embeds all chunks and inserts them into the index. The first
// failure cancels outstanding work and is returned; chunks from batches
// already inserted remain in the index.
func (ix *Indexer) Index(ctx context.Context, chunks []chunk.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	batches := make(chan []chunk.Chunk, ix.numWorkers)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	wg.Add(ix.numWorkers)
	for i := 0; i < ix.numWorkers; i++ {
		go func(id int) {
			defer wg.Done()
			for batch := range batches {
				if ctx.Err() != nil {
					continue
				}
				if err := ix.processBatch(ctx, batch); err != nil {
					ix.logger.Error("batch indexing failed",
						"worker_id", id,
						"batch_size", len(batch),
						"error", err,
					)
					fail(err)
					return
				}
			}
		}(i)
	}

	for start := 0; start < len(chunks); start += ix.batchSize {
		end := min(start+ix.batchSize, len(chunks))
		select {
		case batches <- chunks[start:end]:
		case <-ctx.Done():
			start = len(chunks)
		}
	}
	close(batches)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

func (ix *Indexer) processBatch(ctx context.Context, batch []chunk.Chunk) error {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	vecs, err := ix.embedder.EmbedMany(ctx, texts)
	if err != nil {
		return err
	}

	ids, err := ix.index.InsertBatch(ctx, vecs, batch)
	if err != nil {
		return err
	}

	ix.logger.Debug("batch indexed",
		"chunks", len(batch),
		"first_id", ids[0],
	)
	return nil
}
