// Package qdrant provides a Qdrant-backed vector index over gRPC.
//
// Collections are created with cosine distance; scores are reported as
// Qdrant returns them (higher = more similar). Entry IDs are assigned
// locally and used as numeric point IDs, so the deterministic ordering
// contract (score descending, ID ascending) is enforced client-side.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/qdrant/go-client/qdrant"

	"github.com/reelstack/reelqa/pkg/chunk"
	"github.com/reelstack/reelqa/pkg/vector"
)

const (
	// DefaultCollectionName is the default collection for transcript chunks.
	DefaultCollectionName = "reelqa"
)

// Index implements vector.Index against a Qdrant server.
type Index struct {
	client     *qdrant.Client
	collection string
	dim        int
	nextID     atomic.Int64
	logger     *slog.Logger
}

// Config holds configuration for the Qdrant index.
type Config struct {
	// Host is the Qdrant gRPC host (e.g., "localhost").
	Host string

	// Port is the Qdrant gRPC port. Defaults to 6334.
	Port int

	// APIKey is an optional API key for Qdrant Cloud.
	APIKey string

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool

	// CollectionName defaults to DefaultCollectionName.
	CollectionName string

	// Dimensions is the embedding dimensionality. Required: the collection
	// needs a fixed vector size at creation time.
	Dimensions uint
}

// New connects to Qdrant and ensures the collection exists.
func New(ctx context.Context, c Config, logger *slog.Logger) (*Index, error) {
	if c.Host == "" {
		return nil, fmt.Errorf("qdrant host is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("qdrant embedding dimensions cannot be 0, must be configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	port := c.Port
	if port == 0 {
		port = 6334
	}
	collection := c.CollectionName
	if collection == "" {
		collection = DefaultCollectionName
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   c.Host,
		Port:   port,
		APIKey: c.APIKey,
		UseTLS: c.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to qdrant: %v", vector.ErrConnection, err)
	}

	exists, err := client.CollectionExists(ctx, collection)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: checking collection %q: %v", vector.ErrConnection, collection, err)
	}
	if !exists {
		err := client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(c.Dimensions),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("creating collection %q: %w", collection, err)
		}
	}

	x := &Index{
		client:     client,
		collection: collection,
		dim:        int(c.Dimensions),
		logger:     logger,
	}

	// Resume ID assignment above any existing points.
	count, err := client.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("counting points in %q: %w", collection, err)
	}
	x.nextID.Store(int64(count))

	logger.Info("connected to qdrant",
		"host", c.Host,
		"port", port,
		"collection", collection,
		"dimensions", c.Dimensions,
	)

	return x, nil
}

// Insert stores one vector with its payload and returns the assigned ID.
func (x *Index) Insert(ctx context.Context, vec []float32, payload chunk.Chunk) (int64, error) {
	ids, err := x.InsertBatch(ctx, [][]float32{vec}, []chunk.Chunk{payload})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// InsertBatch upserts vectors and payloads pairwise in one request.
func (x *Index) InsertBatch(ctx context.Context, vecs [][]float32, payloads []chunk.Chunk) ([]int64, error) {
	if len(vecs) != len(payloads) {
		return nil, fmt.Errorf("vectors and payloads length mismatch: %d != %d", len(vecs), len(payloads))
	}
	for i, v := range vecs {
		if len(v) != x.dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, index has %d",
				vector.ErrDimensionMismatch, i, len(v), x.dim)
		}
	}

	ids := make([]int64, 0, len(vecs))
	points := make([]*qdrant.PointStruct, 0, len(vecs))
	for i := range vecs {
		id := x.nextID.Add(1) - 1
		ids = append(ids, id)
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(id)),
			Vectors: qdrant.NewVectors(vecs[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":          payloads[i].Text,
				"ordinal":       int64(payloads[i].Ordinal),
				"source_offset": int64(payloads[i].SourceOffset),
			}),
		})
	}

	_, err := x.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: x.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return nil, fmt.Errorf("upserting %d points: %w", len(points), err)
	}

	x.logger.Debug("inserted chunks into qdrant", "count", len(ids))
	return ids, nil
}

// Query returns the min(k, Count) nearest entries by cosine similarity.
func (x *Index) Query(ctx context.Context, vec []float32, k int) ([]vector.Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", vector.ErrInvalidK, k)
	}
	if len(vec) != x.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			vector.ErrDimensionMismatch, len(vec), x.dim)
	}

	points, err := x.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: x.collection,
		Query:          qdrant.NewQuery(vec...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying qdrant: %w", err)
	}

	results := make([]vector.Result, 0, len(points))
	for _, p := range points {
		entry := vector.Entry{ID: int64(p.GetId().GetNum())}
		if payload := p.GetPayload(); payload != nil {
			entry.Payload = chunk.Chunk{
				Text:         payload["text"].GetStringValue(),
				Ordinal:      int(payload["ordinal"].GetIntegerValue()),
				SourceOffset: int(payload["source_offset"].GetIntegerValue()),
			}
		}
		results = append(results, vector.Result{Entry: entry, Score: p.GetScore()})
	}

	// Qdrant leaves equal-score ordering unspecified; enforce the
	// deterministic contract here.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	return results, nil
}

// Count reports the number of stored entries.
func (x *Index) Count(ctx context.Context) (int, error) {
	count, err := x.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: x.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("counting points: %w", err)
	}
	return int(count), nil
}

// Clear removes all points from the collection.
func (x *Index) Clear(ctx context.Context) error {
	_, err := x.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: x.collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			// An empty filter matches every point.
		}),
	})
	if err != nil {
		return fmt.Errorf("clearing collection %q: %w", x.collection, err)
	}
	return nil
}

// Close closes the gRPC connection.
func (x *Index) Close() error {
	return x.client.Close()
}

var _ vector.Index = (*Index)(nil)
