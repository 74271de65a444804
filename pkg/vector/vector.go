// Package vector provides the vector index capability: storage of dense
// embeddings with chunk payloads and deterministic k-nearest-neighbor query.
package vector

import (
	"context"

	"github.com/reelstack/reelqa/pkg/chunk"
)

// Entry is an indexed vector with its payload. Entries are owned by the
// index: created on insertion, never mutated, removed only by Clear.
type Entry struct {
	// ID is assigned by the index, unique and monotonically increasing
	// in insertion order.
	ID int64 `json:"id"`

	// Vector is the embedding. All entries in one index share the same
	// dimensionality.
	Vector []float32 `json:"-"`

	// Payload is the chunk this vector represents.
	Payload chunk.Chunk `json:"payload"`
}

// Result is a query hit with its similarity score. Query output is ordered
// by decreasing score; equal scores are ordered by ascending entry ID so
// results are reproducible.
type Result struct {
	Entry

	// Score is the similarity under the index's fixed metric
	// (higher = more similar).
	Score float32 `json:"score"`
}

// Index stores embeddings with chunk payloads and answers top-k similarity
// queries. The contract is backend-independent: callers never depend on how
// neighbors are found, so an exhaustive scan can later be swapped for a
// sub-linear structure without caller changes.
type Index interface {
	// Insert stores one vector with its payload and returns the assigned
	// entry ID. Returns ErrDimensionMismatch when the vector length
	// disagrees with the index's established dimensionality. The entry is
	// queryable as soon as Insert returns.
	Insert(ctx context.Context, vec []float32, payload chunk.Chunk) (int64, error)

	// InsertBatch inserts vectors and payloads pairwise and returns the
	// assigned IDs in order. len(vecs) must equal len(payloads).
	InsertBatch(ctx context.Context, vecs [][]float32, payloads []chunk.Chunk) ([]int64, error)

	// Query returns the min(k, Count) entries most similar to vec, ordered
	// by decreasing score with ties broken by ascending ID. An empty index
	// yields an empty result. Returns ErrDimensionMismatch on a mismatched
	// query vector.
	Query(ctx context.Context, vec []float32, k int) ([]Result, error)

	// Count reports the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Clear removes all entries. Dimensionality is re-established by the
	// next insertion unless it was fixed at construction.
	Clear(ctx context.Context) error

	// Close releases any resources held by the index.
	Close() error
}
