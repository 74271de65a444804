// Package exhaustive provides the reference in-memory vector index.
//
// Similarity is cosine, fixed per instance. Queries scan every entry and
// partial-sort for top-k: O(n·d) per query, which is adequate for
// single-document corpora (thousands of chunks). The vector.Index contract
// hides this choice so a sub-linear backend can substitute later.
package exhaustive

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/reelstack/reelqa/pkg/chunk"
	"github.com/reelstack/reelqa/pkg/vector"
)

// Index is an in-memory exhaustive-scan vector index. The zero value is not
// usable; construct with New. Safe for concurrent use: queries take a read
// lock, insertions a write lock.
type Index struct {
	mu      sync.RWMutex
	dim     int
	entries []vector.Entry
	logger  *slog.Logger
}

// New creates an empty index. Dimensionality is established by the first
// insertion.
func New(logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{logger: logger}
}

// Insert stores vec with its payload and returns the assigned entry ID.
func (x *Index) Insert(_ context.Context, vec []float32, payload chunk.Chunk) (int64, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.insertLocked(vec, payload)
}

// InsertBatch stores vectors and payloads pairwise. Either all entries are
// inserted or none: dimensions are checked up front so a mismatch mid-batch
// cannot leave a partial insert behind.
func (x *Index) InsertBatch(_ context.Context, vecs [][]float32, payloads []chunk.Chunk) ([]int64, error) {
	if len(vecs) != len(payloads) {
		return nil, fmt.Errorf("vectors and payloads length mismatch: %d != %d", len(vecs), len(payloads))
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	dim := x.dim
	for i, v := range vecs {
		if dim == 0 {
			dim = len(v)
			continue
		}
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, index has %d",
				vector.ErrDimensionMismatch, i, len(v), dim)
		}
	}

	ids := make([]int64, 0, len(vecs))
	for i := range vecs {
		id, err := x.insertLocked(vecs[i], payloads[i])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (x *Index) insertLocked(vec []float32, payload chunk.Chunk) (int64, error) {
	if len(vec) == 0 {
		return 0, fmt.Errorf("%w: empty vector", vector.ErrDimensionMismatch)
	}
	if x.dim == 0 {
		x.dim = len(vec)
	} else if len(vec) != x.dim {
		return 0, fmt.Errorf("%w: got %d dimensions, index has %d",
			vector.ErrDimensionMismatch, len(vec), x.dim)
	}

	id := int64(len(x.entries))
	stored := make([]float32, len(vec))
	copy(stored, vec)
	x.entries = append(x.entries, vector.Entry{ID: id, Vector: stored, Payload: payload})

	x.logger.Debug("inserted entry",
		"id", id,
		"ordinal", payload.Ordinal,
		"dimensions", x.dim,
	)
	return id, nil
}

// Query returns the min(k, Count) most similar entries to vec, ordered by
// decreasing cosine similarity with ties broken by ascending ID.
func (x *Index) Query(_ context.Context, vec []float32, k int) ([]vector.Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", vector.ErrInvalidK, k)
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.entries) == 0 {
		return []vector.Result{}, nil
	}
	if len(vec) != x.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			vector.ErrDimensionMismatch, len(vec), x.dim)
	}

	results := make([]vector.Result, 0, len(x.entries))
	for i := range x.entries {
		results = append(results, vector.Result{
			Entry: x.entries[i],
			Score: cosine(vec, x.entries[i].Vector),
		})
	}

	// Stable ordering: score descending, then ID ascending.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Count reports the number of stored entries.
func (x *Index) Count(_ context.Context) (int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries), nil
}

// Clear removes all entries and resets the established dimensionality.
func (x *Index) Clear(_ context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = nil
	x.dim = 0
	return nil
}

// Close is a no-op for the in-memory index.
func (x *Index) Close() error { return nil }

// cosine computes cosine similarity between two equal-length vectors.
// Zero vectors score 0.
func cosine(a, b []float32) float32 {
	var dot, na, nb float32
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(na))) * float32(math.Sqrt(float64(nb))))
}

var _ vector.Index = (*Index)(nil)
