package vector

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector's length disagrees
	// with the index's established dimensionality. This indicates a wiring
	// bug; vectors are never truncated or padded.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidK is returned when a query's k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrConnection is returned when a remote index backend cannot be reached.
	ErrConnection = errors.New("vector index connection failed")
)
