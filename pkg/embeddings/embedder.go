// Package embeddings
package embeddings

import "context"

// Embedder provides text embedding capabilities. Implementations call an
// external model service; failures are wrapped with vector.ErrEmbedding and
// surfaced to the caller without internal retries.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedMany converts texts into embeddings, one per input, in order.
	// Semantically equivalent to calling Embed per text; implementations
	// batch requests to bound external call count.
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions reports the vector length this embedder produces.
	Dimensions() uint

	// Close releases any resources held by the embedder.
	Close() error
}
