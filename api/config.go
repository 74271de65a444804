// Package api provides an HTTP API server for indexing transcripts and
// answering questions over them.
package api

import (
	"github.com/reelstack/reelqa/pkg/embeddings"
	"github.com/reelstack/reelqa/pkg/vector"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// Embedder converts query text to vectors for the search endpoint.
	Embedder embeddings.Embedder

	// Index is the vector index backing the search endpoint.
	Index vector.Index
}
