// Package chunk splits raw documents into overlapping segments suitable
// for embedding and retrieval indexing.
package chunk

import "errors"

// ErrInvalidConfig is returned when chunking parameters are out of range
// (non-positive size, negative overlap, or overlap >= size).
var ErrInvalidConfig = errors.New("invalid chunking configuration")

// Chunk is a bounded contiguous slice of a source document. Chunks are
// immutable once produced.
type Chunk struct {
	// Text is the chunk content, an exact substring of the source document.
	Text string `json:"text"`

	// Ordinal is the position of the chunk within its document, starting at 0.
	Ordinal int `json:"ordinal"`

	// SourceOffset is the rune offset of Text within the source document.
	SourceOffset int `json:"source_offset"`
}

// DefaultSeparators is the boundary preference order used when cutting a
// window: paragraph break, line break, sentence end, word break. A hard
// character cut is the final fallback.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " "}
