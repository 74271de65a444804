package chunk

import "fmt"

// Splitter splits text into overlapping chunks of at most Size runes.
// Consecutive chunks share Overlap runes except where a document boundary
// cuts the overlap short. Splitting prefers clean separator boundaries
// within the window before falling back to a hard character cut.
type Splitter struct {
	// Size is the maximum chunk length in runes. Must be positive.
	Size int

	// Overlap is the number of runes shared between consecutive chunks.
	// Must satisfy 0 <= Overlap < Size.
	Overlap int

	// Separators overrides DefaultSeparators when non-nil. Ordered from
	// most to least preferred boundary.
	Separators []string
}

// NewSplitter validates the configuration and returns a Splitter.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d must be positive", ErrInvalidConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must satisfy 0 <= overlap < size (%d)", ErrInvalidConfig, overlap, size)
	}
	return &Splitter{Size: size, Overlap: overlap}, nil
}

// Split is a convenience wrapper that validates (size, overlap) and splits
// text in one call.
func Split(text string, size, overlap int) ([]Chunk, error) {
	s, err := NewSplitter(size, overlap)
	if err != nil {
		return nil, err
	}
	return s.Split(text)
}

// Split produces the chunk sequence for text. The result is deterministic:
// identical input and configuration always yield identical chunks. An empty
// document yields no chunks and no error.
//
// Every chunk is an exact substring of text at its SourceOffset, each chunk
// after the first begins Overlap runes before the previous chunk's end, and
// each chunk extends strictly past the previous chunk's end. Ordinals are
// contiguous from 0.
func (s *Splitter) Split(text string) ([]Chunk, error) {
	if s.Size <= 0 || s.Overlap < 0 || s.Overlap >= s.Size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidConfig, s.Size, s.Overlap)
	}
	if text == "" {
		return nil, nil
	}

	separators := s.Separators
	if separators == nil {
		separators = DefaultSeparators
	}

	runes := []rune(text)
	var chunks []Chunk

	start := 0
	for start < len(runes) {
		end := start + s.Size
		if end >= len(runes) {
			end = len(runes)
		} else {
			// Prefer a clean boundary inside the window. The cut must land
			// past the overlap so the next window makes forward progress.
			end = start + s.cut(runes[start:start+s.Size], separators)
		}

		chunks = append(chunks, Chunk{
			Text:         string(runes[start:end]),
			Ordinal:      len(chunks),
			SourceOffset: start,
		})

		if end == len(runes) {
			break
		}
		start = end - s.Overlap
	}

	return chunks, nil
}

// cut returns the cut point for a full window, in (Overlap, Size]. It scans
// separator levels in preference order and picks the last occurrence whose
// cut point clears the overlap; when no separator qualifies it falls back to
// a hard cut at Size.
func (s *Splitter) cut(window []rune, separators []string) int {
	for _, sep := range separators {
		if at := lastBoundary(window, []rune(sep)); at > s.Overlap {
			return at
		}
	}
	return s.Size
}

// lastBoundary returns the cut point just after the last occurrence of sep
// in window, or -1 when sep does not occur. The separator stays attached to
// the earlier chunk.
func lastBoundary(window, sep []rune) int {
	if len(sep) == 0 || len(sep) > len(window) {
		return -1
	}
	for i := len(window) - len(sep); i >= 0; i-- {
		match := true
		for j := range sep {
			if window[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i + len(sep)
		}
	}
	return -1
}
