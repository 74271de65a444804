// Package transcript provides sources for fetching a video's transcript
// text ahead of chunking and indexing.
package transcript

import (
	"context"
	"errors"
)

// ErrFetch indicates the transcript source failed. Absence of a transcript
// is not a failure; see Source.Fetch.
var ErrFetch = errors.New("transcript fetch error")

// Source fetches transcript text for a video.
type Source interface {
	// Fetch returns the transcript for videoID. ok is false when the video
	// has no transcript available (e.g. transcripts disabled), which is a
	// valid terminal state distinct from both an empty transcript and a
	// fetch failure.
	Fetch(ctx context.Context, videoID string) (text string, ok bool, err error)

	// Close releases any resources held by the source.
	Close() error
}
