// Package transcriptutils is the transcript source factory package.
package transcriptutils

import (
	"fmt"

	"github.com/reelstack/reelqa/pkg/transcript"
)

type NewSourceOpts struct {
	// ProviderType selects the backend: "youtube" or "file".
	ProviderType string

	// Target is backend-specific: a directory of <videoID>.txt files for
	// the file source, an endpoint override for youtube.
	Target string

	// Language is the caption language code for the youtube source.
	Language string
}

func NewSource(o *NewSourceOpts) (transcript.Source, error) {
	switch o.ProviderType {
	case "youtube", "":
		return transcript.NewYouTubeSource(transcript.YouTubeConfig{
			BaseURL:  o.Target,
			Language: o.Language,
		}), nil
	case "file":
		if o.Target == "" {
			return nil, fmt.Errorf("file transcript source requires a directory target")
		}
		return transcript.NewFileSource(o.Target), nil
	default:
		return nil, fmt.Errorf("unsupported transcript provider: %s", o.ProviderType)
	}
}
