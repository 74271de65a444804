package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSource reads transcripts from a directory, one <videoID>.txt file per
// video. A missing file means the video has no transcript.
type FileSource struct {
	dir string
}

// NewFileSource creates a source over dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Fetch reads <dir>/<videoID>.txt.
func (s *FileSource) Fetch(_ context.Context, videoID string) (string, bool, error) {
	path := filepath.Join(s.dir, videoID+".txt")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: reading %s: %v", ErrFetch, path, err)
	}

	return string(data), true, nil
}

// Close releases resources held by the source.
func (s *FileSource) Close() error { return nil }

var _ Source = (*FileSource)(nil)
