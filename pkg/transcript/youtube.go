package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimedTextURL is YouTube's caption endpoint.
	DefaultTimedTextURL = "https://video.google.com/timedtext"

	// DefaultLanguage is the caption language requested when none is
	// configured.
	DefaultLanguage = "en"
)

// YouTubeSource fetches video captions from YouTube's timedtext endpoint.
// Videos with captions disabled return an empty document, which surfaces as
// an absent transcript.
type YouTubeSource struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

// YouTubeConfig holds configuration for the YouTube source.
type YouTubeConfig struct {
	// BaseURL overrides the timedtext endpoint. Defaults to
	// DefaultTimedTextURL if empty.
	BaseURL string

	// Language is the caption language code. Defaults to DefaultLanguage
	// if empty.
	Language string
}

// timedText mirrors the timedtext XML document: a flat list of caption
// lines with start and duration attributes.
type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Lines   []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Text  string `xml:",chardata"`
	} `xml:"text"`
}

// NewYouTubeSource creates a source over YouTube's timedtext endpoint.
func NewYouTubeSource(cfg YouTubeConfig) *YouTubeSource {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultTimedTextURL
	}

	language := cfg.Language
	if language == "" {
		language = DefaultLanguage
	}

	return &YouTubeSource{
		baseURL:  baseURL,
		language: language,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch retrieves and flattens the caption track for videoID. Caption lines
// are joined with single spaces into one continuous document.
func (s *YouTubeSource) Fetch(ctx context.Context, videoID string) (string, bool, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", s.language)

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", false, fmt.Errorf("%w: creating request: %v", ErrFetch, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("%w: sending request: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", false, fmt.Errorf("%w: timedtext returned status %d: %s", ErrFetch, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("%w: reading response: %v", ErrFetch, err)
	}

	// Captions disabled: the endpoint answers 200 with an empty body.
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", false, nil
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", false, fmt.Errorf("%w: parsing timedtext: %v", ErrFetch, err)
	}

	parts := make([]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		if t := strings.TrimSpace(line.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), true, nil
}

// Close releases resources held by the source.
func (s *YouTubeSource) Close() error { return nil }

var _ Source = (*YouTubeSource)(nil)
