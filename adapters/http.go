package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brettbedarf/editorfs"
	"github.com/brettbedarf/editorfs/internal/util"
)

// HTTPClient is the subset of *http.Client used by [HTTPSource]
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSourceConfig contains http-specific source fields:
//
//	{"type": "http", "url": "https://example.com/App.ts", "headers": {"Authorization": "..."}}
type HTTPSourceConfig struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

// HTTPProvider builds [HTTPSource]s sharing one client
type HTTPProvider struct {
	Client  HTTPClient
	MaxSize int           // <= 0 disables the limit
	Timeout time.Duration // per fetch; 0 means no timeout beyond the caller's context
}

// Source validates the config and returns an [HTTPSource]. Only absolute
// http(s) URLs without user info are accepted.
func (p *HTTPProvider) Source(raw []byte) (editorfs.ContentSource, error) {
	var cfg HTTPSourceConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	u, err := url.Parse(strings.TrimSpace(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("invalid source url %q: %w", cfg.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid source url %q: scheme must be http or https", cfg.URL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid source url %q: missing host", cfg.URL)
	}
	if u.User != nil {
		return nil, fmt.Errorf("invalid source url %q: user info not allowed; use headers", cfg.URL)
	}

	return &HTTPSource{url: u.String(), headers: cfg.Headers, provider: p}, nil
}

// HTTPSource fetches file content with a GET request
type HTTPSource struct {
	url      string
	headers  map[string]string
	provider *HTTPProvider
}

func (s *HTTPSource) URL() string {
	return s.url
}

func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	logger := util.GetLogger("HTTPSource.Fetch")

	if s.provider.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.provider.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", err
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.provider.Client.Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("url", s.url).Msg("Request failed")
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetching %s: unexpected status %s", s.url, resp.Status)
	}

	var body io.Reader = resp.Body
	if s.provider.MaxSize > 0 {
		body = io.LimitReader(resp.Body, int64(s.provider.MaxSize)+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", s.url, err)
	}
	if s.provider.MaxSize > 0 && len(data) > s.provider.MaxSize {
		return "", fmt.Errorf("%w: %s is larger than %d bytes", ErrContentTooLarge, s.url, s.provider.MaxSize)
	}

	logger.Trace().Str("url", s.url).Int("size", len(data)).Msg("Fetched source")
	return string(data), nil
}

var (
	_ editorfs.ContentSource  = (*HTTPSource)(nil)
	_ editorfs.SourceProvider = (*HTTPProvider)(nil)
)
