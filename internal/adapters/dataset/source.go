package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxFeedBytes        = 64 << 20
)

// Source yields the raw bytes of one JSON feed.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// FileSource reads a feed from the local filesystem.
type FileSource struct {
	Path string
}

// Fetch implements Source.
func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, s.Path, err)
	}
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w: %s", ErrFetch, ErrSourceNotFound, s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return b, nil
}

func (s FileSource) String() string { return s.Path }

// HTTPSource downloads a feed. Any non-2xx status is an error; 404 is
// reported as ErrSourceNotFound. Bodies above MaxBytes (64 MiB when zero)
// are rejected.
type HTTPSource struct {
	URL      string
	Client   *http.Client
	MaxBytes int64
}

// Fetch implements Source.
func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %w: %s", ErrFetch, ErrSourceNotFound, s.URL)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", ErrFetch, s.URL, resp.StatusCode)
	}
	limit := s.MaxBytes
	if limit <= 0 {
		limit = maxFeedBytes
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, s.URL, err)
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%w: %s: feed exceeds %d bytes", ErrFetch, s.URL, limit)
	}
	return b, nil
}

func (s HTTPSource) String() string { return s.URL }

// NewSource picks an HTTP source for http(s) locations and a file source
// otherwise. An empty location returns nil.
func NewSource(location string, timeout time.Duration) Source {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		if timeout <= 0 {
			timeout = defaultFetchTimeout
		}
		return HTTPSource{URL: location, Client: &http.Client{Timeout: timeout}}
	default:
		return FileSource{Path: location}
	}
}

// LocalPath returns the filesystem path of a file source.
func LocalPath(src Source) (string, bool) {
	f, ok := src.(FileSource)
	if !ok {
		return "", false
	}
	return f.Path, true
}
