package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Source reads raw bytes for a slash-separated path under the content root.
type Source interface {
	Read(ctx context.Context, p string) ([]byte, error)
}

// FSSource reads from a file system, usually os.DirFS(contentDir).
type FSSource struct {
	FS fs.FS
}

// Read implements Source.
func (s FSSource) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Path: p, Err: err}
	}
	b, err := fs.ReadFile(s.FS, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FetchError{Path: p, Err: ErrNotFound}
		}
		return nil, &FetchError{Path: p, Err: err}
	}
	return b, nil
}

// ErrTooLarge marks a remote document over maxDocumentSize.
var ErrTooLarge = errors.New("content: document too large")

// maxDocumentSize caps remote reads.
const maxDocumentSize = 4 << 20

// HTTPSource reads from a base URL laid out like the content directory.
type HTTPSource struct {
	Base   *url.URL
	Client *http.Client
}

// NewHTTPSource parses base and returns a source with a bounded client.
func NewHTTPSource(base string) (*HTTPSource, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse content url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("content url %q must be http or https", base)
	}
	return &HTTPSource{Base: u, Client: &http.Client{Timeout: 10 * time.Second}}, nil
}

// Read implements Source.
func (s *HTTPSource) Read(ctx context.Context, p string) ([]byte, error) {
	u := s.Base.JoinPath(path.Clean("/" + p)[1:])
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{Path: p, Err: err}
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Path: p, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &FetchError{Path: p, Status: resp.StatusCode, Err: ErrNotFound}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &FetchError{Path: p, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, &FetchError{Path: p, Err: err}
	}
	if len(b) > maxDocumentSize {
		return nil, &FetchError{Path: p, Err: ErrTooLarge}
	}
	return b, nil
}
