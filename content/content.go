// Package content loads the portfolio's static content: the positions
// list, per-project metadata and per-project markdown.
//
// Everything lives under one root with a fixed layout:
//
//	positions.json
//	projects/{slug}/meta.json
//	projects/{slug}/content.md
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// loadTimeout bounds the shared positions load.
const loadTimeout = 30 * time.Second

// ErrNotFound marks a missing resource.
var ErrNotFound = errors.New("content: not found")

// FetchError describes a failed read of one resource.
type FetchError struct {
	Path   string
	Status int // HTTP status when the source is remote, 0 otherwise
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Project types.
const (
	TypeSingle = "single"
	TypeDouble = "double"
)

// Project is an entry listed under a position.
type Project struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Company     string      `json:"company,omitempty"`
	Year        string      `json:"year,omitempty"`
	Description string      `json:"description"`
	Meta        ProjectMeta `json:"meta"`
}

// ProjectMeta is the summary metadata embedded in positions.json.
type ProjectMeta struct {
	Type string `json:"type,omitempty"`
	SVG  string `json:"svg,omitempty"`
}

// Position is a job or role with its projects.
type Position struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Year        string    `json:"year"`
	Description string    `json:"description"`
	Projects    []Project `json:"projects"`
}

// Meta is a project's meta.json.
type Meta struct {
	Type                string `json:"type"`
	Title               string `json:"title,omitempty"`
	ParentPositionTitle string `json:"parentPositionTitle,omitempty"`
	// Illustrations overrides phase illustrations by phase id.
	Illustrations map[string]string `json:"illustrations,omitempty"`
}

// IsDouble reports whether the project uses the double diamond layout.
func (m Meta) IsDouble() bool {
	return m.Type == TypeDouble
}

// Repository reads content through a Source. The positions list is
// loaded on first use, de-duplicated across concurrent callers, and kept
// for the life of the repository.
type Repository struct {
	src   Source
	group singleflight.Group

	mu        sync.RWMutex
	positions []Position
	loaded    bool
}

// NewRepository returns a repository over src.
func NewRepository(src Source) *Repository {
	return &Repository{src: src}
}

// Loaded reports whether the positions list has been loaded.
func (r *Repository) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Positions returns the positions list, loading it at most once. A
// failed load is not cached; the next call tries again.
func (r *Repository) Positions(ctx context.Context) ([]Position, error) {
	r.mu.RLock()
	if r.loaded {
		ps := r.positions
		r.mu.RUnlock()
		return ps, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do("positions", func() (any, error) {
		r.mu.RLock()
		if r.loaded {
			ps := r.positions
			r.mu.RUnlock()
			return ps, nil
		}
		r.mu.RUnlock()

		// Waiters share this load, so it must outlive the caller that started it.
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		var ps []Position
		if err := r.readJSON(lctx, "positions.json", &ps); err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.positions = ps
		r.loaded = true
		r.mu.Unlock()
		return ps, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Position), nil
}

// Position returns one position by id.
func (r *Repository) Position(ctx context.Context, id string) (Position, error) {
	ps, err := r.Positions(ctx)
	if err != nil {
		return Position{}, err
	}
	for _, p := range ps {
		if p.ID == id {
			return p, nil
		}
	}
	return Position{}, &FetchError{Path: "positions.json#" + id, Err: ErrNotFound}
}

// Meta reads a project's meta.json.
func (r *Repository) Meta(ctx context.Context, slug string) (Meta, error) {
	var m Meta
	if err := r.readJSON(ctx, projectPath(slug, "meta.json"), &m); err != nil {
		return Meta{}, err
	}
	if m.Type == "" {
		m.Type = TypeSingle
	}
	return m, nil
}

// Document reads a project's content.md.
func (r *Repository) Document(ctx context.Context, slug string) (string, error) {
	b, err := r.src.Read(ctx, projectPath(slug, "content.md"))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// About reads the optional about.md at the content root. A missing file
// is not an error.
func (r *Repository) About(ctx context.Context) (string, error) {
	b, err := r.src.Read(ctx, "about.md")
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Asset reads a file under assets/. The path cannot climb out of it.
func (r *Repository) Asset(ctx context.Context, p string) ([]byte, error) {
	return r.src.Read(ctx, path.Join("assets", path.Clean("/"+p)))
}

// File reads any file under the content root.
func (r *Repository) File(ctx context.Context, p string) ([]byte, error) {
	return r.src.Read(ctx, strings.TrimPrefix(path.Clean("/"+p), "/"))
}

func (r *Repository) readJSON(ctx context.Context, p string, v any) error {
	b, err := r.src.Read(ctx, p)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return &FetchError{Path: p, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func projectPath(slug, file string) string {
	// Slugs are reduced to one element so they stay under projects/.
	return path.Join("projects", path.Base("/"+slug), file)
}
