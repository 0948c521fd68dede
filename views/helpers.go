package views

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// page writes markup and keeps the first error.
type page struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (p *page) raw(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *page) attr(name, value string) {
	p.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (p *page) render(c templ.Component) {
	if p.err == nil && c != nil {
		p.err = c.Render(p.ctx, p.w)
	}
}

func component(fn func(p *page)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{ctx: ctx, w: w}
		fn(p)
		return p.err
	})
}

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PathEscape wraps url.PathEscape for use in templ expressions.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// AssetURL maps a content-relative asset reference to the path it is
// served under. Absolute paths and URLs pass through.
func AssetURL(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "/") || strings.Contains(ref, "://") {
		return ref
	}
	return "/" + ref
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "px"
}

func planJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ProfileJsonLD produces a Schema.org ProfilePage JSON-LD block using cfg values.
func ProfileJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "ProfilePage",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Author != "" {
		person := map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
		if cfg.Description != "" {
			person["description"] = cfg.Description
		}
		data["mainEntity"] = person
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// CreativeWorkJsonLD produces a Schema.org CreativeWork block for a project.
func CreativeWorkJsonLD(cfg SiteConfig, slug, title, description string) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "CreativeWork",
		"name":        title,
		"description": description,
		"url":         buildURL(cfg.URL, "project", slug),
	}
	if cfg.Author != "" {
		data["creator"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
