// Package markdown renders the small Markdown dialect used by project
// documents. Output is passed through a bluemonday policy before it is
// written.
package markdown

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy allows what the renderer emits and nothing else.
	policy = newPolicy()
	strict = bluemonday.StrictPolicy()

	reBlockEnd = regexp.MustCompile(`</(?:p|h[1-4]|li|blockquote|pre|td|th)>|<hr/>`)
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).
		OnElements("a", "code", "pre", "span", "div", "table")
	p.AllowAttrs("loading", "decoding", "width", "height").OnElements("img")
	p.AllowAttrs("target").Matching(bluemonday.Paragraph).OnElements("a")
	p.RequireNoReferrerOnLinks(true)
	return p
}

// Render converts md to sanitized HTML.
func Render(md string) string {
	var b strings.Builder
	r := &renderer{out: &b}
	r.render(md)
	return policy.Sanitize(b.String())
}

// Component returns md rendered as a templ component.
func Component(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, Render(md))
		return err
	})
}

// Plain strips markdown down to a single line of text, for summaries and
// feed descriptions.
func Plain(md string, max int) string {
	text := strict.Sanitize(reBlockEnd.ReplaceAllString(Render(md), "$0 "))
	text = strings.Join(strings.Fields(unescape(text)), " ")
	if max > 0 {
		if r := []rune(text); len(r) > max {
			text = strings.TrimSpace(string(r[:max])) + "…"
		}
	}
	return text
}
