package markdown

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	reCode   = regexp.MustCompile("`([^`]+)`")
	reImage  = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]*)\)(?:\{(\d+)\|(\d+)\})?`)
	reLink   = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]*)\)(\^)?`)
	reStrong = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	reEm     = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)
)

// inline formats spans within one line. It counts images so that only
// the first one on a page is fetched eagerly.
type inline struct {
	images int
}

func (in *inline) format(s string) string {
	s = html.EscapeString(s)

	// Code spans are lifted out first so nothing inside them is formatted.
	var spans []string
	s = reCode.ReplaceAllStringFunc(s, func(m string) string {
		spans = append(spans, "<code>"+reCode.FindStringSubmatch(m)[1]+"</code>")
		return "\x00" + strconv.Itoa(len(spans)-1) + "\x00"
	})

	s = reImage.ReplaceAllStringFunc(s, in.image)
	s = reLink.ReplaceAllStringFunc(s, link)
	s = outsideTags(s, emphasis)

	for i, span := range spans {
		s = strings.Replace(s, "\x00"+strconv.Itoa(i)+"\x00", span, 1)
	}
	return s
}

func (in *inline) image(m string) string {
	g := reImage.FindStringSubmatch(m)
	src := SafeURL(g[2])
	if src == "" {
		return g[1]
	}
	in.images++
	load := `loading="lazy"`
	if in.images == 1 {
		load = `loading="eager"`
	}
	size := ""
	if g[3] != "" {
		size = ` width="` + g[3] + `" height="` + g[4] + `"`
	}
	return `<img src="` + src + `" alt="` + g[1] + `"` + size + ` ` + load + ` decoding="async"/>`
}

func link(m string) string {
	g := reLink.FindStringSubmatch(m)
	href := SafeURL(g[2])
	if href == "" {
		return g[1]
	}
	extra := ""
	if g[3] == "^" {
		extra = ` target="_blank" rel="noopener noreferrer"`
	}
	return `<a href="` + href + `" class="text-link"` + extra + `>` + g[1] + `</a>`
}

func emphasis(s string) string {
	s = reStrong.ReplaceAllStringFunc(s, func(m string) string {
		g := reStrong.FindStringSubmatch(m)
		if g[1] != g[3] {
			return m
		}
		return "<strong>" + g[2] + "</strong>"
	})
	return reEm.ReplaceAllStringFunc(s, func(m string) string {
		g := reEm.FindStringSubmatch(m)
		return "<em>" + g[1] + g[2] + "</em>"
	})
}

// outsideTags applies fn to the text between tags only, so attribute
// values such as URLs are left alone.
func outsideTags(s string, fn func(string) string) string {
	var b strings.Builder
	for s != "" {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(fn(s))
			break
		}
		b.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		b.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return b.String()
}

// SafeURL returns raw escaped for an attribute, or "" when it is not a
// relative path, a fragment, or an http, https, mailto or tel URL.
func SafeURL(raw string) string {
	v := strings.TrimSpace(html.UnescapeString(raw))
	switch {
	case v == "":
		return ""
	case strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//"), strings.HasPrefix(v, "#"):
		return html.EscapeString(v)
	}
	u, err := url.Parse(v)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(v)
	case "":
		// Relative asset paths such as assets/img/x.png.
		if !strings.Contains(v, ":") && !strings.HasPrefix(v, "//") {
			return html.EscapeString(v)
		}
	}
	return ""
}

func unescape(s string) string {
	return html.UnescapeString(s)
}
