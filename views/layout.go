// Package views holds the site's templ components. Every navigation
// renders one view fragment into #app; full page loads wrap the same
// fragment in Layout.
package views

import (
	"strconv"

	"github.com/a-h/templ"
)

// Layout is the document shell. The doodle background and the app root
// are siblings so each can be replaced without touching the other.
func Layout(site SiteConfig, meta PageMeta, jsonLD string, content templ.Component) templ.Component {
	return component(func(p *page) {
		title := site.Name
		if meta.Title != "" && meta.Title != site.Name {
			title = meta.Title + " | " + site.Name
		}
		desc := meta.Description
		if desc == "" {
			desc = site.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		p.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"/>`,
			`<meta name="viewport" content="width=device-width, initial-scale=1"/><title>`)
		p.text(title)
		p.raw(`</title><meta name="description"`)
		p.attr("content", desc)
		p.raw(`/>`)
		if meta.URL != "" {
			p.raw(`<link rel="canonical"`)
			p.attr("href", meta.URL)
			p.raw(`/><meta property="og:url"`)
			p.attr("content", meta.URL)
			p.raw(`/>`)
		}
		p.raw(`<meta property="og:title"`)
		p.attr("content", title)
		p.raw(`/><meta property="og:type"`)
		p.attr("content", ogType)
		p.raw(`/><meta property="og:description"`)
		p.attr("content", desc)
		p.raw(`/><link rel="icon" href="/favicon.svg" type="image/svg+xml"/>`,
			`<link rel="alternate" type="application/rss+xml" href="/feed.xml"/>`,
			`<link rel="stylesheet" href="/public/folio.css"/>`,
			`<script src="/public/folio.js" defer></script>`)
		if jsonLD != "" {
			p.raw(`<script type="application/ld+json">`, jsonLD, `</script>`)
		}
		p.raw(`</head><body><div id="doodle-background" aria-hidden="true"></div><main id="app">`)
		p.render(content)
		p.raw(`</main></body></html>`)
	})
}

// TitleArea is the header at the top of every view.
func TitleArea(h Header) templ.Component {
	return component(func(p *page) {
		p.raw(`<header class="title-area">`)
		if h.Back != "" {
			p.raw(`<a class="back-link"`)
			p.attr("href", h.Back)
			p.raw(`>&larr; Back</a>`)
		}
		p.raw(`<h1 class="title">`)
		p.text(h.Title)
		p.raw(`</h1>`)
		if h.Subtitle != "" {
			p.raw(`<p class="subtitle">`)
			p.text(h.Subtitle)
			p.raw(`</p>`)
		}
		p.raw(`</header>`)
	})
}

// view wraps a fragment with its generation. The doodle loader is always
// written last.
func view(class string, nav Nav, body func(p *page)) templ.Component {
	return component(func(p *page) {
		p.raw(`<div`)
		p.attr("class", "view "+class)
		p.attr("data-generation", strconv.FormatUint(nav.Generation, 10))
		p.raw(`>`)
		body(p)
		p.render(DoodleLoader(nav))
		p.raw(`</div>`)
	})
}
