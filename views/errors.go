package views

import "github.com/a-h/templ"

// ErrorPanel shows a failed view inline, under a minimal header.
func ErrorPanel(d ErrorData) templ.Component {
	return view("error-view", d.Nav, func(p *page) {
		h := d.Header
		if h.Title == "" {
			h.Title = "Something went wrong"
		}
		p.render(TitleArea(h))
		p.raw(`<div class="error-panel" role="alert"><p>`)
		p.text(d.Message)
		p.raw(`</p></div>`)
	})
}

// NotFound is the page for unknown paths.
func NotFound(site SiteConfig) templ.Component {
	return Layout(site, PageMeta{Title: "Not found"}, "", component(func(p *page) {
		p.render(TitleArea(Header{Title: "Page not found", Back: "/"}))
		p.raw(`<p class="error-panel">There is nothing at this address.</p>`)
	}))
}

// ServerError is the page for unexpected failures.
func ServerError(site SiteConfig) templ.Component {
	return Layout(site, PageMeta{Title: "Error"}, "", component(func(p *page) {
		p.render(TitleArea(Header{Title: "Something went wrong", Back: "/"}))
		p.raw(`<p class="error-panel">Please try again in a moment.</p>`)
	}))
}
