package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/motion"
)

// GridSelector matches the cards of the grid on screen.
const GridSelector = ".entry-grid .entry-card"

// EntryCard is a clickable position or project card.
func EntryCard(c Card) templ.Component {
	return component(func(p *page) {
		p.raw(`<a class="entry-card"`)
		p.attr("id", "card-"+c.ID)
		p.attr("href", c.Href)
		p.attr("data-hash", c.Hash)
		if c.Exit {
			p.raw(` data-exit`)
		}
		p.raw(`>`)
		if c.Image != "" {
			p.raw(`<img class="card-image" alt="" loading="lazy"`)
			p.attr("src", c.Image)
			p.raw(`/>`)
		}
		p.raw(`<h2 class="card-title">`)
		p.text(c.Title)
		p.raw(`</h2>`)
		if c.Meta != "" {
			p.raw(`<p class="card-meta">`)
			p.text(c.Meta)
			p.raw(`</p>`)
		}
		if c.Description != "" {
			p.raw(`<p class="card-description">`)
			p.text(c.Description)
			p.raw(`</p>`)
		}
		p.raw(`</a>`)
	})
}

func grid(p *page, cards []Card, plan motion.Plan) {
	p.raw(`<section class="entry-grid"`)
	p.attr("data-exit-plan", planJSON(plan))
	p.raw(`>`)
	for _, c := range cards {
		p.render(EntryCard(c))
	}
	if len(cards) == 0 {
		p.raw(`<p class="empty">Nothing here yet.</p>`)
	}
	p.raw(`</section>`)
}

// Home renders the header, the position grid and the about panel.
func Home(d HomeData) templ.Component {
	return view("home-view", d.Nav, func(p *page) {
		p.render(TitleArea(d.Header))
		grid(p, d.Cards, d.ExitPlan)
		if d.About != "" {
			p.raw(`<aside class="about-panel">`)
			p.render(markdown.Component(d.About))
			p.raw(`</aside>`)
		}
	})
}

// ProjectList renders a position's projects as a grid.
func ProjectList(d ListData) templ.Component {
	return view("project-list-view", d.Nav, func(p *page) {
		p.render(TitleArea(d.Header))
		grid(p, d.Cards, d.ExitPlan)
	})
}

// EntityDetail renders one entity, such as a position without projects,
// as a document.
func EntityDetail(d DetailData) templ.Component {
	return view("detail-view", d.Nav, func(p *page) {
		p.render(TitleArea(d.Header))
		p.raw(`<article class="entity-body">`)
		p.render(markdown.Component(d.Body))
		p.raw(`</article>`)
	})
}
