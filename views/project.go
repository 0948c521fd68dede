package views

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/folio/diamond"
	"github.com/eringen/folio/markdown"
)

// ProjectSingle renders a project without phases.
func ProjectSingle(d ProjectData) templ.Component {
	return view("project-view", d.Nav, func(p *page) {
		p.render(TitleArea(d.Header))
		p.raw(`<article class="project-body">`)
		p.render(markdown.Component(d.Description))
		p.raw(`</article>`)
	})
}

// ProjectDouble renders the description, the phase carousel and any
// closing text.
func ProjectDouble(d ProjectData) templ.Component {
	return view("project-view double", d.Nav, func(p *page) {
		p.render(TitleArea(d.Header))
		p.raw(`<article class="project-body">`)
		p.render(markdown.Component(d.Description))
		p.raw(`</article>`)
		p.render(PhaseFrame(d.Slug, d.Phases, d.Index, d.Nav))
		if d.Epilogue != "" {
			p.raw(`<article class="project-epilogue">`)
			p.render(markdown.Component(d.Epilogue))
			p.raw(`</article>`)
		}
	})
}

// PhaseFrame is the carousel. Every phase is rendered once into hidden
// templates; transitions swap them into the visible slots.
func PhaseFrame(slug string, phases []diamond.Phase, index int, nav Nav) templ.Component {
	return component(func(p *page) {
		if len(phases) == 0 {
			return
		}
		index = diamond.NewCarousel(len(phases), index).Index()
		cur := phases[index]

		p.raw(`<section id="phase-frame" class="phase-frame"`)
		p.attr("data-count", strconv.Itoa(len(phases)))
		p.raw(`><div class="phase-images"><div id="phase-img-a" class="phase-img" style="opacity:1">`)
		phaseImage(p, cur)
		p.raw(`</div><div id="phase-img-b" class="phase-img" style="opacity:0"></div></div>`)

		p.raw(`<div id="phase-text" class="phase-text">`)
		phaseText(p, cur)
		p.raw(`</div><ol class="phase-dots">`)
		for i, ph := range phases {
			cls := "phase-dot"
			if i == index {
				cls += " active"
			}
			p.raw(`<li`)
			p.attr("id", fmt.Sprintf("phase-dot-%d", i))
			p.attr("class", cls)
			p.attr("title", ph.Title)
			p.raw(`></li>`)
		}
		p.raw(`</ol>`)
		p.render(phaseControls(slug, index, len(phases), diamond.ImageSlotA, nav, false))

		p.raw(`<div class="phase-sources" hidden>`)
		for i, ph := range phases {
			p.raw(`<template`)
			p.attr("id", fmt.Sprintf("phase-src-text-%d", i))
			p.raw(`>`)
			phaseText(p, ph)
			p.raw(`</template><template`)
			p.attr("id", fmt.Sprintf("phase-src-img-%d", i))
			p.raw(`>`)
			phaseImage(p, ph)
			p.raw(`</template>`)
		}
		p.raw(`</div><div id="phase-player"></div></section>`)
	})
}

func phaseText(p *page, ph diamond.Phase) {
	p.raw(`<h3 class="phase-title">`)
	p.text(ph.Title)
	p.raw(`</h3><p class="phase-summary">`)
	p.text(ph.Description)
	p.raw(`</p><div class="phase-body">`)
	p.render(markdown.Component(ph.Body))
	p.raw(`</div>`)
}

func phaseImage(p *page, ph diamond.Phase) {
	p.raw(`<img`)
	p.attr("src", AssetURL(ph.Illustration))
	p.attr("alt", ph.Title)
	p.raw(`/>`)
}

func phaseControls(slug string, index, count int, front string, nav Nav, oob bool) templ.Component {
	return component(func(p *page) {
		p.raw(`<nav id="phase-controls" class="phase-controls"`)
		if oob {
			p.raw(` hx-swap-oob="true"`)
		}
		p.raw(`>`)
		for _, dir := range []diamond.Direction{diamond.Prev, diamond.Next} {
			c := diamond.NewCarousel(count, index)
			to := c.Step(dir)
			q := url.Values{}
			q.Set("from", strconv.Itoa(index))
			q.Set("dir", dir.String())
			q.Set("front", front)
			q.Set("gen", strconv.FormatUint(nav.Generation, 10))
			p.raw(`<a`)
			p.attr("class", "phase-"+dir.String())
			p.attr("href", "/project/"+url.PathEscape(slug)+"/?phase="+strconv.Itoa(to))
			p.attr("data-phase-url", "/project/"+url.PathEscape(slug)+"/phase/?"+q.Encode())
			p.raw(`>`)
			if dir == diamond.Prev {
				p.raw(`&larr;`)
			} else {
				p.raw(`&rarr;`)
			}
			p.raw(`</a>`)
		}
		p.raw(`</nav>`)
	})
}

// PhaseStep is the response to a carousel step: the transition plan and
// the controls for the new index.
func PhaseStep(d PhaseStepData) templ.Component {
	return component(func(p *page) {
		p.raw(`<script type="application/json" class="motion-plan">`, planJSON(d.Plan), `</script>`)
		p.render(phaseControls(d.Slug, d.Index, d.Count, d.Front, d.Nav, true))
	})
}
