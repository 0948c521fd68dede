package views

import (
	"net/url"
	"path"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/folio/doodle"
)

// DoodleLoader asks the client script to repopulate #doodle-background
// for this navigation once the fragment is in place.
func DoodleLoader(nav Nav) templ.Component {
	return component(func(p *page) {
		q := url.Values{}
		if nav.Category != "" {
			q.Set("category", nav.Category)
		}
		q.Set("gen", strconv.FormatUint(nav.Generation, 10))
		p.raw(`<div class="doodle-loader" hidden`)
		p.attr("data-doodle-url", "/doodles/layer/?"+q.Encode())
		p.raw(`></div>`)
	})
}

// DoodleLayer renders placed doodles for #doodle-background.
func DoodleLayer(instances []doodle.Instance, baseSize float64) templ.Component {
	return component(func(p *page) {
		for _, in := range instances {
			flip := ""
			if in.Flipped {
				flip = " scaleX(-1)"
			}
			style := "top:" + px(in.Top) + ";left:" + px(in.Left) + ";width:" + px(baseSize) +
				";transform:rotate(" + strconv.FormatFloat(in.Rotation, 'f', 1, 64) + "deg) scale(" +
				strconv.FormatFloat(in.Scale, 'f', 2, 64) + ")" + flip
			p.raw(`<img class="background-doodle" alt="" decoding="async"`)
			p.attr("src", "/doodles/img/"+url.PathEscape(path.Base(in.Image)))
			p.attr("style", style)
			p.attr("data-phase", in.Phase.String())
			p.raw(`/>`)
		}
	})
}
