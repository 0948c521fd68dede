package folio

import (
	"github.com/a-h/templ"

	"github.com/eringen/folio/views"
)

// Page is what a view initializer produces: the fragment for #app and
// the metadata a full page load needs around it.
type Page struct {
	Meta   views.PageMeta
	JSONLD string
	Body   templ.Component
	// Status applies to full page loads. Fragments are always 200 so that
	// the inline error still swaps in.
	Status int
}

func (a *App) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}
