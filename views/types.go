package views

import (
	"github.com/eringen/folio/diamond"
	"github.com/eringen/folio/motion"
)

// SiteConfig holds site-wide settings populated from environment variables.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string // SITE_NAME
	URL         string // SITE_URL
	Description string // SITE_DESCRIPTION, shown as the home bio
	Author      string // SITE_AUTHOR, shown as the home title
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Nav identifies the navigation a fragment belongs to.
type Nav struct {
	Generation uint64
	Category   string // doodle category, empty for all
}

// Header is the title area every view starts with.
type Header struct {
	Title    string
	Subtitle string
	Back     string // hash to return to, empty on the home view
}

// Card is one entry in a grid.
type Card struct {
	ID          string
	Title       string
	Meta        string // company and year line
	Description string
	Image       string
	Href        string // server path, used without script
	Hash        string // hash route
	Exit        bool   // plays the card exit before navigating
}

// HomeData is the home view: header, position grid, about panel.
type HomeData struct {
	Header   Header
	Cards    []Card
	About    string // markdown
	ExitPlan motion.Plan
	Nav      Nav
}

// ListData is a position's project grid.
type ListData struct {
	Header   Header
	Cards    []Card
	ExitPlan motion.Plan
	Nav      Nav
}

// DetailData is a single entity rendered from markdown.
type DetailData struct {
	Header Header
	Body   string // markdown
	Nav    Nav
}

// ProjectData is a project page. Phases is empty for single projects.
type ProjectData struct {
	Slug        string
	Header      Header
	Description string // markdown
	Phases      []diamond.Phase
	Index       int
	Epilogue    string // markdown
	Nav         Nav
}

// PhaseStepData is the response to one carousel step.
type PhaseStepData struct {
	Slug  string
	Index int
	Count int
	Front string
	Plan  motion.Plan
	Nav   Nav
}

// ErrorData is an inline failure under a minimal header.
type ErrorData struct {
	Header  Header
	Message string
	Nav     Nav
}
