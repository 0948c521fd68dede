package folio

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/diamond"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/motion"
	"github.com/eringen/folio/route"
	"github.com/eringen/folio/views"
)

const cardDescriptionLen = 160

func (a *App) newRouter() *route.Router[Page] {
	r := route.NewRouter[Page](func(id string) (string, bool) {
		c, ok := a.Catalog.CategoryFor(id)
		return string(c), ok
	})
	r.Handle(route.Home, a.initHome)
	r.Handle(route.Position, a.initPosition)
	r.Handle(route.Project, a.initProject)
	return r
}

// dispatch runs the view for target. Initializer failures come back as
// an error page so the caller always has something to render.
func (a *App) dispatch(ctx context.Context, target string, gen route.Generation) (Page, route.Navigation) {
	p, nav, err := a.router.Dispatch(ctx, target, gen)
	if err != nil {
		return a.errorPage(nav, err), nav
	}
	return p, nav
}

func navOf(nav route.Navigation) views.Nav {
	return views.Nav{Generation: uint64(nav.Generation), Category: nav.Category}
}

func exitPlan() motion.Plan {
	s := motion.NewScript()
	motion.CardExit(s, motion.ClickedTarget, views.GridSelector, nil)
	return s.Plan()
}

func cardMeta(company, year string) string {
	var parts []string
	for _, v := range []string{company, year} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " · ")
}

func (a *App) initHome(ctx context.Context, nav route.Navigation) (Page, error) {
	positions, err := a.Content.Positions(ctx)
	if err != nil {
		return Page{}, err
	}
	about, err := a.Content.About(ctx)
	if err != nil {
		return Page{}, err
	}

	cards := make([]views.Card, 0, len(positions))
	for _, p := range positions {
		r := route.Route{Key: route.Position, Params: []string{p.ID}}
		cards = append(cards, views.Card{
			ID:          p.ID,
			Title:       p.Title,
			Meta:        cardMeta(p.Company, p.Year),
			Description: markdown.Plain(p.Description, cardDescriptionLen),
			Href:        r.Path(),
			Hash:        r.Fragment(),
			Exit:        len(p.Projects) > 0,
		})
	}

	title := a.Config.Author
	if title == "" {
		title = a.Config.Name
	}
	site := a.viewConfig()
	return Page{
		Meta:   views.PageMeta{Description: a.Config.Description, URL: BuildURL(a.Config.URL), OGType: "website"},
		JSONLD: views.ProfileJsonLD(site),
		Body: views.Home(views.HomeData{
			Header:   views.Header{Title: title, Subtitle: a.Config.Description},
			Cards:    cards,
			About:    about,
			ExitPlan: exitPlan(),
			Nav:      navOf(nav),
		}),
		Status: http.StatusOK,
	}, nil
}

// initPosition shows a position's projects, or the position itself when
// it has none. A missing id is the home view.
func (a *App) initPosition(ctx context.Context, nav route.Navigation) (Page, error) {
	id := nav.Route.Param(0)
	if id == "" {
		return a.initHome(ctx, nav)
	}
	pos, err := a.Content.Position(ctx, id)
	if err != nil {
		return Page{}, err
	}
	header := views.Header{Title: pos.Title, Subtitle: cardMeta(pos.Company, pos.Year), Back: route.Route{Key: route.Home}.Fragment()}
	meta := views.PageMeta{
		Title:       pos.Title,
		Description: markdown.Plain(pos.Description, cardDescriptionLen),
		URL:         BuildURL(a.Config.URL, "position", id),
		OGType:      "website",
	}

	if len(pos.Projects) == 0 {
		body, err := a.Content.Document(ctx, id)
		if errors.Is(err, content.ErrNotFound) {
			body, err = pos.Description, nil
		}
		if err != nil {
			return Page{}, err
		}
		return Page{
			Meta:   meta,
			Body:   views.EntityDetail(views.DetailData{Header: header, Body: body, Nav: navOf(nav)}),
			Status: http.StatusOK,
		}, nil
	}

	cards := make([]views.Card, 0, len(pos.Projects))
	for _, pr := range pos.Projects {
		r := route.Route{Key: route.Project, Params: []string{pr.ID}}
		cards = append(cards, views.Card{
			ID:          pr.ID,
			Title:       pr.Title,
			Meta:        cardMeta(pr.Company, pr.Year),
			Description: markdown.Plain(pr.Description, cardDescriptionLen),
			Image:       views.AssetURL(pr.Meta.SVG),
			Href:        r.Path(),
			Hash:        r.Fragment(),
		})
	}
	return Page{
		Meta:   meta,
		Body:   views.ProjectList(views.ListData{Header: header, Cards: cards, Nav: navOf(nav)}),
		Status: http.StatusOK,
	}, nil
}

// initProject shows a project. Double diamond projects get the phase
// carousel; the second route parameter selects the starting phase.
func (a *App) initProject(ctx context.Context, nav route.Navigation) (Page, error) {
	slug := nav.Route.Param(0)
	if slug == "" {
		return a.initHome(ctx, nav)
	}
	meta, err := a.Content.Meta(ctx, slug)
	if err != nil {
		return Page{}, err
	}
	doc, err := a.Content.Document(ctx, slug)
	if err != nil {
		return Page{}, err
	}

	title := meta.Title
	parent := a.parentOf(ctx, slug)
	if title == "" {
		title = parent.title
	}
	if title == "" {
		title = slug
	}
	d := views.ProjectData{
		Slug:   slug,
		Header: views.Header{Title: title, Subtitle: meta.ParentPositionTitle, Back: parent.back},
		Nav:    navOf(nav),
	}
	var (
		body    templ.Component
		summary string
	)
	if meta.IsDouble() {
		split := diamond.Split(doc)
		phases, err := diamond.Assemble(split, diamond.Catalog(), meta.Illustrations)
		if errors.Is(err, diamond.ErrPhaseMismatch) {
			a.Logger.Warn("phase sections do not match the catalog", "project", slug, "err", err)
		}
		d.Description = split.Description
		d.Epilogue = split.Epilogue
		d.Phases = phases
		if i, err := strconv.Atoi(nav.Route.Param(1)); err == nil {
			d.Index = i
		}
		summary = split.Description
		body = views.ProjectDouble(d)
	} else {
		d.Description = doc
		summary = doc
		body = views.ProjectSingle(d)
	}

	desc := markdown.Plain(summary, cardDescriptionLen)
	return Page{
		Meta: views.PageMeta{
			Title:       title,
			Description: desc,
			URL:         BuildURL(a.Config.URL, "project", slug),
			OGType:      "article",
		},
		JSONLD: views.CreativeWorkJsonLD(a.viewConfig(), slug, title, desc),
		Body:   body,
		Status: http.StatusOK,
	}, nil
}

type parentRef struct {
	title string // the project's title as listed under the position
	back  string
}

// parentOf finds the position listing slug. Failures fall back to home,
// since the project itself already loaded.
func (a *App) parentOf(ctx context.Context, slug string) parentRef {
	ref := parentRef{back: route.Route{Key: route.Home}.Fragment()}
	positions, err := a.Content.Positions(ctx)
	if err != nil {
		return ref
	}
	for _, p := range positions {
		for _, pr := range p.Projects {
			if pr.ID == slug {
				ref.title = pr.Title
				ref.back = route.Route{Key: route.Position, Params: []string{p.ID}}.Fragment()
				return ref
			}
		}
	}
	return ref
}

// errorPage renders a failed initializer inline. Missing content is a 404
// on full page loads, any other fetch failure a 502.
func (a *App) errorPage(nav route.Navigation, err error) Page {
	status := http.StatusBadGateway
	title := "Something went wrong"
	if errors.Is(err, content.ErrNotFound) {
		status = http.StatusNotFound
		title = "Not found"
		a.Logger.Warn("view not found", "route", nav.Route.Fragment(), "err", err)
	} else {
		a.Logger.Error("view failed", "route", nav.Route.Fragment(), "err", err)
	}
	return Page{
		Meta: views.PageMeta{Title: title},
		Body: views.ErrorPanel(views.ErrorData{
			Header:  views.Header{Title: title, Back: route.Route{Key: route.Home}.Fragment()},
			Message: err.Error(),
			Nav:     navOf(nav),
		}),
		Status: status,
	}
}
