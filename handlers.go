package folio

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/diamond"
	"github.com/eringen/folio/doodle"
	"github.com/eringen/folio/motion"
	"github.com/eringen/folio/route"
	"github.com/eringen/folio/views"
)

// Viewport bounds for the doodle layer.
const (
	defaultViewportWidth  = 1440
	defaultViewportHeight = 900
	maxViewportSide       = 8192
)

// servePage starts a navigation for target and renders it: the bare
// fragment for htmx requests, the full document otherwise.
func (a *App) servePage(c echo.Context, target string) error {
	gen := a.beginNavigation(c)
	p, _ := a.dispatch(c.Request().Context(), target, gen)
	if err := setGeneration(c, gen); err != nil {
		a.Logger.Warn("save navigation cookie", "err", err)
	}
	if isHTMX(c) {
		return Render(c, p.Body)
	}
	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}
	return RenderStatus(c, status, views.Layout(a.viewConfig(), p.Meta, p.JSONLD, p.Body))
}

func (a *App) handleHome(c echo.Context) error {
	return a.servePage(c, route.Route{Key: route.Home}.Path())
}

func (a *App) handlePosition(c echo.Context) error {
	r := route.Route{Key: route.Position, Params: []string{c.Param("id")}}
	return a.servePage(c, r.Path())
}

// handleProject serves a project page. ?phase=N opens the carousel on
// phase N, which is how the phase controls work without script.
func (a *App) handleProject(c echo.Context) error {
	r := route.Route{Key: route.Project, Params: []string{c.Param("slug")}}
	if phase := c.QueryParam("phase"); phase != "" {
		if _, err := strconv.Atoi(phase); err == nil {
			r.Params = append(r.Params, phase)
		}
	}
	return a.servePage(c, r.Path())
}

// handleView is the hashchange endpoint. It always answers 200 so that an
// inline error still replaces the previous view.
func (a *App) handleView(c echo.Context) error {
	gen := a.beginNavigation(c)
	p, _ := a.dispatch(c.Request().Context(), c.QueryParam("hash"), gen)
	if err := setGeneration(c, gen); err != nil {
		a.Logger.Warn("save navigation cookie", "err", err)
	}
	return Render(c, p.Body)
}

// requestGeneration reads ?gen=. A request without one does not belong to
// a navigation and is never stale.
func requestGeneration(c echo.Context) (route.Generation, bool, error) {
	v := c.QueryParam("gen")
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false, echo.NewHTTPError(http.StatusBadRequest, "invalid generation")
	}
	return route.Generation(n), true, nil
}

func viewportSide(v string, fallback int) float64 {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		n = fallback
	}
	if n > maxViewportSide {
		n = maxViewportSide
	}
	return float64(n)
}

// handleDoodleLayer places a fresh doodle layer for the client viewport.
func (a *App) handleDoodleLayer(c echo.Context) error {
	if !a.doodleLimiter.Allow(c.RealIP()) {
		c.Response().Header().Set("HX-Reswap", "none")
		return c.NoContent(http.StatusTooManyRequests)
	}
	gen, ok, err := requestGeneration(c)
	if err != nil {
		return err
	}

	vp := doodle.Viewport{
		Width:  viewportSide(c.QueryParam("w"), defaultViewportWidth),
		Height: viewportSide(c.QueryParam("h"), defaultViewportHeight),
	}
	layer := doodle.NewLayer(a.Catalog, a.doodleCfg)
	placed := guard(c, gen, ok, func() {
		layer.Place(a.newRand(), vp, doodle.Category(c.QueryParam("category")))
	})
	if !placed {
		return renderStale(c)
	}
	return Render(c, views.DoodleLayer(layer.Instances(), a.doodleCfg.BaseSize))
}

// handlePhase computes one carousel step. The client sends the index it
// shows and the image slot in front; the response is the choreography
// plus fresh controls.
func (a *App) handlePhase(c echo.Context) error {
	dir, ok := diamond.ParseDirection(c.QueryParam("dir"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "dir must be next or prev")
	}
	from, err := strconv.Atoi(c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid phase index")
	}
	gen, hasGen, err := requestGeneration(c)
	if err != nil {
		return err
	}

	slug := c.Param("slug")
	meta, err := a.Content.Meta(c.Request().Context(), slug)
	if err != nil {
		return a.contentError(err)
	}
	if !meta.IsDouble() {
		return echo.ErrNotFound
	}

	script := motion.NewScript()
	n := diamond.PhaseCount()
	player := diamond.NewPlayer(script, diamond.NewCarousel(n, from))
	front := c.QueryParam("front")
	if front == "" {
		front = diamond.ImageSlotA
	}
	player.SetFront(front)
	var to int
	if !guard(c, gen, hasGen, func() { to = player.Transition(dir) }) {
		return renderStale(c)
	}

	return Render(c, views.PhaseStep(views.PhaseStepData{
		Slug:  slug,
		Index: to,
		Count: n,
		Front: player.Front(),
		Plan:  script.Plan(),
		Nav:   views.Nav{Generation: uint64(gen)},
	}))
}

func (a *App) handleAsset(c echo.Context) error {
	p := c.Param("*")
	b, err := a.Content.Asset(c.Request().Context(), p)
	if err != nil {
		return a.contentError(err)
	}
	ctype := mime.TypeByExtension(path.Ext(p))
	if ctype == "" {
		ctype = http.DetectContentType(b)
	}
	return c.Blob(http.StatusOK, ctype, b)
}

func (a *App) handleSitemap(c echo.Context) error {
	positions, err := a.Content.Positions(c.Request().Context())
	if err != nil {
		return a.contentError(err)
	}
	return a.renderSitemap(c, positions)
}

func (a *App) handleFeed(c echo.Context) error {
	positions, err := a.Content.Positions(c.Request().Context())
	if err != nil {
		return a.contentError(err)
	}
	return a.renderRSS(c, positions)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.staticDir, "favicon.svg"))
}

// handleRobots serves the static robots.txt, or a permissive one that
// points at the sitemap.
func (a *App) handleRobots(c echo.Context) error {
	file := filepath.Join(a.staticDir, "robots.txt")
	if _, err := os.Stat(file); err == nil {
		return c.File(file)
	}
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", BuildURL(a.Config.URL)+"sitemap.xml")
	return c.String(http.StatusOK, body)
}

// contentError maps a content failure onto an HTTP error for endpoints
// that have no inline error view.
func (a *App) contentError(err error) error {
	if errors.Is(err, content.ErrNotFound) {
		return echo.ErrNotFound
	}
	return echo.NewHTTPError(http.StatusBadGateway, "content unavailable").SetInternal(err)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.viewConfig()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "uri", c.Request().RequestURI, "status", code, "err", err)
		_ = RenderStatus(c, code, views.ServerError(a.viewConfig()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
