// Package folio is a portfolio site built with Go, Echo, and templ.
// It renders a home grid of positions, per-position project lists and
// project pages with a double diamond phase carousel, over a decorative
// doodle background that is re-placed on every navigation.
//
// Content is static: a positions.json plus per-project meta.json and
// content.md, read from a directory or a remote base URL.
package folio

import (
	"fmt"
	"io/fs"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/doodle"
	"github.com/eringen/folio/route"
)

// App is the central folio application. It wires together the content
// repository, the doodle engine, the view router, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content *content.Repository
	Catalog *doodle.Catalog
	Logger  *log.Logger

	router        *route.Router[Page]
	nav           route.Navigator
	source        content.Source
	doodleCfg     doodle.Config
	newRand       func() doodle.Rand
	doodleLimiter *RequestLimiter
	images        *DoodleImages
	customRoutes  []func(*App)
	staticDir     string
	ready         bool
}

// New creates a new folio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		doodleCfg: doodle.DefaultConfig(),
		newRand: func() doodle.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "folio"})
	}

	return a
}

// Setup loads the catalog, opens the content source and registers
// middleware and routes. Start calls it; tests call it directly.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if err := a.doodleCfg.Validate(); err != nil {
		return fmt.Errorf("folio: doodle config: %w", err)
	}

	if a.Catalog == nil {
		if a.Config.DoodleCatalog != "" {
			c, err := doodle.LoadCatalog(a.Config.DoodleCatalog)
			if err != nil {
				return fmt.Errorf("folio: %w", err)
			}
			a.Catalog = c
		} else {
			a.Catalog = doodle.DefaultCatalog()
		}
	}

	if a.source == nil {
		src, err := OpenSource(a.Config)
		if err != nil {
			return fmt.Errorf("folio: %w", err)
		}
		a.source = src
	}
	a.Content = content.NewRepository(a.source)
	a.images = NewDoodleImages(a.source, a.Catalog, int(a.doodleCfg.BaseSize))
	a.doodleLimiter = NewRequestLimiter(a.Config.DoodleRate, time.Minute)
	a.router = a.newRouter()

	if err := a.setupMiddleware(); err != nil {
		return err
	}
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start sets the app up and runs the server until it is closed.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Logger.Info("listening", "addr", a.Config.Addr, "url", a.Config.URL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// OpenSource returns the content source cfg points at. ContentURL wins
// over ContentDir.
func OpenSource(cfg SiteConfig) (content.Source, error) {
	if cfg.ContentURL != "" {
		return content.NewHTTPSource(cfg.ContentURL)
	}
	info, err := os.Stat(cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %s is not a directory", cfg.ContentDir)
	}
	return content.FSSource{FS: os.DirFS(cfg.ContentDir)}, nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded client assets are served under /public/ and fall through
	// to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/folio.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/folio.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/assets/*", a.handleAsset)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/position/:id/", a.handlePosition)
	e.GET("/project/:slug/", a.handleProject)
	e.GET("/view/", a.handleView)

	e.GET("/project/:slug/phase/", a.handlePhase)
	e.GET("/doodles/layer/", a.handleDoodleLayer)
	e.GET("/doodles/img/:file", a.handleDoodleImage)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.doodleLimiter != nil {
		a.doodleLimiter.Stop()
	}
	return a.Echo.Close()
}
