package folio

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/folio/route"
)

const (
	sessionName   = "folio_nav"
	generationKey = "gen"
)

func (a *App) setupMiddleware() error {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			a.Logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"id", v.RequestID,
			)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return strings.HasPrefix(p, "/doodles/img/") || strings.HasPrefix(p, "/assets/")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	store, err := a.newSessionStore()
	if err != nil {
		return err
	}
	e.Use(session.Middleware(store))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return strings.HasPrefix(p, "/public") ||
				strings.HasPrefix(p, "/assets/") ||
				strings.HasPrefix(p, "/doodles/img/") ||
				p == "/sitemap.xml" || p == "/feed.xml" || p == "/robots.txt" || p == "/favicon.svg"
		},
	}))

	e.Use(cacheControlMiddleware)
	return nil
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := c.Request().URL.Path
		h := c.Response().Header()
		switch {
		case strings.HasPrefix(p, "/public/"), strings.HasPrefix(p, "/doodles/img/"):
			h.Set("Cache-Control", "public, max-age=31536000, immutable")
		case strings.HasPrefix(p, "/assets/"):
			h.Set("Cache-Control", "public, max-age=86400")
		case p == "/sitemap.xml" || p == "/feed.xml" || p == "/robots.txt":
			h.Set("Cache-Control", "public, max-age=86400")
		case p == "/view/", p == "/doodles/layer/", strings.HasSuffix(p, "/phase/"):
			h.Set("Cache-Control", "no-store")
		default:
			// Full pages set the navigation cookie.
			h.Set("Cache-Control", "no-cache")
		}
		return next(c)
	}
}

// newSessionStore signs the navigation cookie. Without a configured
// secret the key is random, so cookies do not survive a restart.
func (a *App) newSessionStore() (*sessions.CookieStore, error) {
	secret := []byte(a.Config.SessionSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			return nil, fmt.Errorf("folio: generate session key")
		}
		a.Logger.Warn("SESSION_SECRET not set, using an ephemeral key")
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store, nil
}

// clientGeneration returns the latest generation this client has started.
func clientGeneration(c echo.Context) (route.Generation, bool) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return 0, false
	}
	gen, ok := sess.Values[generationKey].(uint64)
	return route.Generation(gen), ok
}

// beginNavigation issues the generation for a new navigation. The
// process counter is first raised to the client's cookie, so a cookie
// written by an earlier process or another replica never outranks it.
func (a *App) beginNavigation(c echo.Context) route.Generation {
	if cur, ok := clientGeneration(c); ok {
		a.nav.Advance(cur)
	}
	return a.nav.Begin()
}

// setGeneration records gen as the client's latest navigation. An older
// generation never overwrites a newer one.
func setGeneration(c echo.Context, gen route.Generation) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	if cur, ok := sess.Values[generationKey].(uint64); ok && route.Generation(cur) >= gen {
		return nil
	}
	sess.Values[generationKey] = uint64(gen)
	return sess.Save(c.Request(), c.Response())
}

// guard runs fn unless gen belongs to a navigation the client has since
// replaced, and reports whether it ran. Requests without a generation and
// clients without a cookie always run.
func guard(c echo.Context, gen route.Generation, hasGen bool, fn func()) bool {
	cur, ok := clientGeneration(c)
	if !hasGen || !ok {
		fn()
		return true
	}
	return route.Resume(cur).Guard(gen, fn)
}
