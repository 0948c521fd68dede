package folio

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/doodle"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Bio shown under the home title, RSS and meta tags
	Author      string // Home title and JSON-LD person

	Addr       string // Listen address (default ":3000")
	ContentDir string // Content root on disk (default "content")
	ContentURL string // Remote content root; wins over ContentDir when set

	DoodleCatalog string // YAML or TOML catalog; the embedded one when empty
	DoodleRate    int    // Doodle layer requests per IP per minute (default 60, negative disables)

	SessionSecret string // Signs the navigation cookie; random per process when empty
	CookieSecure  bool   // Set true for HTTPS
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DoodleRate == 0 {
		c.DoodleRate = 60
	}
}

// LoadConfig reads an optional .env file and then the environment. A
// missing .env is not an error.
func LoadConfig(envFiles ...string) (SiteConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return SiteConfig{}, err
		}
	}
	cfg := SiteConfig{
		Name:          os.Getenv("SITE_NAME"),
		URL:           os.Getenv("SITE_URL"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Author:        os.Getenv("SITE_AUTHOR"),
		Addr:          os.Getenv("ADDR"),
		ContentDir:    os.Getenv("CONTENT_DIR"),
		ContentURL:    os.Getenv("CONTENT_URL"),
		DoodleCatalog: os.Getenv("DOODLE_CATALOG"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  envBool("COOKIE_SECURE"),
	}
	if v := os.Getenv("DOODLE_RATE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return SiteConfig{}, err
		}
		if n < 1 {
			// An explicit zero turns the limiter off rather than selecting the default.
			n = -1
		}
		cfg.DoodleRate = n
	}
	cfg.setDefaults()
	return cfg, nil
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithSource reads content from src instead of ContentDir or ContentURL.
func WithSource(src content.Source) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithCatalog uses c instead of loading DoodleCatalog.
func WithCatalog(c *doodle.Catalog) Option {
	return func(a *App) {
		a.Catalog = c
	}
}

// WithDoodleConfig overrides the placement tuning.
func WithDoodleConfig(cfg doodle.Config) Option {
	return func(a *App) {
		a.doodleCfg = cfg
	}
}

// WithRand sets the randomness source for doodle placement.
func WithRand(fn func() doodle.Rand) Option {
	return func(a *App) {
		a.newRand = fn
	}
}
