package folio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/folio/content"
)

// unsetenv clears key for the test and restores it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()
	if cfg.Name != "Portfolio" || cfg.Addr != ":3000" || cfg.ContentDir != "content" || cfg.DoodleRate != 60 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.URL != "http://localhost:3000" {
		t.Fatalf("URL = %q", cfg.URL)
	}
}

func TestLoadConfigReadsDotenv(t *testing.T) {
	for _, k := range []string{"SITE_NAME", "SITE_URL", "CONTENT_DIR", "DOODLE_RATE", "COOKIE_SECURE"} {
		unsetenv(t, k)
	}
	t.Setenv("SITE_URL", "https://env.test")

	env := filepath.Join(t.TempDir(), ".env")
	data := "SITE_NAME=Dotenv Folio\nSITE_URL=https://dotenv.test\nCONTENT_DIR=site\nDOODLE_RATE=5\nCOOKIE_SECURE=true\n"
	if err := os.WriteFile(env, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		for _, k := range []string{"SITE_NAME", "CONTENT_DIR", "DOODLE_RATE", "COOKIE_SECURE"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := LoadConfig(env)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "Dotenv Folio" || cfg.ContentDir != "site" || cfg.DoodleRate != 5 || !cfg.CookieSecure {
		t.Fatalf("dotenv not applied: %+v", cfg)
	}
	if cfg.URL != "https://env.test" {
		t.Fatalf("environment should win over .env, got %q", cfg.URL)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	unsetenv(t, "DOODLE_RATE")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}
	if cfg.DoodleRate != 60 {
		t.Fatalf("DoodleRate = %d", cfg.DoodleRate)
	}
}

func TestLoadConfigBadRate(t *testing.T) {
	t.Setenv("DOODLE_RATE", "lots")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected an error for a non-numeric DOODLE_RATE")
	}
}

func TestLoadConfigZeroRateDisablesLimiter(t *testing.T) {
	t.Setenv("DOODLE_RATE", "0")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DoodleRate >= 1 {
		t.Fatalf("DOODLE_RATE=0 should disable the limiter, got %d", cfg.DoodleRate)
	}
	l := NewRequestLimiter(cfg.DoodleRate, time.Minute)
	defer l.Stop()
	for i := 0; i < 200; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d was limited", i)
		}
	}
}

func TestOpenSource(t *testing.T) {
	if _, err := OpenSource(SiteConfig{ContentDir: filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Fatal("expected an error for a missing content dir")
	}
	src, err := OpenSource(SiteConfig{ContentDir: t.TempDir(), ContentURL: "https://content.test/site"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*content.HTTPSource); !ok {
		t.Fatalf("ContentURL should win, got %T", src)
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://folio.test", nil, "https://folio.test/"},
		{"https://folio.test/", []string{"project", "vial"}, "https://folio.test/project/vial/"},
		{"https://folio.test/sub", []string{"position", "a"}, "https://folio.test/sub/position/a/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}
