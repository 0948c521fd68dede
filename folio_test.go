package folio

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/doodle"
)

const testPositions = `[
  {"id": "solo", "title": "Freelance", "company": "Self", "year": "2021", "description": "Odd jobs", "projects": []},
  {"id": "ncsu-cbl", "title": "Researcher", "company": "NCSU", "year": "2019 - 2023", "description": "Lab work",
   "projects": [{"id": "vial", "title": "Vial Project", "year": "2022", "description": "A study of **vials**", "meta": {"type": "double"}}]}
]`

const vialDoc = `Intro to the vial study.

<!-- DOUBLE DIAMOND START -->
## Discover
Found things.
## Define
Framed things.
## Develop
Built things.
## Deliver
Shipped things.
## Reflect
Learned things.
<!-- DOUBLE DIAMOND END -->

Thanks for reading.`

const testCatalogYAML = `base_path: assets/img
positions:
  ncsu-cbl: cbl
categories:
  - key: cbl
    images: [cbl_vial.png, cbl_glasses.png]
  - key: red
    images: [red_star.svg]
`

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testContent(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"positions.json":             {Data: []byte(testPositions)},
		"about.md":                   {Data: []byte("I draw **doodles**.")},
		"projects/vial/meta.json":    {Data: []byte(`{"type": "double", "title": "Vial", "parentPositionTitle": "Researcher"}`)},
		"projects/vial/content.md":   {Data: []byte(vialDoc)},
		"projects/notes/meta.json":   {Data: []byte(`{"type": "single"}`)},
		"projects/notes/content.md":  {Data: []byte("Plain notes.")},
		"projects/solo/content.md":   {Data: []byte("Solo **work** for hire.")},
		"assets/img/cbl_vial.png":    {Data: testPNG(t, 400, 200)},
		"assets/img/cbl_glasses.png": {Data: testPNG(t, 60, 30)},
		"assets/img/red_star.svg":    {Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)},
	}
}

// brokenSource fails reads of one path with an upstream error.
type brokenSource struct {
	content.Source
	broken string
}

func (s brokenSource) Read(ctx context.Context, p string) ([]byte, error) {
	if p == s.broken {
		return nil, &content.FetchError{Path: p, Status: http.StatusInternalServerError, Err: errors.New("upstream")}
	}
	return s.Source.Read(ctx, p)
}

func newTestApp(t *testing.T, src content.Source, opts ...Option) *App {
	t.Helper()
	catalog, err := doodle.ParseCatalog([]byte(testCatalogYAML))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	cfg := SiteConfig{
		Name:          "Folio",
		URL:           "https://folio.test",
		Author:        "Ada",
		Description:   "Designer & researcher",
		SessionSecret: "0123456789abcdef0123456789abcdef",
		DoodleRate:    100,
	}
	base := []Option{
		WithSource(src),
		WithCatalog(catalog),
		WithLogger(log.New(io.Discard)),
		WithStaticDir(t.TempDir()),
		WithRand(func() doodle.Rand { return rand.New(rand.NewPCG(1, 2)) }),
	}
	a := New(cfg, append(base, opts...)...)
	if err := a.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func get(a *App, target string, htmx bool, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func viewURL(hash string) string {
	return "/view/?hash=" + url.QueryEscape(hash)
}

func navCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", sessionName)
	return nil
}

func TestHomeFullPage(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})
	rec := get(a, "/", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<main id="app">`,
		`<title>Folio</title>`,
		`id="card-ncsu-cbl" href="/position/ncsu-cbl/" data-hash="#/position/ncsu-cbl" data-exit>`,
		`id="card-solo" href="/position/solo/" data-hash="#/position/solo">`,
		`<p class="card-meta">NCSU · 2019 - 2023</p>`,
		`<strong>doodles</strong>`,
		`data-exit-plan="{`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("home missing %s", want)
		}
	}
	navCookie(t, rec)
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

// Clicking a position without projects shows the position itself;
// a position with one project shows a one-card grid.
func TestPositionClickSemantics(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})

	rec := get(a, viewURL("#/position/solo"), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("solo status = %d", rec.Code)
	}
	solo := rec.Body.String()
	if !strings.Contains(solo, "detail-view") || !strings.Contains(solo, "<strong>work</strong>") {
		t.Fatalf("solo should render as a detail view: %s", solo)
	}
	if strings.Contains(solo, "<html") {
		t.Fatal("fragment should not carry the layout")
	}

	rec = get(a, viewURL("#/position/ncsu-cbl"), true)
	list := rec.Body.String()
	if !strings.Contains(list, "project-list-view") {
		t.Fatalf("ncsu-cbl should render a project list: %s", list)
	}
	if n := strings.Count(list, `class="entry-card"`); n != 1 {
		t.Fatalf("got %d cards, want 1", n)
	}
	if !strings.Contains(list, `data-hash="#/project/vial"`) {
		t.Fatal("project card should link to the project")
	}
	if !strings.Contains(list, `/doodles/layer/?category=cbl&amp;gen=`) {
		t.Fatal("position view should load its doodle category")
	}
}

func TestPositionWithoutDocumentUsesDescription(t *testing.T) {
	fsys := testContent(t)
	delete(fsys, "projects/solo/content.md")
	a := newTestApp(t, content.FSSource{FS: fsys})
	body := get(a, "/position/solo/", false).Body.String()
	if !strings.Contains(body, "Odd jobs") {
		t.Fatalf("description fallback missing: %s", body)
	}
}

func TestUnknownHashFallsBackHome(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})
	body := get(a, viewURL("#/unknown/thing"), true).Body.String()
	if !strings.Contains(body, "home-view") {
		t.Fatalf("unknown route should render home: %s", body)
	}
}

func TestProjectPage(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})
	rec := get(a, "/project/vial/", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<title>Vial | Folio</title>`,
		`<a class="back-link" href="#/position/ncsu-cbl">`,
		"Intro to the vial study.",
		`id="phase-dot-0" class="phase-dot active"`,
		`id="phase-src-text-4"`,
		"Thanks for reading.",
		`"@type":"CreativeWork"`,
		`class="doodle-loader" hidden data-doodle-url="/doodles/layer/?gen=`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("project page missing %s", want)
		}
	}
}

func TestProjectPhaseQueryWithoutScript(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})
	body := get(a, "/project/vial/?phase=2", false).Body.String()
	if !strings.Contains(body, `id="phase-dot-2" class="phase-dot active"`) {
		t.Fatalf("phase 2 should be active: %s", body)
	}
}

func TestErrorStatus(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})

	rec := get(a, "/project/missing/", false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing project status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `role="alert"`) {
		t.Fatal("missing project should render the inline error")
	}

	rec = get(a, viewURL("#/project/missing"), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("fragment status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error-view") {
		t.Fatal("fragment should carry the error panel")
	}

	broken := newTestApp(t, brokenSource{Source: content.FSSource{FS: testContent(t)}, broken: "projects/vial/meta.json"})
	rec = get(broken, "/project/vial/", false)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("upstream failure status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "status 500") {
		t.Fatalf("error text missing: %s", rec.Body.String())
	}
}

func TestUnknownPathIsNotFoundPage(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})
	rec := get(a, "/nope/", false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Page not found") {
		t.Fatal("not found page missing")
	}
}

func TestStaleDoodleLayerIsDiscarded(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})

	first := get(a, viewURL("#/"), true)
	older := navCookie(t, first)
	second := get(a, viewURL("#/position/ncsu-cbl"), true, older)
	latest := navCookie(t, second)
	gen := a.nav.Current()

	rec := get(a, "/doodles/layer/?gen="+strconv.FormatUint(uint64(gen-1), 10), true, latest)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("stale layer status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Fatal("stale layer should not swap")
	}

	rec = get(a, "/doodles/layer/?category=cbl&gen="+strconv.FormatUint(uint64(gen), 10), true, latest)
	if rec.Code != http.StatusOK {
		t.Fatalf("current layer status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `class="background-doodle"`) {
		t.Fatalf("no doodles placed: %s", body)
	}
	if strings.Contains(body, "red_star") {
		t.Fatal("layer ignored the category")
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestNavigationCookieSurvivesRestart(t *testing.T) {
	src := content.FSSource{FS: testContent(t)}
	before := newTestApp(t, src)
	cookie := navCookie(t, get(before, viewURL("#/"), true))
	for i := 0; i < 5; i++ {
		cookie = navCookie(t, get(before, viewURL("#/"), true, cookie))
	}
	if before.nav.Current() != 6 {
		t.Fatalf("first process current = %d", before.nav.Current())
	}

	// Same secret, fresh counter.
	after := newTestApp(t, src)
	rec := get(after, "/position/ncsu-cbl/", false, cookie)
	gen := after.nav.Current()
	if gen <= 6 {
		t.Fatalf("navigation after restart got generation %d, want above the cookie's 6", gen)
	}
	if !strings.Contains(rec.Body.String(), "gen="+strconv.FormatUint(uint64(gen), 10)) {
		t.Fatal("page should hand its generation to the doodle loader")
	}
	latest := navCookie(t, rec)

	layer := get(after, "/doodles/layer/?category=cbl&gen="+strconv.FormatUint(uint64(gen), 10), true, latest)
	if layer.Code != http.StatusOK {
		t.Fatalf("doodle layer after restart status = %d, want 200", layer.Code)
	}
	phase := get(after, "/project/vial/phase/?dir=next&from=0&gen="+strconv.FormatUint(uint64(gen), 10), true, latest)
	if phase.Code != http.StatusOK {
		t.Fatalf("phase step after restart status = %d, want 200", phase.Code)
	}
	if stale := get(after, "/project/vial/phase/?dir=next&from=0&gen=6", true, latest); stale.Code != http.StatusNoContent {
		t.Fatalf("superseded phase step status = %d, want 204", stale.Code)
	}
}

func TestDoodleLayerWithoutCookieIsCurrent(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})
	rec := get(a, "/doodles/layer/?gen=9&w=800&h=600", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := get(a, "/doodles/layer/?gen=abc", true); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad generation status = %d", rec.Code)
	}
}

func TestDoodleLayerRateLimit(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})
	a.doodleLimiter.Stop()
	a.doodleLimiter = NewRequestLimiter(1, time.Minute)

	if rec := get(a, "/doodles/layer/", true); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	if rec := get(a, "/doodles/layer/", true); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
}

func TestPhaseEndpoint(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})

	rec := get(a, "/project/vial/phase/?dir=next&from=0&front=%23phase-img-a", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<script type="application/json" class="motion-plan">`,
		`"source":"#phase-src-text-1"`,
		`"source":"#phase-src-img-1"`,
		`hx-swap-oob="true"`,
		`front=%23phase-img-b`,
		`href="/project/vial/?phase=2"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("phase step missing %s", want)
		}
	}

	rec = get(a, "/project/vial/phase/?dir=prev&from=0", true)
	if !strings.Contains(rec.Body.String(), `"source":"#phase-src-text-4"`) {
		t.Fatal("prev from 0 should wrap to the last phase")
	}

	if rec := get(a, "/project/vial/phase/?dir=sideways&from=0", true); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad dir status = %d", rec.Code)
	}
	if rec := get(a, "/project/notes/phase/?dir=next&from=0", true); rec.Code != http.StatusNotFound {
		t.Fatalf("single project status = %d", rec.Code)
	}
}

func TestDoodleImages(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})

	rec := get(a, "/doodles/img/cbl_vial.png", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w := img.Bounds().Dx(); w != 140 {
		t.Fatalf("width = %d, want 140", w)
	}

	small := get(a, "/doodles/img/cbl_glasses.png", false)
	if img, err := png.Decode(small.Body); err != nil || img.Bounds().Dx() != 60 {
		t.Fatalf("small doodle should pass through unchanged: %v", err)
	}

	svg := get(a, "/doodles/img/red_star.svg", false)
	if ct := svg.Header().Get("Content-Type"); !strings.HasPrefix(ct, "image/svg+xml") {
		t.Fatalf("svg content type = %q", ct)
	}

	if rec := get(a, "/doodles/img/positions.json", false); rec.Code != http.StatusNotFound {
		t.Fatalf("non-catalog file status = %d", rec.Code)
	}
}

func TestAssets(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})
	rec := get(a, "/assets/img/red_star.svg", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := get(a, "/assets/../positions.json", false); rec.Code != http.StatusNotFound {
		t.Fatalf("traversal status = %d", rec.Code)
	}
}

func TestSitemapAndFeed(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})

	sitemap := get(a, "/sitemap.xml", false).Body.String()
	for _, want := range []string{
		"<loc>https://folio.test/</loc>",
		"<loc>https://folio.test/position/ncsu-cbl/</loc>",
		"<loc>https://folio.test/project/vial/</loc>",
	} {
		if !strings.Contains(sitemap, want) {
			t.Errorf("sitemap missing %s", want)
		}
	}

	feed := get(a, "/feed.xml", false).Body.String()
	for _, want := range []string{
		"<title>Vial Project</title>",
		"<description>A study of vials</description>",
		"<category>Researcher</category>",
		"<pubDate>Sat, 01 Jan 2022 00:00:00 +0000</pubDate>",
	} {
		if !strings.Contains(feed, want) {
			t.Errorf("feed missing %s", want)
		}
	}
}

func TestRobotsFallback(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})
	body := get(a, "/robots.txt", false).Body.String()
	if !strings.Contains(body, "Sitemap: https://folio.test/sitemap.xml") {
		t.Fatalf("robots = %q", body)
	}
}

func TestEmbeddedClientAssets(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)})
	for _, p := range []string{"/public/folio.js", "/public/folio.css"} {
		rec := get(a, p, false)
		if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
			t.Errorf("%s status = %d", p, rec.Code)
		}
	}
}

func TestCheckContent(t *testing.T) {
	catalog, err := doodle.ParseCatalog([]byte(testCatalogYAML))
	if err != nil {
		t.Fatal(err)
	}
	repo := content.NewRepository(content.FSSource{FS: testContent(t)})
	findings, err := CheckContent(context.Background(), repo, catalog)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	// Worst severity per subject.
	got := make(map[string]Severity)
	for _, f := range findings {
		if cur, ok := got[f.Subject]; !ok || f.Severity > cur {
			got[f.Subject] = f.Severity
		}
	}
	if got["solo"] != SeverityWarning {
		t.Errorf("solo has no doodle category and should warn, got %v", got["solo"])
	}
	if s, ok := got["vial"]; !ok || s != SeverityOK {
		t.Errorf("vial = %v, want ok", s)
	}

	fsys := testContent(t)
	fsys["projects/vial/content.md"] = &fstest.MapFile{Data: []byte("<!-- DOUBLE DIAMOND START -->\n## Only one\n")}
	findings, err = CheckContent(context.Background(), content.NewRepository(content.FSSource{FS: fsys}), catalog)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range findings {
		if f.Subject == "vial" && f.Severity != SeverityWarning {
			t.Fatalf("phase mismatch should warn: %+v", f)
		}
	}

	stale, err := doodle.ParseCatalog([]byte("base_path: assets/img\npositions:\n  ghost: red\ncategories:\n  - key: red\n    images: [red_star.svg, red_gone.svg]\n"))
	if err != nil {
		t.Fatal(err)
	}
	findings, err = CheckContent(context.Background(), repo, stale)
	if err != nil {
		t.Fatal(err)
	}
	got = make(map[string]Severity)
	for _, f := range findings {
		got[f.Subject] = f.Severity
	}
	if got["ghost"] != SeverityWarning {
		t.Errorf("unknown catalog position should warn, got %v", got["ghost"])
	}
	if got["assets/img/red_gone.svg"] != SeverityError {
		t.Errorf("missing doodle image should be an error, got %v", got["assets/img/red_gone.svg"])
	}
	if _, ok := got["assets/img/red_star.svg"]; ok {
		t.Error("present doodle image should not be reported")
	}
}

func TestCustomRoutes(t *testing.T) {
	a := newTestApp(t, content.FSSource{FS: testContent(t)}, WithCustomRoutes(func(a *App) {
		a.Echo.GET("/healthz/", func(c echo.Context) error {
			return c.String(http.StatusOK, a.Config.Name)
		})
	}))
	rec := get(a, "/healthz/", false)
	if rec.Code != http.StatusOK || rec.Body.String() != "Folio" {
		t.Fatalf("custom route: %d %q", rec.Code, rec.Body.String())
	}
}

func TestInvalidDoodleConfig(t *testing.T) {
	cfg := doodle.DefaultConfig()
	cfg.Rows = 0
	a := New(SiteConfig{}, WithSource(content.FSSource{FS: testContent(t)}), WithLogger(log.New(io.Discard)), WithDoodleConfig(cfg))
	t.Cleanup(func() { a.Close() })
	if err := a.Setup(); err == nil {
		t.Fatal("expected Setup to reject a grid without rows")
	}
}
