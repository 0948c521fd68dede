package views

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/folio/diamond"
	"github.com/eringen/folio/doodle"
	"github.com/eringen/folio/motion"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func TestLayoutShell(t *testing.T) {
	site := SiteConfig{Name: "Folio", Description: "Designer"}
	got := render(t, Layout(site, PageMeta{Title: "Vial", URL: "https://x.test/project/vial/"}, ProfileJsonLD(site), templ.NopComponent))
	for _, want := range []string{
		`<title>Vial | Folio</title>`,
		`<div id="doodle-background" aria-hidden="true"></div><main id="app">`,
		`<link rel="canonical" href="https://x.test/project/vial/"/>`,
		`"@type":"ProfilePage"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("layout missing %s", want)
		}
	}
}

func TestHomeOrdering(t *testing.T) {
	got := render(t, Home(HomeData{
		Header: Header{Title: "Ada", Subtitle: "Designer & researcher"},
		Cards:  []Card{{ID: "ncsu-cbl", Title: "Researcher", Href: "/position/ncsu-cbl/", Hash: "#/position/ncsu-cbl", Exit: true}},
		About:  "About **me**",
		Nav:    Nav{Generation: 7},
	}))
	header := strings.Index(got, `<header class="title-area">`)
	gridAt := strings.Index(got, `<section class="entry-grid"`)
	about := strings.Index(got, `<aside class="about-panel">`)
	loader := strings.Index(got, `class="doodle-loader"`)
	if header < 0 || header > gridAt || gridAt > about || about > loader {
		t.Fatalf("unexpected order header=%d grid=%d about=%d loader=%d", header, gridAt, about, loader)
	}
	if !strings.Contains(got, `data-generation="7"`) || !strings.Contains(got, `/doodles/layer/?gen=7`) {
		t.Fatalf("generation missing: %s", got)
	}
	if !strings.Contains(got, "Designer &amp; researcher") {
		t.Fatal("subtitle not escaped")
	}
	if !strings.Contains(got, `data-hash="#/position/ncsu-cbl" data-exit>`) {
		t.Fatalf("card missing exit marker: %s", got)
	}
}

func TestGridCarriesExitPlan(t *testing.T) {
	s := motion.NewScript()
	motion.CardExit(s, motion.ClickedTarget, GridSelector, nil)
	got := render(t, ProjectList(ListData{Header: Header{Title: "Researcher", Back: "#/"}, ExitPlan: s.Plan()}))
	if !strings.Contains(got, `data-exit-plan="{&#34;steps&#34;:[`) {
		t.Fatalf("exit plan not attached: %s", got)
	}
	if !strings.Contains(got, `<a class="back-link" href="#/">`) {
		t.Fatal("back link missing")
	}
	if !strings.Contains(got, "Nothing here yet.") {
		t.Fatal("empty grid message missing")
	}
}

func TestErrorPanelKeepsHeader(t *testing.T) {
	got := render(t, ErrorPanel(ErrorData{Message: "fetch projects/x/meta.json: status 500"}))
	if !strings.Contains(got, "Something went wrong") || !strings.Contains(got, `role="alert"`) {
		t.Fatalf("error panel = %s", got)
	}
	if !strings.Contains(got, "status 500") {
		t.Fatal("error text missing")
	}
}

func TestPhaseFrame(t *testing.T) {
	phases, _ := diamond.Assemble(diamond.Document{}, diamond.Catalog(), nil)
	got := render(t, PhaseFrame("vial", phases, -1, Nav{Generation: 3}))
	for _, want := range []string{
		`id="phase-dot-4" class="phase-dot active"`,
		`id="phase-src-text-0"`,
		`id="phase-src-img-4"`,
		`src="/assets/img/phase_reflect.svg"`,
		`href="/project/vial/?phase=0"`,
		`data-phase-url="/project/vial/phase/?dir=next&amp;from=4&amp;front=%23phase-img-a&amp;gen=3"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("phase frame missing %s", want)
		}
	}
	if render(t, PhaseFrame("vial", nil, 0, Nav{})) != "" {
		t.Fatal("empty phases should render nothing")
	}
}

func TestPhaseStep(t *testing.T) {
	got := render(t, PhaseStep(PhaseStepData{Slug: "vial", Index: 1, Count: 5, Front: diamond.ImageSlotB, Plan: motion.Plan{}}))
	if !strings.HasPrefix(got, `<script type="application/json" class="motion-plan">{"steps":null,"total":0}</script>`) {
		t.Fatalf("plan script = %s", got)
	}
	if !strings.Contains(got, `hx-swap-oob="true"`) || !strings.Contains(got, "front=%23phase-img-b") {
		t.Fatalf("controls = %s", got)
	}
}

func TestDoodleLayer(t *testing.T) {
	got := render(t, DoodleLayer([]doodle.Instance{
		{Image: "assets/img/cbl_1.png", Top: 10, Left: 20.5, Rotation: -12.5, Scale: 0.8, Flipped: true, Phase: doodle.PhaseGrid},
	}, 70))
	want := `<img class="background-doodle" alt="" decoding="async" src="/doodles/img/cbl_1.png" style="top:10.0px;left:20.5px;width:70.0px;transform:rotate(-12.5deg) scale(0.80) scaleX(-1)" data-phase="grid"/>`
	if got != want {
		t.Fatalf("doodle layer\n got: %s\nwant: %s", got, want)
	}
}

func TestDoodleLoaderCategory(t *testing.T) {
	got := render(t, DoodleLoader(Nav{Generation: 2, Category: "cbl"}))
	if !strings.Contains(got, `data-doodle-url="/doodles/layer/?category=cbl&amp;gen=2"`) {
		t.Fatalf("loader = %s", got)
	}
}

func TestAssetURL(t *testing.T) {
	tests := map[string]string{
		"assets/img/a.svg":       "/assets/img/a.svg",
		"/public/a.svg":          "/public/a.svg",
		"https://cdn.test/a.svg": "https://cdn.test/a.svg",
		"":                       "",
	}
	for in, want := range tests {
		if got := AssetURL(in); got != want {
			t.Errorf("AssetURL(%q) = %q, want %q", in, got, want)
		}
	}
}
