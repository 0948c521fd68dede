package folio

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemapURLs lists the home page, every position and every project once.
func sitemapURLs(base string, positions []content.Position) []sitemapURL {
	urls := []sitemapURL{{Loc: BuildURL(base)}}
	seen := make(map[string]bool)
	for _, p := range positions {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "position", p.ID)})
		for _, pr := range p.Projects {
			if seen[pr.ID] {
				continue
			}
			seen[pr.ID] = true
			urls = append(urls, sitemapURL{Loc: BuildURL(base, "project", pr.ID)})
		}
	}
	return urls
}

func (a *App) renderSitemap(c echo.Context, positions []content.Position) error {
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  sitemapURLs(a.Config.URL, positions),
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
