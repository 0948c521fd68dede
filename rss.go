package folio

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	Category    string `xml:"category,omitempty"`
	GUID        string `xml:"guid"`
}

// yearDate turns a "2021" or "2019 - 2021" year field into the first of
// January of the last year mentioned.
func yearDate(year string) string {
	fields := strings.FieldsFunc(year, func(r rune) bool { return r < '0' || r > '9' })
	for i := len(fields) - 1; i >= 0; i-- {
		if t, err := time.Parse("2006", fields[i]); err == nil {
			return t.Format(time.RFC1123Z)
		}
	}
	return ""
}

func feedItems(base string, positions []content.Position) []rssItem {
	var items []rssItem
	for _, p := range positions {
		for _, pr := range p.Projects {
			year := pr.Year
			if year == "" {
				year = p.Year
			}
			link := BuildURL(base, "project", pr.ID)
			items = append(items, rssItem{
				Title:       pr.Title,
				Link:        link,
				Description: markdown.Plain(pr.Description, 300),
				PubDate:     yearDate(year),
				Category:    p.Title,
				GUID:        link,
			})
		}
	}
	return items
}

func (a *App) renderRSS(c echo.Context, positions []content.Position) error {
	base := a.Config.URL
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        BuildURL(base),
			Description: a.Config.Description,
			Items:       feedItems(base, positions),
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
