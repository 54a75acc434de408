// Package sitemap renders the crawl feed: every published app and active
// category, in every supported locale, plus the static pages.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/trustmrr/catalog/internal/db"
	"github.com/trustmrr/catalog/internal/i18n"
)

// URL is one sitemap entry.
type URL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

// URLSet is the sitemap document root.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

type staticPage struct {
	path       string
	changeFreq string
	priority   float64
}

var staticPages = []staticPage{
	{"", "daily", 1.0},
	{"apps", "daily", 0.9},
	{"categories", "weekly", 0.8},
	{"about", "monthly", 0.5},
}

// Build assembles the full sitemap from the current catalog contents.
func Build(baseURL string, now time.Time, apps, categories []db.SiteRef) URLSet {
	base := strings.TrimSuffix(baseURL, "/")
	urls := make([]URL, 0, len(i18n.Locales)*(len(staticPages)+len(apps)+len(categories)))

	today := now.Format("2006-01-02")
	for _, locale := range i18n.Locales {
		for _, p := range staticPages {
			loc := fmt.Sprintf("%s/%s", base, locale)
			if p.path != "" {
				loc += "/" + p.path
			}
			urls = append(urls, URL{
				Loc:        loc,
				LastMod:    today,
				ChangeFreq: p.changeFreq,
				Priority:   p.priority,
			})
		}
	}

	for _, app := range apps {
		for _, locale := range i18n.Locales {
			urls = append(urls, URL{
				Loc:        fmt.Sprintf("%s/%s/apps/%s", base, locale, app.Slug),
				LastMod:    app.UpdatedAt.Format("2006-01-02"),
				ChangeFreq: "weekly",
				Priority:   0.8,
			})
		}
	}

	for _, c := range categories {
		for _, locale := range i18n.Locales {
			urls = append(urls, URL{
				Loc:        fmt.Sprintf("%s/%s/categories/%s", base, locale, c.Slug),
				LastMod:    c.UpdatedAt.Format("2006-01-02"),
				ChangeFreq: "weekly",
				Priority:   0.7,
			})
		}
	}

	return URLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

// Render serializes the URL set as a sitemap XML document.
func Render(set URLSet) ([]byte, error) {
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap failed: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
