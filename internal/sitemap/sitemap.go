// Package sitemap generates the sitemap.xml served to search engines:
// the static site pages plus one entry per approved resource.
package sitemap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flithub-ie/flithub-go/internal/storage"
)

// staticPages are the hand-curated site entries. Resource detail pages are
// appended from the database.
var staticPages = []struct {
	loc        string
	changefreq string
	priority   string
}{
	{"/", "weekly", "1.0"},
	{"/start-here", "monthly", "0.9"},
	{"/resources", "daily", "0.9"},
	{"/providers", "weekly", "0.8"},
}

// Generator renders sitemaps for a site rooted at SiteURL.
type Generator struct {
	db      *storage.DB
	siteURL string
}

// New creates a sitemap generator. siteURL must not have a trailing slash.
func New(db *storage.DB, siteURL string) *Generator {
	return &Generator{db: db, siteURL: strings.TrimSuffix(siteURL, "/")}
}

// Generate renders the sitemap XML. Only approved resources are listed;
// lastmod falls back to today when a record has no usable timestamp.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	resources, err := g.db.ListResources(ctx, storage.ResourceFilter{})
	if err != nil {
		return "", fmt.Errorf("fetch resources: %w", err)
	}

	today := time.Now().UTC().Format("2006-01-02")

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n")

	for _, page := range staticPages {
		writeURL(&b, g.siteURL+page.loc, today, page.changefreq, page.priority)
	}

	for _, r := range resources {
		lastmod := today
		if t, err := time.Parse(time.RFC3339, r.UpdatedAt); err == nil {
			lastmod = t.UTC().Format("2006-01-02")
		}
		writeURL(&b, fmt.Sprintf("%s/resources/%s", g.siteURL, r.ID), lastmod, "weekly", "0.7")
	}

	b.WriteString("</urlset>")
	return b.String(), nil
}

func writeURL(b *strings.Builder, loc, lastmod, changefreq, priority string) {
	b.WriteString("  <url>\n")
	fmt.Fprintf(b, "    <loc>%s</loc>\n", loc)
	fmt.Fprintf(b, "    <lastmod>%s</lastmod>\n", lastmod)
	fmt.Fprintf(b, "    <changefreq>%s</changefreq>\n", changefreq)
	fmt.Fprintf(b, "    <priority>%s</priority>\n", priority)
	b.WriteString("  </url>\n")
}
