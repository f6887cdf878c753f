package handlers

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSitemap(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []sitemapEntry{
		{Slug: "silk-scarf", UpdatedAt: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)},
		{Slug: "leather-tote"},
	}

	xml := buildSitemap("https://luxe.store", entries, now)

	if !strings.HasPrefix(xml, "<?xml") {
		t.Error("missing xml declaration")
	}
	for _, want := range []string{
		"<loc>https://luxe.store/</loc>",
		"<loc>https://luxe.store/products</loc>",
		"<loc>https://luxe.store/products/silk-scarf</loc>",
		"<lastmod>2025-05-20</lastmod>",
		"<loc>https://luxe.store/products/leather-tote</loc>",
		"<lastmod>2025-06-01</lastmod>",
		"</urlset>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}

	if strings.Count(xml, "<url>") != len(sitemapStaticPages)+len(entries) {
		t.Errorf("url count = %d, want %d", strings.Count(xml, "<url>"), len(sitemapStaticPages)+len(entries))
	}
}

func TestBuildSitemapNoProducts(t *testing.T) {
	xml := buildSitemap("https://luxe.store", nil, time.Now())
	if strings.Count(xml, "<url>") != len(sitemapStaticPages) {
		t.Error("static pages missing from empty catalog sitemap")
	}
}
