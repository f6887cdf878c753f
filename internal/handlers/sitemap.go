package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var sitemapStaticPages = []string{"/", "/products", "/cart", "/login", "/register"}

type sitemapEntry struct {
	Slug      string    `bson:"slug"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func buildSitemap(baseURL string, entries []sitemapEntry, now time.Time) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n")

	for _, page := range sitemapStaticPages {
		priority := "0.8"
		if page == "/" {
			priority = "1.0"
		}
		fmt.Fprintf(&b, "  <url>\n    <loc>%s%s</loc>\n    <changefreq>daily</changefreq>\n    <priority>%s</priority>\n  </url>\n", baseURL, page, priority)
	}

	for _, entry := range entries {
		lastmod := entry.UpdatedAt
		if lastmod.IsZero() {
			lastmod = now
		}
		fmt.Fprintf(&b, "  <url>\n    <loc>%s/products/%s</loc>\n    <lastmod>%s</lastmod>\n    <changefreq>weekly</changefreq>\n    <priority>0.9</priority>\n  </url>\n", baseURL, entry.Slug, lastmod.Format("2006-01-02"))
	}

	b.WriteString("</urlset>")
	return b.String()
}

func Sitemap(db *mongo.Database, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /sitemap.xml"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, bson.M{"isActive": true},
			options.Find().SetProjection(bson.M{"slug": 1, "updatedAt": 1}))
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		defer cursor.Close(ctx)

		var entries []sitemapEntry
		if err := cursor.All(ctx, &entries); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}

		c.Header("Content-Type", "application/xml")
		c.String(http.StatusOK, buildSitemap(baseURL, entries, time.Now()))
	}
}

func Robots(baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		robots := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin\nDisallow: /dashboard\nDisallow: /checkout\n\nSitemap: %s/sitemap.xml", baseURL)
		c.String(http.StatusOK, robots)
	}
}

func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	}
}
