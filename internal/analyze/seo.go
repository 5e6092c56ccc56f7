package analyze

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mverbeek/sitegauge/internal/model"
)

func extractSEO(doc *goquery.Document, robotsSitemaps []string) model.SEOMetrics {
	title := strings.TrimSpace(doc.Find("title").First().Text())

	description := strings.TrimSpace(doc.Find(`meta[name="description"]`).First().AttrOr("content", ""))

	canonical := strings.TrimSpace(doc.Find(`link[rel="canonical"]`).First().AttrOr("href", ""))

	robotsMeta := strings.ToLower(doc.Find(`meta[name="robots"]`).First().AttrOr("content", ""))

	ogTitle := doc.Find(`meta[property="og:title"]`).First().AttrOr("content", "")
	ogDescription := doc.Find(`meta[property="og:description"]`).First().AttrOr("content", "")
	ogImage := doc.Find(`meta[property="og:image"]`).First().AttrOr("content", "")

	// Sitemap hints come from robots.txt plus any in-page links, deduped.
	sitemaps := append([]string(nil), robotsSitemaps...)
	seen := make(map[string]struct{}, len(sitemaps))
	for _, s := range sitemaps {
		seen[s] = struct{}{}
	}
	doc.Find(`a[href*="sitemap"], link[rel="sitemap"]`).Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		sitemaps = append(sitemaps, href)
	})

	return model.SEOMetrics{
		Title:                 title,
		TitleLength:           len([]rune(title)),
		HasMetaDescription:    description != "",
		MetaDescriptionLength: len([]rune(description)),
		Canonical:             canonical,
		RobotsNoindex:         strings.Contains(robotsMeta, "noindex"),
		RobotsNofollow:        strings.Contains(robotsMeta, "nofollow"),
		HreflangCount:         doc.Find(`link[rel="alternate"][hreflang]`).Length(),
		HasOGTitle:            ogTitle != "",
		HasOGDescription:      ogDescription != "",
		HasOGImage:            ogImage != "",
		Sitemaps:              sitemaps,
		H1Count:               doc.Find("h1").Length(),
	}
}
