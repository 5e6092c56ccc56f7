package analyze

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mverbeek/sitegauge/internal/model"
)

// analyticsMarkers are substrings identifying common analytics tags in
// script sources or inline bodies.
var analyticsMarkers = []string{
	"googletagmanager.com",
	"google-analytics.com",
	"gtag(",
	"gtm.js",
	"plausible.io",
	"matomo",
	"_paq",
	"fbq(",
	"hotjar",
	"clarity.ms",
}

// consentMarkers suggest a consent/cookie management widget in id or class
// attributes.
var consentMarkers = []string{"cookie", "consent", "cmp", "gdpr", "avg"}

func extractAnalyticsConsent(doc *goquery.Document) model.AnalyticsConsentMetrics {
	hasAnalytics := false
	hasDataLayer := false
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		content := strings.ToLower(s.AttrOr("src", "") + " " + s.Text())
		for _, marker := range analyticsMarkers {
			if strings.Contains(content, marker) {
				hasAnalytics = true
				break
			}
		}
		if strings.Contains(content, "datalayer") {
			hasDataLayer = true
		}
	})

	consentWidgets := 0
	doc.Find("div, section, aside, dialog").Each(func(_ int, s *goquery.Selection) {
		if attrContainsAny(s, consentMarkers) {
			consentWidgets++
		}
	})

	cookieLinks := 0
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href := strings.ToLower(s.AttrOr("href", ""))
		text := strings.ToLower(s.Text())
		if strings.Contains(href, "cookie") || strings.Contains(text, "cookie") {
			cookieLinks++
		}
	})

	return model.AnalyticsConsentMetrics{
		HasAnalytics:       hasAnalytics,
		HasDataLayer:       hasDataLayer,
		ConsentWidgetCount: consentWidgets,
		CookieLinkCount:    cookieLinks,
	}
}
