package analyze_test

import (
	"strings"
	"testing"

	"github.com/mverbeek/sitegauge/internal/analyze"
)

const pageURL = "https://example.com/"

func TestRun_SEOMetrics(t *testing.T) {
	t.Parallel()

	html := `<!doctype html>
<html>
<head>
  <title>Quality garden furniture, delivered fast</title>
  <meta name="description" content="Handmade garden furniture with free delivery across the Netherlands.">
  <meta name="robots" content="noindex, nofollow">
  <link rel="canonical" href="https://example.com/">
  <link rel="alternate" hreflang="nl" href="https://example.com/nl/">
  <link rel="alternate" hreflang="en" href="https://example.com/en/">
  <meta property="og:title" content="Garden furniture">
  <meta property="og:description" content="Handmade.">
  <meta property="og:image" content="https://example.com/og.png">
</head>
<body>
  <h1>Garden furniture</h1>
  <h1>Second heading</h1>
  <a href="/sitemap.xml">Sitemap</a>
</body>
</html>`

	bundle, _, _, err := analyze.Run(html, pageURL, []string{"https://example.com/sitemap.xml"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	seo := bundle.SEO
	if seo.Title != "Quality garden furniture, delivered fast" {
		t.Errorf("title: got %q", seo.Title)
	}
	if seo.TitleLength != len("Quality garden furniture, delivered fast") {
		t.Errorf("title length: got %d", seo.TitleLength)
	}
	if !seo.HasMetaDescription {
		t.Error("expected meta description to be detected")
	}
	if seo.Canonical != "https://example.com/" {
		t.Errorf("canonical: got %q", seo.Canonical)
	}
	if !seo.RobotsNoindex || !seo.RobotsNofollow {
		t.Error("expected noindex and nofollow flags")
	}
	if seo.HreflangCount != 2 {
		t.Errorf("hreflang count: got %d, want 2", seo.HreflangCount)
	}
	if !seo.HasOGTitle || !seo.HasOGDescription || !seo.HasOGImage {
		t.Error("expected complete Open Graph set")
	}
	if seo.H1Count != 2 {
		t.Errorf("h1 count: got %d, want 2", seo.H1Count)
	}
	// robots.txt sitemap and the deduped in-page hint
	if len(seo.Sitemaps) != 2 {
		t.Errorf("sitemaps: got %v", seo.Sitemaps)
	}
}

func TestRun_AltRatioWithoutImagesIsOne(t *testing.T) {
	t.Parallel()

	bundle, _, _, err := analyze.Run("<html><body><p>no images here</p></body></html>", pageURL, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := bundle.Accessibility.AltRatio; got != 1 {
		t.Errorf("altRatio with zero images: got %v, want 1", got)
	}
	if bundle.Accessibility.ImageCount != 0 {
		t.Errorf("image count: got %d, want 0", bundle.Accessibility.ImageCount)
	}
}

func TestRun_AccessibilityMetrics(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<main>
  <img src="a.png" alt="A chair">
  <img src="b.png">
  <img src="c.png" alt="">
  <img src="d.png" alt="A table">
  <form>
    <label for="email">Email</label><input id="email" type="email">
    <label>Name <input type="text"></label>
    <input type="search" aria-label="Search the site">
    <input type="tel">
    <input type="hidden" name="csrf">
  </form>
  <a href="/1">&gt;</a>
  <a href="/2">go</a>
  <a href="/3" aria-label="Next page">&gt;</a>
  <a href="/4">Read the full story</a>
</main>
</body></html>`

	bundle, _, _, err := analyze.Run(html, pageURL, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	a11y := bundle.Accessibility
	if a11y.ImageCount != 4 {
		t.Errorf("image count: got %d, want 4", a11y.ImageCount)
	}
	if a11y.AltRatio != 0.5 {
		t.Errorf("altRatio: got %v, want 0.5", a11y.AltRatio)
	}
	if !a11y.HasMainLandmark {
		t.Error("expected main landmark")
	}
	if a11y.FormControlCount != 4 {
		t.Errorf("form control count: got %d, want 4 (hidden input excluded)", a11y.FormControlCount)
	}
	if a11y.LabelCoverage != 0.75 {
		t.Errorf("label coverage: got %v, want 0.75", a11y.LabelCoverage)
	}
	// ">" and "go" are short; the aria-labeled ">" is not counted.
	if a11y.ShortAnchorCount != 2 {
		t.Errorf("short anchors: got %d, want 2", a11y.ShortAnchorCount)
	}
}

func TestRun_PerformanceMetricsAndWarning(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString(`<html><head>
<link rel="stylesheet" href="/a.css">
<link rel="stylesheet" href="/b.css">
<link rel="preload" href="/font.woff2" as="font">
<link rel="preconnect" href="https://cdn.example.com">
<style>body{margin:0}</style>
<script src="/app.js"></script>
<script>`)
	sb.WriteString(strings.Repeat("x", 60000))
	sb.WriteString(`</script>
</head><body>
<img src="/tiny.png">
<img src="/a-much-longer-image-path/with/segments/hero-banner-3840x2160.jpg">
<div style="color:red">inline styled</div>
</body></html>`)

	bundle, totals, warnings, err := analyze.Run(sb.String(), pageURL, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	perf := bundle.Performance
	if perf.ScriptCount != 2 {
		t.Errorf("script count: got %d, want 2", perf.ScriptCount)
	}
	if perf.InlineScriptChars != 60000 {
		t.Errorf("inline script chars: got %d, want 60000", perf.InlineScriptChars)
	}
	if perf.StylesheetCount != 2 {
		t.Errorf("stylesheet count: got %d, want 2", perf.StylesheetCount)
	}
	if perf.PreloadCount != 1 || perf.PreconnectCount != 1 {
		t.Errorf("hints: preload %d preconnect %d", perf.PreloadCount, perf.PreconnectCount)
	}
	want := len("/a-much-longer-image-path/with/segments/hero-banner-3840x2160.jpg")
	if perf.LargestImageSrcLength != want {
		t.Errorf("largest image src length: got %d, want %d", perf.LargestImageSrcLength, want)
	}

	if totals.Scripts != 2 || totals.Stylesheets != 2 || totals.Images != 2 {
		t.Errorf("totals: %+v", totals)
	}

	found := false
	for _, w := range warnings {
		if strings.Contains(w, "inline scripts") || strings.Contains(w, "Inline scripts") ||
			strings.Contains(w, "60000") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected inline-script warning, got %v", warnings)
	}
}

func TestRun_AnalyticsConsentMetrics(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<script src="https://www.googletagmanager.com/gtag/js?id=G-XYZ"></script>
<script>window.dataLayer = window.dataLayer || []; function gtag(){dataLayer.push(arguments);}</script>
</head><body>
<div id="cookie-consent-banner">We use cookies</div>
<a href="/cookie-policy">Cookie policy</a>
<a href="/privacy">Privacy</a>
</body></html>`

	bundle, _, _, err := analyze.Run(html, pageURL, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	ac := bundle.AnalyticsConsent
	if !ac.HasAnalytics {
		t.Error("expected analytics detection")
	}
	if !ac.HasDataLayer {
		t.Error("expected data layer detection")
	}
	if ac.ConsentWidgetCount != 1 {
		t.Errorf("consent widgets: got %d, want 1", ac.ConsentWidgetCount)
	}
	if ac.CookieLinkCount != 1 {
		t.Errorf("cookie links: got %d, want 1", ac.CookieLinkCount)
	}
}

func TestRun_CROUXMetrics(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<h1>Summer sale</h1>
<h2>Summer sale</h2>
<a href="/pricing" class="btn-primary">View pricing</a>
<a href="/contact">Neem contact op</a>
<a href="/blog">Blog</a>
<button>Bestel nu</button>
<div class="modal" id="newsletter-modal">Subscribe</div>
<div class="cookie-overlay">Cookies</div>
</body></html>`

	bundle, _, _, err := analyze.Run(html, pageURL, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	cro := bundle.CROUX
	if cro.CTACount != 3 {
		t.Errorf("cta count: got %d, want 3", cro.CTACount)
	}
	if cro.InteractiveSample != 4 {
		t.Errorf("interactive sample: got %d, want 4", cro.InteractiveSample)
	}
	if !cro.DuplicateHeadings {
		t.Error("expected duplicate heading detection")
	}
	if cro.ModalCount != 2 {
		t.Errorf("modal count: got %d, want 2", cro.ModalCount)
	}
}
