package model

// MetricsBundle aggregates the five extractor records. Each record is flat,
// purely derived data; extractors never mutate another's output.
type MetricsBundle struct {
	SEO              SEOMetrics              `json:"seo"`
	Accessibility    AccessibilityMetrics    `json:"accessibility"`
	Performance      PerformanceMetrics      `json:"performance"`
	AnalyticsConsent AnalyticsConsentMetrics `json:"analyticsConsent"`
	CROUX            CROUXMetrics            `json:"croUx"`
}

// SEOMetrics covers title, meta description, canonical, robots meta,
// hreflang, Open Graph and heading structure.
type SEOMetrics struct {
	Title                 string   `json:"title"`
	TitleLength           int      `json:"titleLength"`
	HasMetaDescription    bool     `json:"hasMetaDescription"`
	MetaDescriptionLength int      `json:"metaDescriptionLength"`
	Canonical             string   `json:"canonical"`
	RobotsNoindex         bool     `json:"robotsNoindex"`
	RobotsNofollow        bool     `json:"robotsNofollow"`
	HreflangCount         int      `json:"hreflangCount"`
	HasOGTitle            bool     `json:"hasOgTitle"`
	HasOGDescription      bool     `json:"hasOgDescription"`
	HasOGImage            bool     `json:"hasOgImage"`
	Sitemaps              []string `json:"sitemaps"`
	H1Count               int      `json:"h1Count"`
}

// AccessibilityMetrics covers alt-text coverage, landmarks, form labeling
// and link text quality.
type AccessibilityMetrics struct {
	ImageCount int `json:"imageCount"`
	// AltRatio is the share of images carrying non-empty alt text. Defined
	// as 1 when the document has no images.
	AltRatio         float64 `json:"altRatio"`
	HasMainLandmark  bool    `json:"hasMainLandmark"`
	FormControlCount int     `json:"formControlCount"`
	// LabelCoverage is the share of form controls reachable through a
	// label[for], an ancestor label or an aria label. 1 when there are no
	// form controls.
	LabelCoverage    float64 `json:"labelCoverage"`
	AnchorCount      int     `json:"anchorCount"`
	ShortAnchorCount int     `json:"shortAnchorCount"`
}

// PerformanceMetrics are crude static weight proxies taken from markup only.
type PerformanceMetrics struct {
	ScriptCount           int `json:"scriptCount"`
	InlineScriptChars     int `json:"inlineScriptChars"`
	StylesheetCount       int `json:"stylesheetCount"`
	InlineStyleCount      int `json:"inlineStyleCount"`
	LargestImageSrcLength int `json:"largestImageSrcLength"`
	PreloadCount          int `json:"preloadCount"`
	PreconnectCount       int `json:"preconnectCount"`
}

// AnalyticsConsentMetrics reports detected analytics tooling and consent
// management markup.
type AnalyticsConsentMetrics struct {
	HasAnalytics       bool `json:"hasAnalytics"`
	HasDataLayer       bool `json:"hasDataLayer"`
	ConsentWidgetCount int  `json:"consentWidgetCount"`
	CookieLinkCount    int  `json:"cookieLinkCount"`
}

// CROUXMetrics covers call-to-action visibility and interaction patterns.
type CROUXMetrics struct {
	// CTACount counts call-to-action candidates among the first sampled
	// interactive elements in document order.
	CTACount          int  `json:"ctaCount"`
	InteractiveSample int  `json:"interactiveSample"`
	DuplicateHeadings bool `json:"duplicateHeadings"`
	ModalCount        int  `json:"modalCount"`
}
