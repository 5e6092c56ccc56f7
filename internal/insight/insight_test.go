package insight_test

import (
	"testing"

	"github.com/mverbeek/sitegauge/internal/insight"
	"github.com/mverbeek/sitegauge/internal/model"
)

// healthyBundle returns metrics that fire no rule.
func healthyBundle() model.MetricsBundle {
	return model.MetricsBundle{
		SEO: model.SEOMetrics{
			Title:                 "Quality garden furniture, delivered fast",
			TitleLength:           40,
			HasMetaDescription:    true,
			MetaDescriptionLength: 140,
			Canonical:             "https://example.com/",
			HasOGTitle:            true,
			HasOGDescription:      true,
			HasOGImage:            true,
			H1Count:               1,
		},
		Accessibility: model.AccessibilityMetrics{
			ImageCount:       5,
			AltRatio:         1,
			HasMainLandmark:  true,
			FormControlCount: 2,
			LabelCoverage:    1,
			AnchorCount:      20,
			ShortAnchorCount: 0,
		},
		Performance: model.PerformanceMetrics{
			ScriptCount:       6,
			InlineScriptChars: 1200,
			StylesheetCount:   2,
		},
		AnalyticsConsent: model.AnalyticsConsentMetrics{
			HasAnalytics:       true,
			HasDataLayer:       true,
			ConsentWidgetCount: 1,
			CookieLinkCount:    1,
		},
		CROUX: model.CROUXMetrics{
			CTACount:          3,
			InteractiveSample: 40,
			DuplicateHeadings: false,
			ModalCount:        1,
		},
	}
}

func ids(insights []model.Insight) map[string]bool {
	m := make(map[string]bool, len(insights))
	for _, ins := range insights {
		m[ins.ID] = true
	}
	return m
}

func TestDerive_HealthyPageGetsOnlySolidBasics(t *testing.T) {
	t.Parallel()

	m := healthyBundle()
	insights := insight.Derive(&m)

	if len(insights) != 1 {
		t.Fatalf("insights: got %d, want exactly the fallback; ids: %v", len(insights), ids(insights))
	}
	if insights[0].ID != "solid_basics" {
		t.Errorf("id: got %q, want solid_basics", insights[0].ID)
	}
}

func TestDerive_MissingMetaDescriptionFires(t *testing.T) {
	t.Parallel()

	m := healthyBundle()
	m.SEO.Title = ""
	m.SEO.TitleLength = 0
	m.SEO.HasMetaDescription = false
	m.SEO.MetaDescriptionLength = 0

	got := ids(insight.Derive(&m))
	if !got["missing_meta_description"] {
		t.Error("expected missing_meta_description to fire")
	}
	if !got["missing_title"] {
		t.Error("expected missing_title to fire")
	}
	if got["solid_basics"] {
		t.Error("fallback must not appear alongside real findings")
	}
}

func TestDerive_LowAltRatioNeverFiresWithoutImages(t *testing.T) {
	t.Parallel()

	m := healthyBundle()
	m.Accessibility.ImageCount = 0
	m.Accessibility.AltRatio = 1

	if got := ids(insight.Derive(&m)); got["low_alt_ratio"] {
		t.Error("low_alt_ratio must not fire for a page without images")
	}
}

func TestDerive_LowAltRatioFires(t *testing.T) {
	t.Parallel()

	m := healthyBundle()
	m.Accessibility.ImageCount = 10
	m.Accessibility.AltRatio = 0.5

	insights := insight.Derive(&m)
	var found *model.Insight
	for i := range insights {
		if insights[i].ID == "low_alt_ratio" {
			found = &insights[i]
		}
	}
	if found == nil {
		t.Fatal("expected low_alt_ratio to fire")
	}
	if found.Details == nil || found.Details["value"] != 0.5 {
		t.Errorf("details: got %v, want value 0.5", found.Details)
	}
	if found.Category != "accessibility" {
		t.Errorf("category: got %q", found.Category)
	}
}

func TestDerive_RulesAreIndependent(t *testing.T) {
	t.Parallel()

	m := healthyBundle()
	m.SEO.HasMetaDescription = false
	m.SEO.RobotsNoindex = true
	m.Performance.ScriptCount = 30
	m.CROUX.CTACount = 0

	got := ids(insight.Derive(&m))
	for _, want := range []string{"missing_meta_description", "noindex_enabled", "many_scripts", "no_cta_above_fold"} {
		if !got[want] {
			t.Errorf("expected %s to fire independently, got %v", want, got)
		}
	}
}

func TestDerive_OrderFollowsTableNotSeverity(t *testing.T) {
	t.Parallel()

	m := healthyBundle()
	// title_length (low severity) precedes noindex_enabled (high) in the table.
	m.SEO.TitleLength = 10
	m.SEO.Title = "short"
	m.SEO.RobotsNoindex = true

	insights := insight.Derive(&m)
	var order []string
	for _, ins := range insights {
		if ins.ID == "title_length" || ins.ID == "noindex_enabled" {
			order = append(order, ins.ID)
		}
	}
	if len(order) != 2 || order[0] != "title_length" || order[1] != "noindex_enabled" {
		t.Errorf("order: got %v, want [title_length noindex_enabled]", order)
	}
}
