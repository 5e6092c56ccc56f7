// Package insight maps extracted metrics onto structured findings through
// a fixed, ordered rule table.
//
// Rules are data, not control flow: each pairs a boolean predicate over
// the MetricsBundle with a fixed finding payload. Every rule is evaluated
// independently; firing one never suppresses another, so the report
// surfaces every detected condition. When nothing fires, a single
// "solid_basics" fallback keeps the report non-empty.
package insight

import (
	"fmt"

	"github.com/mverbeek/sitegauge/internal/model"
)

// Rule is one entry of the table. Evidence renders a human-readable
// observation from the metrics; Details optionally attaches the measured
// value.
type Rule struct {
	ID             string
	Category       string
	Severity       string
	Impact         string
	When           func(m *model.MetricsBundle) bool
	Evidence       func(m *model.MetricsBundle) string
	Recommendation string
	Details        func(m *model.MetricsBundle) map[string]any
}

// Derive evaluates the table in order and returns the fired insights.
func Derive(m *model.MetricsBundle) []model.Insight {
	var out []model.Insight
	for _, r := range rules {
		if !r.When(m) {
			continue
		}
		ins := model.Insight{
			ID:             r.ID,
			Category:       r.Category,
			Severity:       r.Severity,
			Impact:         r.Impact,
			Evidence:       r.Evidence(m),
			Recommendation: r.Recommendation,
		}
		if r.Details != nil {
			ins.Details = r.Details(m)
		}
		out = append(out, ins)
	}

	if len(out) == 0 {
		out = append(out, model.Insight{
			ID:             "solid_basics",
			Category:       "general",
			Severity:       model.SeverityLow,
			Impact:         model.SeverityLow,
			Evidence:       "No common SEO, accessibility, performance or conversion issues were detected.",
			Recommendation: "Keep monitoring; rerun after significant content or template changes.",
		})
	}
	return out
}

// rules is evaluated top to bottom; output order follows table order, not
// severity.
var rules = []Rule{
	{
		ID:       "missing_title",
		Category: "seo",
		Severity: model.SeverityHigh,
		Impact:   model.SeverityHigh,
		When:     func(m *model.MetricsBundle) bool { return m.SEO.TitleLength == 0 },
		Evidence: func(m *model.MetricsBundle) string {
			return "The page has no <title> content."
		},
		Recommendation: "Add a unique, descriptive title of 30-60 characters.",
	},
	{
		ID:       "title_length",
		Category: "seo",
		Severity: model.SeverityLow,
		Impact:   model.SeverityMedium,
		When: func(m *model.MetricsBundle) bool {
			return m.SEO.TitleLength > 0 && (m.SEO.TitleLength < 30 || m.SEO.TitleLength > 60)
		},
		Evidence: func(m *model.MetricsBundle) string {
			return fmt.Sprintf("The title is %d characters long; 30-60 works best in search results.", m.SEO.TitleLength)
		},
		Recommendation: "Rewrite the title to between 30 and 60 characters.",
		Details: func(m *model.MetricsBundle) map[string]any {
			return map[string]any{"value": m.SEO.TitleLength}
		},
	},
	{
		ID:       "missing_meta_description",
		Category: "seo",
		Severity: model.SeverityMedium,
		Impact:   model.SeverityHigh,
		When:     func(m *model.MetricsBundle) bool { return !m.SEO.HasMetaDescription },
		Evidence: func(m *model.MetricsBundle) string {
			return "No meta description was found; search engines will improvise a snippet."
		},
		Recommendation: "Add a meta description of 120-160 characters summarizing the page.",
	},
	{
		ID:       "missing_canonical",
		Category: "seo",
		Severity: model.SeverityLow,
		Impact:   model.SeverityMedium,
		When:     func(m *model.MetricsBundle) bool { return m.SEO.Canonical == "" },
		Evidence: func(m *model.MetricsBundle) string {
			return "No canonical link is declared, which risks duplicate-content signals."
		},
		Recommendation: "Add a <link rel=\"canonical\"> pointing at the preferred URL.",
	},
	{
		ID:       "noindex_enabled",
		Category: "seo",
		Severity: model.SeverityHigh,
		Impact:   model.SeverityHigh,
		When:     func(m *model.MetricsBundle) bool { return m.SEO.RobotsNoindex },
		Evidence: func(m *model.MetricsBundle) string {
			return "A robots meta tag with noindex excludes this page from search engines."
		},
		Recommendation: "Remove noindex unless the page is intentionally hidden from search.",
	},
	{
		ID:       "missing_og_tags",
		Category: "seo",
		Severity: model.SeverityLow,
		Impact:   model.SeverityLow,
		When: func(m *model.MetricsBundle) bool {
			return !m.SEO.HasOGTitle || !m.SEO.HasOGDescription || !m.SEO.HasOGImage
		},
		Evidence: func(m *model.MetricsBundle) string {
			return "Open Graph tags are incomplete, so shared links render without a rich preview."
		},
		Recommendation: "Provide og:title, og:description and og:image.",
	},
	{
		ID:       "h1_structure",
		Category: "seo",
		Severity: model.SeverityLow,
		Impact:   model.SeverityMedium,
		When:     func(m *model.MetricsBundle) bool { return m.SEO.H1Count != 1 },
		Evidence: func(m *model.MetricsBundle) string {
			return fmt.Sprintf("The page has %d H1 headings; exactly one is expected.", m.SEO.H1Count)
		},
		Recommendation: "Use a single H1 describing the page topic; demote the rest to H2.",
		Details: func(m *model.MetricsBundle) map[string]any {
			return map[string]any{"value": m.SEO.H1Count}
		},
	},
	{
		ID:       "low_alt_ratio",
		Category: "accessibility",
		Severity: model.SeverityMedium,
		Impact:   model.SeverityMedium,
		When: func(m *model.MetricsBundle) bool {
			return m.Accessibility.ImageCount > 0 && m.Accessibility.AltRatio < 0.8
		},
		Evidence: func(m *model.MetricsBundle) string {
			return fmt.Sprintf("Only %.0f%% of images carry alt text.", m.Accessibility.AltRatio*100)
		},
		Recommendation: "Describe informative images with alt text; mark decorative ones with alt=\"\".",
		Details: func(m *model.MetricsBundle) map[string]any {
			return map[string]any{"value": m.Accessibility.AltRatio}
		},
	},
	{
		ID:       "missing_main_landmark",
		Category: "accessibility",
		Severity: model.SeverityLow,
		Impact:   model.SeverityMedium,
		When:     func(m *model.MetricsBundle) bool { return !m.Accessibility.HasMainLandmark },
		Evidence: func(m *model.MetricsBundle) string {
			return "No <main> landmark was found; screen reader users cannot skip to content."
		},
		Recommendation: "Wrap the primary content in a <main> element.",
	},
	{
		ID:       "unlabeled_form_controls",
		Category: "accessibility",
		Severity: model.SeverityMedium,
		Impact:   model.SeverityHigh,
		When: func(m *model.MetricsBundle) bool {
			return m.Accessibility.FormControlCount > 0 && m.Accessibility.LabelCoverage < 0.9
		},
		Evidence: func(m *model.MetricsBundle) string {
			return fmt.Sprintf("Only %.0f%% of form controls have an associated label.", m.Accessibility.LabelCoverage*100)
		},
		Recommendation: "Pair every input with a label, or add aria-label where a visible label is impossible.",
		Details: func(m *model.MetricsBundle) map[string]any {
			return map[string]any{"value": m.Accessibility.LabelCoverage}
		},
	},
	{
		ID:       "generic_link_text",
		Category: "accessibility",
		Severity: model.SeverityLow,
		Impact:   model.SeverityLow,
		When:     func(m *model.MetricsBundle) bool { return m.Accessibility.ShortAnchorCount >= 3 },
		Evidence: func(m *model.MetricsBundle) string {
			return fmt.Sprintf("%d links have very short, unlabeled text.", m.Accessibility.ShortAnchorCount)
		},
		Recommendation: "Give links descriptive text or an aria-label.",
		Details: func(m *model.MetricsBundle) map[string]any {
			return map[string]any{"value": m.Accessibility.ShortAnchorCount}
		},
	},
	{
		ID:       "heavy_inline_scripts",
		Category: "performance",
		Severity: model.SeverityMedium,
		Impact:   model.SeverityMedium,
		When: func(m *model.MetricsBundle) bool {
			return m.Performance.InlineScriptChars > inlineScriptBudget
		},
		Evidence: func(m *model.MetricsBundle) string {
			return fmt.Sprintf("Inline scripts total %d characters, delaying first paint.", m.Performance.InlineScriptChars)
		},
		Recommendation: "Move large scripts to external files so they can be cached and deferred.",
		Details: func(m *model.MetricsBundle) map[string]any {
			return map[string]any{"value": m.Performance.InlineScriptChars}
		},
	},
	{
		ID:       "many_scripts",
		Category: "performance",
		Severity: model.SeverityLow,
		Impact:   model.SeverityMedium,
		When:     func(m *model.MetricsBundle) bool { return m.Performance.ScriptCount > 20 },
		Evidence: func(m *model.MetricsBundle) string {
			return fmt.Sprintf("The page loads %d script tags.", m.Performance.ScriptCount)
		},
		Recommendation: "Bundle or remove scripts; each tag adds network and parse cost.",
		Details: func(m *model.MetricsBundle) map[string]any {
			return map[string]any{"value": m.Performance.ScriptCount}
		},
	},
	{
		ID:       "analytics_without_consent",
		Category: "analyticsConsent",
		Severity: model.SeverityHigh,
		Impact:   model.SeverityHigh,
		When: func(m *model.MetricsBundle) bool {
			return m.AnalyticsConsent.HasAnalytics && m.AnalyticsConsent.ConsentWidgetCount == 0
		},
		Evidence: func(m *model.MetricsBundle) string {
			return "Analytics tags were detected but no consent management widget was found."
		},
		Recommendation: "Gate analytics behind a consent manager to comply with GDPR/AVG.",
	},
	{
		ID:       "missing_analytics",
		Category: "analyticsConsent",
		Severity: model.SeverityLow,
		Impact:   model.SeverityMedium,
		When:     func(m *model.MetricsBundle) bool { return !m.AnalyticsConsent.HasAnalytics },
		Evidence: func(m *model.MetricsBundle) string {
			return "No analytics tooling was detected, so visitor behavior is not measured."
		},
		Recommendation: "Install a privacy-friendly analytics tool to base decisions on data.",
	},
	{
		ID:       "no_cta_above_fold",
		Category: "croUx",
		Severity: model.SeverityMedium,
		Impact:   model.SeverityHigh,
		When: func(m *model.MetricsBundle) bool {
			return m.CROUX.InteractiveSample > 0 && m.CROUX.CTACount == 0
		},
		Evidence: func(m *model.MetricsBundle) string {
			return fmt.Sprintf("None of the first %d interactive elements reads as a call to action.", m.CROUX.InteractiveSample)
		},
		Recommendation: "Place one clear call to action near the top of the page.",
	},
	{
		ID:       "duplicate_headings",
		Category: "croUx",
		Severity: model.SeverityLow,
		Impact:   model.SeverityLow,
		When:     func(m *model.MetricsBundle) bool { return m.CROUX.DuplicateHeadings },
		Evidence: func(m *model.MetricsBundle) string {
			return "The leading headings repeat the same text."
		},
		Recommendation: "Differentiate headings so each section communicates something new.",
	},
	{
		ID:       "excessive_modals",
		Category: "croUx",
		Severity: model.SeverityLow,
		Impact:   model.SeverityMedium,
		When:     func(m *model.MetricsBundle) bool { return m.CROUX.ModalCount > 2 },
		Evidence: func(m *model.MetricsBundle) string {
			return fmt.Sprintf("%d modal or overlay blocks compete for attention.", m.CROUX.ModalCount)
		},
		Recommendation: "Reduce interruptions; keep at most one overlay per visit.",
		Details: func(m *model.MetricsBundle) map[string]any {
			return map[string]any{"value": m.CROUX.ModalCount}
		},
	},
}

// inlineScriptBudget mirrors the analyzer's warning threshold.
const inlineScriptBudget = 50000
