// Package analyze extracts page metrics from a fetched HTML document.
//
// The document is parsed once; five independent, side-effect-free
// extractors each produce a flat record, merged into a MetricsBundle.
package analyze

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mverbeek/sitegauge/internal/model"
	"github.com/mverbeek/sitegauge/internal/scanerr"
)

// inlineScriptWarnChars is the inline-script footprint above which an
// immediate warning is attached to the payload.
const inlineScriptWarnChars = 50000

// Run parses htmlText and executes the extractors. robotsSitemaps are
// sitemap URLs learned from robots.txt, merged with in-page hints into the
// SEO record. A parser fault is reported as ANALYSIS_ERROR, never as a
// partial result.
func Run(htmlText, finalURL string, robotsSitemaps []string) (bundle model.MetricsBundle, totals model.Totals, warnings []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = scanerr.Wrap(scanerr.KindAnalysisError, "page markup could not be analyzed",
				fmt.Errorf("analyzer panic: %v", r))
		}
	}()

	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if parseErr != nil {
		return bundle, totals, nil, scanerr.Wrap(scanerr.KindAnalysisError, "page markup could not be parsed", parseErr)
	}

	bundle = model.MetricsBundle{
		SEO:              extractSEO(doc, robotsSitemaps),
		Accessibility:    extractAccessibility(doc),
		Performance:      extractPerformance(doc),
		AnalyticsConsent: extractAnalyticsConsent(doc),
		CROUX:            extractCROUX(doc),
	}

	totals = model.Totals{
		Scripts:     bundle.Performance.ScriptCount,
		Stylesheets: bundle.Performance.StylesheetCount,
		Images:      bundle.Accessibility.ImageCount,
		Anchors:     bundle.Accessibility.AnchorCount,
	}

	if bundle.Performance.InlineScriptChars > inlineScriptWarnChars {
		warnings = append(warnings, fmt.Sprintf(
			"inline scripts total %d characters, which slows first paint",
			bundle.Performance.InlineScriptChars))
	}

	return bundle, totals, warnings, nil
}

// attrContainsAny reports whether the id or class attribute of s contains
// one of the needles (case-insensitive).
func attrContainsAny(s *goquery.Selection, needles []string) bool {
	haystack := strings.ToLower(s.AttrOr("id", "") + " " + s.AttrOr("class", ""))
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
