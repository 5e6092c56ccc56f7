package analyze

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/mverbeek/sitegauge/internal/model"
)

func extractPerformance(doc *goquery.Document) model.PerformanceMetrics {
	scripts := doc.Find("script")
	inlineChars := 0
	scripts.Each(func(_ int, s *goquery.Selection) {
		if s.AttrOr("src", "") == "" {
			inlineChars += len(s.Text())
		}
	})

	// The longest img src string stands in for the heaviest image: data
	// URIs and unoptimized asset paths both inflate it.
	largestSrc := 0
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if l := len(s.AttrOr("src", "")); l > largestSrc {
			largestSrc = l
		}
	})

	return model.PerformanceMetrics{
		ScriptCount:           scripts.Length(),
		InlineScriptChars:     inlineChars,
		StylesheetCount:       doc.Find(`link[rel="stylesheet"]`).Length(),
		InlineStyleCount:      doc.Find("style").Length() + doc.Find("[style]").Length(),
		LargestImageSrcLength: largestSrc,
		PreloadCount:          doc.Find(`link[rel="preload"]`).Length(),
		PreconnectCount:       doc.Find(`link[rel="preconnect"]`).Length(),
	}
}
