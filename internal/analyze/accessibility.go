package analyze

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mverbeek/sitegauge/internal/model"
)

func extractAccessibility(doc *goquery.Document) model.AccessibilityMetrics {
	images := doc.Find("img")
	imageCount := images.Length()
	withAlt := 0
	images.Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.AttrOr("alt", "")) != "" {
			withAlt++
		}
	})
	// No images means nothing is missing alt text.
	altRatio := 1.0
	if imageCount > 0 {
		altRatio = float64(withAlt) / float64(imageCount)
	}

	hasMain := doc.Find(`main, [role="main"]`).Length() > 0

	controls := doc.Find(`input:not([type="hidden"]), select, textarea`)
	controlCount := controls.Length()
	labeled := 0
	controls.Each(func(_ int, s *goquery.Selection) {
		if controlIsLabeled(doc, s) {
			labeled++
		}
	})
	labelCoverage := 1.0
	if controlCount > 0 {
		labelCoverage = float64(labeled) / float64(controlCount)
	}

	anchors := doc.Find("a")
	shortAnchors := 0
	anchors.Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len([]rune(text)) <= 2 && s.AttrOr("aria-label", "") == "" {
			shortAnchors++
		}
	})

	return model.AccessibilityMetrics{
		ImageCount:       imageCount,
		AltRatio:         altRatio,
		HasMainLandmark:  hasMain,
		FormControlCount: controlCount,
		LabelCoverage:    labelCoverage,
		AnchorCount:      anchors.Length(),
		ShortAnchorCount: shortAnchors,
	}
}

// controlIsLabeled checks the three accepted labeling paths: a label[for]
// pointing at the control's id, an ancestor label element, or an ARIA
// label attribute.
func controlIsLabeled(doc *goquery.Document, control *goquery.Selection) bool {
	if control.AttrOr("aria-label", "") != "" || control.AttrOr("aria-labelledby", "") != "" {
		return true
	}
	if id := control.AttrOr("id", ""); id != "" {
		if doc.Find(`label[for="` + id + `"]`).Length() > 0 {
			return true
		}
	}
	return control.ParentsFiltered("label").Length() > 0
}
