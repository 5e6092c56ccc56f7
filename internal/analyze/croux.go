package analyze

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mverbeek/sitegauge/internal/model"
)

// interactiveSampleSize approximates "above the fold": only the first
// elements in document order are considered for CTA density.
const interactiveSampleSize = 40

// duplicateHeadingSample is how many leading H1/H2 headings are compared.
const duplicateHeadingSample = 6

// ctaKeywords is a bilingual (nl + en) call-to-action vocabulary. Both
// languages are always matched; the request locale only affects reporting.
var ctaKeywords = []string{
	// nl
	"koop", "bestel", "offerte", "aanvragen", "aanvraag", "afspraak",
	"probeer", "ontdek", "neem contact", "meld je aan", "inschrijven",
	// en
	"buy", "order", "quote", "contact", "get started", "start now",
	"try", "demo", "sign up", "subscribe", "download", "book",
}

var ctaClassMarkers = []string{"cta", "btn-primary", "button-primary"}

var modalMarkers = []string{"modal", "overlay", "popup", "drawer", "lightbox"}

func extractCROUX(doc *goquery.Document) model.CROUXMetrics {
	interactive := doc.Find(`a, button, input[type="submit"], input[type="button"], [role="button"]`)
	sample := interactive.Length()
	if sample > interactiveSampleSize {
		sample = interactiveSampleSize
	}

	ctaCount := 0
	interactive.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= interactiveSampleSize {
			return false
		}
		if isCTA(s) {
			ctaCount++
		}
		return true
	})

	headings := make(map[string]int)
	duplicate := false
	doc.Find("h1, h2").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= duplicateHeadingSample {
			return false
		}
		text := strings.ToLower(strings.TrimSpace(s.Text()))
		if text == "" {
			return true
		}
		headings[text]++
		if headings[text] > 1 {
			duplicate = true
		}
		return true
	})

	modals := 0
	doc.Find("div, section, dialog").Each(func(_ int, s *goquery.Selection) {
		if s.AttrOr("role", "") == "dialog" || attrContainsAny(s, modalMarkers) {
			modals++
		}
	})

	return model.CROUXMetrics{
		CTACount:          ctaCount,
		InteractiveSample: sample,
		DuplicateHeadings: duplicate,
		ModalCount:        modals,
	}
}

func isCTA(s *goquery.Selection) bool {
	if attrContainsAny(s, ctaClassMarkers) {
		return true
	}
	text := strings.ToLower(strings.TrimSpace(s.Text()))
	if text == "" {
		text = strings.ToLower(s.AttrOr("value", ""))
	}
	for _, kw := range ctaKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
