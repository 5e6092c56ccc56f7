// Package model defines the shared data types flowing through the scan
// pipeline and out over the API.
package model

import "time"

// ScanRequest is the decoded POST body. Locale selects the reporting locale
// ("nl" or "en"); unknown values fall back to "nl".
type ScanRequest struct {
	URL    string `json:"url"`
	Locale string `json:"locale,omitempty"`
}

// RequestEcho mirrors the accepted request back to the caller.
type RequestEcho struct {
	URL    string `json:"url"`
	Locale string `json:"locale"`
}

// RobotsInfo is the caller-visible slice of the evaluated robots policy.
// Nil when robots.txt could not be fetched or parsed.
type RobotsInfo struct {
	Allowed       bool     `json:"allowed"`
	AllowRules    []string `json:"allowRules"`
	DisallowRules []string `json:"disallowRules"`
	Sitemaps      []string `json:"sitemaps"`
	Source        string   `json:"source"`
}

// Flags documents deliberate scanner limitations so callers can interpret
// results correctly.
type Flags struct {
	// RenderedJS is false: only the initial HTML response is inspected.
	RenderedJS bool `json:"renderedJs"`
	// DNSChecked is false: the private-address guard classifies the literal
	// hostname only and never resolves DNS.
	DNSChecked bool `json:"dnsChecked"`
}

// Totals summarizes raw element counts across the analyzed document.
type Totals struct {
	Scripts     int `json:"scripts"`
	Stylesheets int `json:"stylesheets"`
	Images      int `json:"images"`
	Anchors     int `json:"anchors"`
	Insights    int `json:"insights"`
}

// ScanPayload is the full result returned to the caller and held in the
// response cache.
type ScanPayload struct {
	ScanID    string        `json:"scanId"`
	Request   RequestEcho   `json:"request"`
	FinalURL  string        `json:"finalUrl"`
	FetchedAt time.Time     `json:"fetchedAt"`
	Metrics   MetricsBundle `json:"metrics"`
	Insights  []Insight     `json:"insights"`
	Totals    Totals        `json:"totals"`
	Warnings  []string      `json:"warnings"`
	Robots    *RobotsInfo   `json:"robots"`
	Flags     Flags         `json:"flags"`
}
