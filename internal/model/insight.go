package model

// Severity levels used by insights, lowest to highest.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Insight is a single structured finding. The id is stable across releases
// so frontends can localize the texts; evidence and recommendation carry an
// English default.
type Insight struct {
	ID             string         `json:"id"`
	Category       string         `json:"category"`
	Severity       string         `json:"severity"`
	Impact         string         `json:"impact"`
	Evidence       string         `json:"evidence"`
	Recommendation string         `json:"recommendation"`
	Details        map[string]any `json:"details,omitempty"`
}
