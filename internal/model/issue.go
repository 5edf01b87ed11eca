package model

// Issue represents a single detected quality defect scoped to one slide.
// Issues have no identity beyond their slide+kind+value triple; duplicates
// within a slide are allowed and each contributes independently to score
// deductions.
type Issue struct {
	// Kind is the issue kind identifier.
	// This maps to the issueInfoMapping in severity.go.
	Kind string `json:"kind"`

	// Severity is the impact level.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Category is the scoring axis this issue deducts from.
	Category Category `json:"category"`

	// SlideNumber is the 1-based slide the issue was found on.
	SlideNumber int `json:"slide_number"`

	// Title is a short description of the issue.
	Title string `json:"title"`

	// Description provides more detail about the issue.
	Description string `json:"description,omitempty"`

	// Impact explains why this issue matters.
	Impact string `json:"impact,omitempty"`

	// Recommendation provides guidance on how to address this issue.
	Recommendation string `json:"recommendation,omitempty"`

	// Value is the specific matched value (a size literal, a color, etc.).
	Value string `json:"value,omitempty"`

	// Count is how many instances the matched value had, when a rule
	// aggregates repeated matches of the same literal.
	Count int `json:"count,omitempty"`
}

// NewIssue creates an Issue for the given kind, filling severity, category,
// impact, and recommendation from the central issue catalog.
func NewIssue(kind string, slideNumber int, title, description, value string) Issue {
	info := GetIssueInfo(kind)
	return Issue{
		Kind:           kind,
		Severity:       info.Severity,
		SeverityText:   info.Severity.String(),
		Category:       info.Category,
		SlideNumber:    slideNumber,
		Title:          title,
		Description:    description,
		Impact:         info.Impact,
		Recommendation: info.Recommendation,
		Value:          value,
	}
}
