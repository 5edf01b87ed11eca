package model

// Severity represents the impact level of a detected quality issue.
// This allows categorizing issues by how badly they hurt a slide's
// readability or accessibility.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates informational findings with no direct quality impact.
	// Examples: image metadata without GPS data, advisory style notes.
	SeverityInfo Severity = iota

	// SeverityLow indicates minor issues with limited impact.
	// Examples: a skipped heading level, slightly tight margins.
	SeverityLow

	// SeverityMedium indicates moderate issues that warrant attention.
	// Examples: dense bullet lists, fixed pixel widths, missing alt text.
	SeverityMedium

	// SeverityHigh indicates serious issues that significantly hurt the slide.
	// Examples: body text below the readable threshold, pixel-sized grid rows.
	SeverityHigh

	// SeverityCritical indicates severe issues that make a slide unusable.
	// Examples: dark text on a dark background, content taller than the viewport.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Category is the scoring axis an issue deducts from.
type Category string

const (
	// CategoryReadability covers text size, spacing, and content overflow.
	CategoryReadability Category = "readability"

	// CategoryHierarchy covers visual structure: headings and spacing rhythm.
	CategoryHierarchy Category = "hierarchy"

	// CategoryCognitiveLoad covers bullet counts and word density.
	CategoryCognitiveLoad Category = "cognitive_load"

	// CategoryAccessibility covers contrast, overlays, and alt text.
	CategoryAccessibility Category = "accessibility"

	// CategoryMobile covers responsiveness on small viewports.
	CategoryMobile Category = "mobile"
)

// Categories lists all scoring axes in their canonical order.
func Categories() []Category {
	return []Category{
		CategoryReadability,
		CategoryHierarchy,
		CategoryCognitiveLoad,
		CategoryAccessibility,
		CategoryMobile,
	}
}

// IssueInfo contains metadata about an issue kind including severity,
// scoring category, impact description, and remediation recommendation.
type IssueInfo struct {
	Severity       Severity
	Category       Category
	Impact         string
	Recommendation string
}

// issueInfoMapping maps issue kinds to their metadata.
// This centralized mapping ensures consistent severity and category
// assignment across all checkers and the expert panel.
//
// Design decision: We use a map rather than embedding severity in each checker
// because:
// 1. It allows tuning severities without modifying checker logic
// 2. It provides a single source of truth for the scoring contract
// 3. Two checkers reporting the same kind always agree on its weight
var issueInfoMapping = map[string]IssueInfo{
	// CRITICAL - slide is effectively broken
	"dark_on_dark": {
		Severity:       SeverityCritical,
		Category:       CategoryAccessibility,
		Impact:         "A dark background is declared with no light text color anywhere in the slide, so body text is likely invisible.",
		Recommendation: "Declare an explicit light text color (e.g. color: #ffffff) on the slide or its text containers.",
	},
	"overflow_content": {
		Severity:       SeverityCritical,
		Category:       CategoryReadability,
		Impact:         "A fixed pixel height taller than the slide viewport forces content below the fold where it is never seen.",
		Recommendation: "Replace fixed heights with max-height plus overflow handling, or split the content across slides.",
	},

	// HIGH - significantly hurts the slide
	"text_size": {
		Severity:       SeverityHigh,
		Category:       CategoryReadability,
		Impact:         "Text below the readable threshold is illegible from the back of a room and on small screens.",
		Recommendation: "Raise body text to at least 1.2rem (24px) and use clamp() for responsive sizing.",
	},
	"grid_rows": {
		Severity:       SeverityHigh,
		Category:       CategoryReadability,
		Impact:         "A CSS grid with fixed pixel row sizes clips content that grows beyond the declared rows.",
		Recommendation: "Use auto or minmax() row sizing so rows grow with their content.",
	},

	// MEDIUM - noticeable quality defects
	"spacing": {
		Severity:       SeverityMedium,
		Category:       CategoryHierarchy,
		Impact:         "Padding or margins below the minimum cramp the layout and blur the visual hierarchy.",
		Recommendation: "Use at least 1rem padding on content blocks and 0.5rem between list items.",
	},
	"overlay_opacity": {
		Severity:       SeverityMedium,
		Category:       CategoryAccessibility,
		Impact:         "A near-transparent dark overlay fails to separate text from a busy background image.",
		Recommendation: "Raise the overlay alpha to at least 0.5, or blur the background image instead.",
	},
	"cognitive_load": {
		Severity:       SeverityMedium,
		Category:       CategoryCognitiveLoad,
		Impact:         "Too many bullets or words on one slide overwhelm the audience and bury the key message.",
		Recommendation: "Keep slides to at most 6 bullets and roughly 80 words; split dense slides.",
	},
	"fixed_width": {
		Severity:       SeverityMedium,
		Category:       CategoryMobile,
		Impact:         "Fixed pixel widths do not shrink on phone viewports, causing horizontal scrolling.",
		Recommendation: "Use percentage or viewport-relative widths with max-width caps.",
	},
	"fixed_font": {
		Severity:       SeverityMedium,
		Category:       CategoryMobile,
		Impact:         "Fixed pixel font sizes ignore user zoom preferences and render poorly on small screens.",
		Recommendation: "Use rem units, ideally inside clamp() for fluid scaling.",
	},
	"missing_alt": {
		Severity:       SeverityMedium,
		Category:       CategoryAccessibility,
		Impact:         "Images without alt text are invisible to screen reader users.",
		Recommendation: "Add descriptive alt attributes, or alt=\"\" for purely decorative images.",
	},

	// LOW - minor defects
	"heading_skip": {
		Severity:       SeverityLow,
		Category:       CategoryHierarchy,
		Impact:         "A skipped heading level (e.g. h1 followed by h3) breaks the document outline for assistive technology.",
		Recommendation: "Keep heading levels consecutive within each slide.",
	},
	"image_metadata_gps": {
		Severity:       SeverityLow,
		Category:       CategoryAccessibility,
		Impact:         "An embedded image carries GPS coordinates in its EXIF metadata, a privacy risk when the deck is published.",
		Recommendation: "Strip EXIF metadata from images before embedding them.",
	},

	// INFO - advisory
	"image_metadata": {
		Severity:       SeverityInfo,
		Category:       CategoryAccessibility,
		Impact:         "An embedded image carries EXIF metadata (camera, timestamp) that adds file size and leaks context.",
		Recommendation: "Strip EXIF metadata to shrink images and avoid leaking authoring details.",
	},
}

// GetSeverity returns the severity level for an issue kind.
// Returns SeverityInfo if the kind is not in the mapping.
func GetSeverity(kind string) Severity {
	if info, ok := issueInfoMapping[kind]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetCategory returns the scoring category for an issue kind.
// Returns CategoryReadability if the kind is not in the mapping.
func GetCategory(kind string) Category {
	if info, ok := issueInfoMapping[kind]; ok {
		return info.Category
	}
	return CategoryReadability
}

// GetIssueInfo returns the full metadata for an issue kind.
// Returns a default IssueInfo with SeverityInfo if the kind is not in the mapping.
func GetIssueInfo(kind string) IssueInfo {
	if info, ok := issueInfoMapping[kind]; ok {
		return info
	}
	return IssueInfo{
		Severity:       SeverityInfo,
		Category:       CategoryReadability,
		Impact:         "Unknown issue kind. Review manually.",
		Recommendation: "Investigate the issue and assess impact.",
	}
}
