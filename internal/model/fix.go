package model

// FixType identifies the mutation mechanism a fix uses.
type FixType string

const (
	// FixTypeReplace is an exact-substring text replacement.
	FixTypeReplace FixType = "replace"

	// FixTypeInjectCSS buffers a CSS block injected before the closing
	// </style> tag.
	FixTypeInjectCSS FixType = "inject_css"

	// FixTypeInjectScript buffers a script block injected before the closing
	// </script> tag.
	FixTypeInjectScript FixType = "inject_script"

	// FixTypeStampSlides stamps data-slide attributes onto the top-level
	// section elements so slide-scoped CSS has a stable identity to target.
	FixTypeStampSlides FixType = "stamp_slides"
)

// FixPriority orders fixes for application and reporting.
// Priority affects sort order only; overlapping fixes are not reconciled.
type FixPriority int

const (
	// PriorityLow is cosmetic polish.
	PriorityLow FixPriority = iota

	// PriorityMedium is a noticeable improvement.
	PriorityMedium

	// PriorityHigh addresses issues that significantly hurt a slide.
	PriorityHigh

	// PriorityCritical addresses issues that make a slide unusable.
	PriorityCritical
)

// String returns a human-readable representation of the priority.
func (p FixPriority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// Fix is a prescribed mutation intended to resolve one or more issues.
// Fixes are ephemeral: generated per-run from a report, applied once, then
// discarded. The backup file is the only durable safety mechanism.
type Fix struct {
	// Type is the mutation mechanism.
	Type FixType `json:"type"`

	// IssueKind is the issue kind this fix addresses.
	IssueKind string `json:"issue_kind"`

	// SlideNumber is the target slide, or 0 for deck-wide fixes.
	SlideNumber int `json:"slide_number,omitempty"`

	// Priority orders application and reporting.
	Priority FixPriority `json:"priority"`

	// PriorityText is the human-readable priority.
	PriorityText string `json:"priority_text"`

	// Description explains what the fix does.
	Description string `json:"description"`

	// OldString is the exact substring to find (FixTypeReplace only).
	OldString string `json:"old_string,omitempty"`

	// NewString is the replacement text (FixTypeReplace only).
	NewString string `json:"new_string,omitempty"`

	// CSS is the stylesheet block to inject (FixTypeInjectCSS only).
	CSS string `json:"css,omitempty"`

	// Script is the script block to inject (FixTypeInjectScript only).
	Script string `json:"script,omitempty"`

	// Selector is the CSS selector a slide-scoped fix targets.
	Selector string `json:"selector,omitempty"`
}

// FixStatus is the per-fix application outcome.
// Every fix gets an explicit status; a replace whose target substring is
// absent is reported as NotFound rather than silently dropped.
type FixStatus string

const (
	// FixApplied means the file content changed as prescribed.
	FixApplied FixStatus = "applied"

	// FixNotFound means the target substring was absent, so the fix was a
	// no-op. Common on a second run over an already-fixed file.
	FixNotFound FixStatus = "not_found"

	// FixFailed means the fix could not be attempted (I/O or structural error).
	FixFailed FixStatus = "failed"
)

// FixOutcome pairs a fix with its application status.
type FixOutcome struct {
	Fix    Fix       `json:"fix"`
	Status FixStatus `json:"status"`
	Error  string    `json:"error,omitempty"`
}

// FixPlan is the result of a fix generation + application pass.
// In dry-run mode the plan is written as JSON instead of mutating the file.
type FixPlan struct {
	// Presentation is the target file path.
	Presentation string `json:"presentation"`

	// BackupPath is the timestamped backup created before mutation.
	// Empty in dry-run mode.
	BackupPath string `json:"backup_path,omitempty"`

	// Fixes are the generated fixes in application order.
	Fixes []Fix `json:"fixes"`

	// Outcomes are the per-fix results. Empty in dry-run mode.
	Outcomes []FixOutcome `json:"outcomes,omitempty"`

	// Applied, NotFound, and Failed count outcomes by status.
	Applied  int `json:"applied"`
	NotFound int `json:"not_found"`
	Failed   int `json:"failed"`

	// ScoreBefore and ScoreAfter are the deck average scores around this pass.
	ScoreBefore float64 `json:"score_before"`
	ScoreAfter  float64 `json:"score_after,omitempty"`
}

// CountOutcomes recomputes the status counters from the outcome list.
func (p *FixPlan) CountOutcomes() {
	p.Applied, p.NotFound, p.Failed = 0, 0, 0
	for _, o := range p.Outcomes {
		switch o.Status {
		case FixApplied:
			p.Applied++
		case FixNotFound:
			p.NotFound++
		case FixFailed:
			p.Failed++
		}
	}
}
