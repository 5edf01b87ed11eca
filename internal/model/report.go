package model

import (
	"math"
	"sort"
	"time"
)

// DeckReport is the main audit result structure.
// It is derived purely from the slide analyses and recomputed fresh on every
// run: there is no incremental update, the last report wins.
type DeckReport struct {
	// Presentation is the audited presentation path or URL.
	Presentation string `json:"presentation"`

	// SlideCount is the number of slides analyzed.
	SlideCount int `json:"slide_count"`

	// DateAudited is the timestamp when the audit was performed.
	DateAudited time.Time `json:"date_audited"`

	// Summary contains aggregate statistics across all slides.
	Summary Summary `json:"summary"`

	// Slides contains the per-slide analyses in slide order.
	Slides []Analysis `json:"slides"`

	// Recommendations are qualitative suggestions triggered by fixed
	// thresholds over the summary statistics.
	Recommendations []string `json:"recommendations,omitempty"`

	// ExpertPanel holds the consensus review, when the panel was run.
	ExpertPanel *PanelResult `json:"expert_panel,omitempty"`

	// Screenshots indicates whether slide screenshots were captured.
	Screenshots bool `json:"screenshots"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// TimedOut is true if the audit was cancelled before completing.
	TimedOut bool `json:"timed_out,omitempty"`

	// Error contains any error that occurred during the audit.
	Error error `json:"-"` // Excluded from JSON

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// Summary contains aggregate statistics for a deck audit.
type Summary struct {
	// AverageScore is the mean overall score across slides, rounded to the
	// nearest integer.
	AverageScore float64 `json:"average_score"`

	// LowestScore is the minimum overall slide score.
	LowestScore float64 `json:"lowest_score"`

	// HighestScore is the maximum overall slide score.
	HighestScore float64 `json:"highest_score"`

	// CriticalIssuesCount is the total number of critical fixes across slides.
	CriticalIssuesCount int `json:"critical_issues_count"`

	// CommonIssues is a histogram of issue kinds across the deck.
	CommonIssues map[string]int `json:"common_issues,omitempty"`

	// Severity counts across all issues.
	CriticalCount int `json:"critical_count"`
	HighCount     int `json:"high_count"`
	MediumCount   int `json:"medium_count"`
	LowCount      int `json:"low_count"`
	InfoCount     int `json:"info_count"`
}

// PanelResult is the aggregated output of the expert panel.
type PanelResult struct {
	// ConsensusScore is 100 - 20*critical - 5*warning per slide, averaged
	// across slides and experts.
	ConsensusScore float64 `json:"consensus_score"`

	// Reviews contains one entry per expert persona.
	Reviews []ExpertReview `json:"reviews"`
}

// ExpertReview is one persona's verdict on the deck.
type ExpertReview struct {
	// Expert is the persona's display name.
	Expert string `json:"expert"`

	// Focus describes the persona's review focus area.
	Focus string `json:"focus"`

	// CriticalIssues are the persona's blocking observations.
	CriticalIssues []string `json:"critical_issues,omitempty"`

	// Warnings are the persona's non-blocking observations.
	Warnings []string `json:"warnings,omitempty"`

	// Score is the persona's own score for the deck.
	Score float64 `json:"score"`
}

// NewDeckReport creates a report for the given presentation.
func NewDeckReport(presentation string) *DeckReport {
	return &DeckReport{
		Presentation: presentation,
		DateAudited:  time.Now(),
		Summary: Summary{
			CommonIssues: make(map[string]int),
		},
	}
}

// AddAnalysis appends a slide analysis and updates the summary statistics.
func (r *DeckReport) AddAnalysis(a Analysis) {
	r.Slides = append(r.Slides, a)
	r.SlideCount = len(r.Slides)
	r.recomputeSummary()
}

// recomputeSummary rebuilds the summary from the slide analyses.
// Called after every AddAnalysis so the summary is never stale.
func (r *DeckReport) recomputeSummary() {
	s := Summary{CommonIssues: make(map[string]int)}

	if len(r.Slides) == 0 {
		r.Summary = s
		return
	}

	var total float64
	s.LowestScore = 101
	for _, a := range r.Slides {
		total += a.Scores.Overall
		if a.Scores.Overall < s.LowestScore {
			s.LowestScore = a.Scores.Overall
		}
		if a.Scores.Overall > s.HighestScore {
			s.HighestScore = a.Scores.Overall
		}
		s.CriticalIssuesCount += len(a.CriticalFixes)

		for _, issue := range a.Issues {
			s.CommonIssues[issue.Kind]++
			switch issue.Severity {
			case SeverityCritical:
				s.CriticalCount++
			case SeverityHigh:
				s.HighCount++
			case SeverityMedium:
				s.MediumCount++
			case SeverityLow:
				s.LowCount++
			case SeverityInfo:
				s.InfoCount++
			}
		}
	}

	s.AverageScore = math.Round(total / float64(len(r.Slides)))
	r.Summary = s
	r.Recommendations = buildRecommendations(s)
}

// TotalIssues returns the total number of issues across all slides.
func (r *DeckReport) TotalIssues() int {
	total := 0
	for _, a := range r.Slides {
		total += len(a.Issues)
	}
	return total
}

// IssueKindCount returns how many issues of the given kind were found.
func (r *DeckReport) IssueKindCount(kind string) int {
	return r.Summary.CommonIssues[kind]
}

// buildRecommendations derives qualitative recommendations from fixed
// thresholds over the summary. Thresholds mirror the severity contract:
// average below the critical threshold means the deck needs structural work,
// repeated kinds mean a global rather than per-slide fix.
func buildRecommendations(s Summary) []string {
	var recs []string

	switch {
	case s.AverageScore < CriticalScoreThreshold:
		recs = append(recs, "Major redesign needed: average slide score is below the critical threshold.")
	case s.AverageScore < 85:
		recs = append(recs, "Targeted fixes recommended: several slides score below the target.")
	}

	if s.CommonIssues["text_size"] > 3 {
		recs = append(recs, "Increase text sizes globally: small text appears on more than three slides.")
	}
	if s.CommonIssues["dark_on_dark"] > 0 {
		recs = append(recs, "Fix contrast first: dark-on-dark slides are unreadable regardless of other polish.")
	}
	if s.CommonIssues["cognitive_load"] > 2 {
		recs = append(recs, "Split dense slides: repeated cognitive-load findings suggest too much content per slide.")
	}
	if s.CommonIssues["fixed_width"]+s.CommonIssues["fixed_font"] > 3 {
		recs = append(recs, "Adopt responsive units: fixed pixel sizing appears throughout the deck.")
	}

	return recs
}

// TopIssueKinds returns the n most common issue kinds in descending count
// order. Ties break alphabetically so output is deterministic.
func (r *DeckReport) TopIssueKinds(n int) []string {
	kinds := make([]string, 0, len(r.Summary.CommonIssues))
	for kind := range r.Summary.CommonIssues {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		ci, cj := r.Summary.CommonIssues[kinds[i]], r.Summary.CommonIssues[kinds[j]]
		if ci != cj {
			return ci > cj
		}
		return kinds[i] < kinds[j]
	})
	if len(kinds) > n {
		kinds = kinds[:n]
	}
	return kinds
}
