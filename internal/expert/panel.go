// Package expert restyles the heuristic findings as a multi-perspective
// review. A fixed roster of personas each applies an ordered list of rules
// to every slide; each rule selects one issue kind and classifies matches
// as blocking or advisory for that persona.
//
// There is no independent judgment here: the personas partition the same
// deterministic issue catalog by focus area. The framing exists so reports
// can present findings grouped by reviewer concern, and the consensus
// score gives a second, stricter aggregate alongside the category scores.
package expert

import (
	"fmt"
	"math"

	"github.com/deckaudit/deckaudit/internal/model"
)

// Rule is one entry in a persona's ordered rule list. It selects issues of
// a single kind and decides whether the persona treats them as blocking.
type Rule struct {
	// Kind is the issue kind this rule selects.
	Kind string

	// Blocking marks the rule's matches as critical issues for the
	// persona; otherwise they are warnings.
	Blocking bool
}

// Persona is one reviewer on the panel: a display name, a focus statement,
// and the fixed ordered rule list it applies to every slide.
type Persona struct {
	Name  string
	Focus string
	Rules []Rule
}

// DefaultRoster returns the standard review panel.
// Rule order within each persona fixes the order of that persona's
// observations in the report.
func DefaultRoster() []Persona {
	return []Persona{
		{
			Name:  "Typography Reviewer",
			Focus: "text legibility: font sizes, units, and breathing room",
			Rules: []Rule{
				{Kind: "text_size", Blocking: true},
				{Kind: "fixed_font", Blocking: false},
				{Kind: "spacing", Blocking: false},
			},
		},
		{
			Name:  "Accessibility Reviewer",
			Focus: "whether every viewer can perceive the content: contrast, alt text, outline",
			Rules: []Rule{
				{Kind: "dark_on_dark", Blocking: true},
				{Kind: "overlay_opacity", Blocking: true},
				{Kind: "missing_alt", Blocking: false},
				{Kind: "heading_skip", Blocking: false},
			},
		},
		{
			Name:  "Layout Reviewer",
			Focus: "spatial structure: overflow, rigid grids, and viewport fit",
			Rules: []Rule{
				{Kind: "overflow_content", Blocking: true},
				{Kind: "grid_rows", Blocking: true},
				{Kind: "fixed_width", Blocking: false},
			},
		},
		{
			Name:  "Instructional Reviewer",
			Focus: "how much each slide asks the audience to hold at once",
			Rules: []Rule{
				{Kind: "cognitive_load", Blocking: false},
			},
		},
	}
}

// Panel runs persona reviews over slide analyses.
type Panel struct {
	roster []Persona
}

// Option configures a Panel.
type Option func(*Panel)

// WithRoster replaces the default persona roster.
func WithRoster(roster []Persona) Option {
	return func(p *Panel) {
		p.roster = roster
	}
}

// NewPanel creates a Panel with the default roster.
func NewPanel(opts ...Option) *Panel {
	p := &Panel{roster: DefaultRoster()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Review runs every persona over every slide analysis and aggregates the
// consensus. Per slide and persona the score is 100 minus 20 per blocking
// observation and 5 per warning, floored at 0; the consensus is the mean
// over all slide/persona pairs.
func (p *Panel) Review(slides []model.Analysis) *model.PanelResult {
	result := &model.PanelResult{}

	var consensusTotal float64
	var consensusN int

	for _, persona := range p.roster {
		review := model.ExpertReview{
			Expert: persona.Name,
			Focus:  persona.Focus,
		}

		var personaTotal float64
		for _, slide := range slides {
			critical, warnings := persona.observe(&slide)
			review.CriticalIssues = append(review.CriticalIssues, critical...)
			review.Warnings = append(review.Warnings, warnings...)

			slideScore := slideScore(len(critical), len(warnings))
			personaTotal += slideScore
			consensusTotal += slideScore
			consensusN++
		}

		if len(slides) > 0 {
			review.Score = round1(personaTotal / float64(len(slides)))
		}
		result.Reviews = append(result.Reviews, review)
	}

	if consensusN > 0 {
		result.ConsensusScore = round1(consensusTotal / float64(consensusN))
	}
	return result
}

// observe applies the persona's rules in order to one slide's issues.
func (p *Persona) observe(slide *model.Analysis) (critical, warnings []string) {
	for _, rule := range p.Rules {
		for _, issue := range slide.IssuesOfKind(rule.Kind) {
			note := fmt.Sprintf("slide %d: %s (%s)", slide.SlideNumber, issue.Title, issue.Value)
			if rule.Blocking {
				critical = append(critical, note)
			} else {
				warnings = append(warnings, note)
			}
		}
	}
	return critical, warnings
}

// slideScore is the per-slide persona score: 100 - 20*critical - 5*warning,
// floored at zero.
func slideScore(critical, warnings int) float64 {
	score := 100 - 20*float64(critical) - 5*float64(warnings)
	return math.Max(0, score)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
