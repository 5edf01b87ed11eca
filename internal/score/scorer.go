// Package score turns a slide's issue list into per-category and overall
// quality scores.
//
// Each category axis starts at 100 and loses a fixed penalty per issue,
// scaled by nothing else: the same issue list always produces the same
// scores. The overall score is the weighted sum of the category scores
// using the weights in the model package.
package score

import (
	"math"
	"sort"

	"github.com/deckaudit/deckaudit/internal/model"
)

// Penalties maps issue severity to the points deducted from the issue's
// category score.
type Penalties map[model.Severity]float64

// DefaultPenalties returns the standard deduction table. A single critical
// issue drags its category below the critical-fix threshold on its own.
func DefaultPenalties() Penalties {
	return Penalties{
		model.SeverityCritical: 35,
		model.SeverityHigh:     20,
		model.SeverityMedium:   10,
		model.SeverityLow:      5,
		model.SeverityInfo:     0,
	}
}

// Scorer computes slide scores from issue lists.
type Scorer struct {
	penalties Penalties
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithPenalties overrides the deduction table.
func WithPenalties(p Penalties) Option {
	return func(s *Scorer) {
		s.penalties = p
	}
}

// NewScorer creates a Scorer with the default deduction table.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{penalties: DefaultPenalties()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the analysis for one slide from its detected issues.
// Category scores are clamped to [0, 100]; issues whose category score
// lands below the critical threshold become critical fixes.
func (s *Scorer) Score(slide *model.Slide, issues []model.Issue) model.Analysis {
	analysis := model.Analysis{
		SlideNumber: slide.Number,
		SlideTitle:  slide.Title,
		Issues:      issues,
	}

	for _, c := range model.Categories() {
		analysis.Scores.SetCategory(c, 100)
	}

	for _, issue := range issues {
		c := issue.Category
		deducted := analysis.Scores.Category(c) - s.penalties[issue.Severity]
		analysis.Scores.SetCategory(c, clamp(deducted))
	}

	analysis.Scores.Overall = clamp(round1(
		analysis.Scores.Readability*model.WeightReadability +
			analysis.Scores.Hierarchy*model.WeightHierarchy +
			analysis.Scores.CognitiveLoad*model.WeightCognitiveLoad +
			analysis.Scores.Accessibility*model.WeightAccessibility +
			analysis.Scores.Mobile*model.WeightMobile))

	analysis.CriticalFixes = criticalFixes(analysis.Scores, issues)

	return analysis
}

// criticalFixes selects the issues whose category score fell below the
// critical threshold, ordered most severe first and by kind within a
// severity so the list is stable.
func criticalFixes(scores model.Scores, issues []model.Issue) []model.Issue {
	var fixes []model.Issue
	for _, issue := range issues {
		if scores.Category(issue.Category) < model.CriticalScoreThreshold {
			fixes = append(fixes, issue)
		}
	}

	sort.SliceStable(fixes, func(i, j int) bool {
		if fixes[i].Severity != fixes[j].Severity {
			return fixes[i].Severity > fixes[j].Severity
		}
		return fixes[i].Kind < fixes[j].Kind
	})

	return fixes
}

// clamp bounds a score to [0, 100].
func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// round1 rounds to one decimal place so serialized scores do not carry
// float noise.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
