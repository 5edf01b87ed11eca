package model

// Category weights for the overall score. The weights are the scoring
// contract shared by the scorer, the report generator, and the fix loop.
const (
	WeightReadability   = 0.3
	WeightHierarchy     = 0.2
	WeightCognitiveLoad = 0.2
	WeightAccessibility = 0.2
	WeightMobile        = 0.1
)

// CriticalScoreThreshold is the category score below which an issue is
// promoted to a critical fix.
const CriticalScoreThreshold = 70

// WorldClassThreshold is the overall score at which a presentation is
// considered finished by the fix loop.
const WorldClassThreshold = 95

// Scores holds the per-category and overall scores for one slide.
// All values are clamped to [0, 100].
type Scores struct {
	Readability   float64 `json:"readability"`
	Hierarchy     float64 `json:"hierarchy"`
	CognitiveLoad float64 `json:"cognitive_load"`
	Accessibility float64 `json:"accessibility"`
	Mobile        float64 `json:"mobile"`
	Overall       float64 `json:"overall"`
}

// Category returns the score for the given category axis.
func (s Scores) Category(c Category) float64 {
	switch c {
	case CategoryReadability:
		return s.Readability
	case CategoryHierarchy:
		return s.Hierarchy
	case CategoryCognitiveLoad:
		return s.CognitiveLoad
	case CategoryAccessibility:
		return s.Accessibility
	case CategoryMobile:
		return s.Mobile
	default:
		return 0
	}
}

// SetCategory sets the score for the given category axis.
func (s *Scores) SetCategory(c Category, v float64) {
	switch c {
	case CategoryReadability:
		s.Readability = v
	case CategoryHierarchy:
		s.Hierarchy = v
	case CategoryCognitiveLoad:
		s.CognitiveLoad = v
	case CategoryAccessibility:
		s.Accessibility = v
	case CategoryMobile:
		s.Mobile = v
	}
}

// Analysis is the per-slide audit aggregate: scores plus the issues that
// produced them.
type Analysis struct {
	// SlideNumber is the 1-based slide index.
	SlideNumber int `json:"slide_number"`

	// SlideTitle is the slide's first heading, for report display.
	SlideTitle string `json:"slide_title,omitempty"`

	// Scores are the per-category and overall scores.
	Scores Scores `json:"scores"`

	// Issues are all issues detected on the slide.
	Issues []Issue `json:"issues,omitempty"`

	// CriticalFixes are the issues whose category score fell below
	// CriticalScoreThreshold. They receive higher-priority fixes.
	CriticalFixes []Issue `json:"critical_fixes,omitempty"`

	// Screenshots holds the capture artifacts for this slide, when the
	// capture step ran.
	Screenshots *Screenshots `json:"screenshots,omitempty"`
}

// IssuesOfKind returns the slide's issues with the given kind.
func (a *Analysis) IssuesOfKind(kind string) []Issue {
	var result []Issue
	for _, issue := range a.Issues {
		if issue.Kind == kind {
			result = append(result, issue)
		}
	}
	return result
}
