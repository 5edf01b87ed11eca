package heuristic

import (
	"context"
	"fmt"
	"strconv"

	"github.com/deckaudit/deckaudit/internal/model"
)

// CognitiveLoadChecker flags slides that ask the audience to hold too much
// at once: long bullet runs and word counts past what a slide can carry.
type CognitiveLoadChecker struct {
	maxBullets int
	maxWords   int
}

// NewCognitiveLoadChecker creates a CognitiveLoadChecker using the bullet
// and word ceilings from the given thresholds.
func NewCognitiveLoadChecker(t Thresholds) *CognitiveLoadChecker {
	return &CognitiveLoadChecker{
		maxBullets: t.MaxBullets,
		maxWords:   t.MaxWords,
	}
}

// Name returns the checker name.
func (c *CognitiveLoadChecker) Name() string {
	return "cognitive_load"
}

// Category returns the checker category.
func (c *CognitiveLoadChecker) Category() string {
	return CategoryContent
}

// Check works on the parsed slide inventory rather than the raw fragment.
func (c *CognitiveLoadChecker) Check(_ context.Context, data *SlideData) ([]model.Issue, error) {
	var issues []model.Issue

	if data.Slide.Bullets > c.maxBullets {
		issue := model.NewIssue("cognitive_load", data.Slide.Number,
			"Too many bullets on one slide",
			fmt.Sprintf("%d bullets exceed the %d an audience can track; split the slide or collapse items", data.Slide.Bullets, c.maxBullets),
			"bullets:"+strconv.Itoa(data.Slide.Bullets))
		issue.Count = data.Slide.Bullets
		issues = append(issues, issue)
	}

	words := data.Slide.WordCount()
	if words > c.maxWords {
		issue := model.NewIssue("cognitive_load", data.Slide.Number,
			"Too much text on one slide",
			fmt.Sprintf("%d words exceed the %d-word budget; slides are not documents", words, c.maxWords),
			"words:"+strconv.Itoa(words))
		issue.Count = words
		issues = append(issues, issue)
	}

	return issues, nil
}
