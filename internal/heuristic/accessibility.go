package heuristic

import (
	"context"
	"fmt"

	"github.com/deckaudit/deckaudit/internal/model"
)

// AccessibilityChecker flags images missing alt text and heading levels
// that skip, both of which break screen-reader navigation.
type AccessibilityChecker struct{}

// NewAccessibilityChecker creates an AccessibilityChecker.
func NewAccessibilityChecker() *AccessibilityChecker {
	return &AccessibilityChecker{}
}

// Name returns the checker name.
func (c *AccessibilityChecker) Name() string {
	return "accessibility"
}

// Category returns the checker category.
func (c *AccessibilityChecker) Category() string {
	return CategoryStructure
}

// Check works on the parsed slide inventory.
func (c *AccessibilityChecker) Check(_ context.Context, data *SlideData) ([]model.Issue, error) {
	var issues []model.Issue

	for _, img := range data.Slide.Images {
		if img.HasAlt {
			continue
		}
		issues = append(issues, model.NewIssue("missing_alt", data.Slide.Number,
			"Image without alt text",
			fmt.Sprintf("image %q has no alt attribute; screen readers announce the filename instead", img.Source),
			img.Source))
	}

	for i := 1; i < len(data.Slide.Headings); i++ {
		prev, next := data.Slide.Headings[i-1], data.Slide.Headings[i]
		if next > prev+1 {
			issues = append(issues, model.NewIssue("heading_skip", data.Slide.Number,
				"Heading level skipped",
				fmt.Sprintf("heading jumps from h%d to h%d; screen readers use heading levels as an outline", prev, next),
				fmt.Sprintf("h%d->h%d", prev, next)))
		}
	}

	return issues, nil
}
