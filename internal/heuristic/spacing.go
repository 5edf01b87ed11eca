package heuristic

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/deckaudit/deckaudit/internal/model"
)

// SpacingChecker flags padding and margin literals below the minimum.
// Zero values are ignored: a zero is a deliberate reset, not cramped spacing.
type SpacingChecker struct {
	thresholds Thresholds
	pattern    *regexp.Regexp
}

// spacingPattern matches padding/margin declarations, including per-side
// variants, with a single rem or px value.
var spacingPattern = regexp.MustCompile(`(padding|margin)(?:-(?:top|right|bottom|left))?\s*:\s*(\d*\.?\d+)(rem|px)`)

// NewSpacingChecker creates a SpacingChecker with the given thresholds.
func NewSpacingChecker(t Thresholds) *SpacingChecker {
	return &SpacingChecker{
		thresholds: t,
		pattern:    spacingPattern,
	}
}

// Name returns the checker name.
func (c *SpacingChecker) Name() string {
	return "spacing"
}

// Category returns the checker category.
func (c *SpacingChecker) Category() string {
	return CategoryStyle
}

// Check scans the slide fragment for undersized spacing declarations.
func (c *SpacingChecker) Check(_ context.Context, data *SlideData) ([]model.Issue, error) {
	matches := c.pattern.FindAllStringSubmatch(data.Slide.Fragment, -1)

	counts := make(map[string]int)
	for _, m := range matches {
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil || value == 0 {
			continue
		}

		tight := false
		switch m[3] {
		case "rem":
			tight = value < c.thresholds.MinPaddingRem
		case "px":
			tight = value < c.thresholds.MinPaddingPx
		}
		if tight {
			counts[m[1]+": "+m[2]+m[3]]++
		}
	}

	literals := make([]string, 0, len(counts))
	for literal := range counts {
		literals = append(literals, literal)
	}
	sort.Strings(literals)

	issues := make([]model.Issue, 0, len(literals))
	for _, literal := range literals {
		issue := model.NewIssue("spacing", data.Slide.Number,
			"Spacing below minimum",
			fmt.Sprintf("%s cramps the layout", literal),
			literal)
		issue.Count = counts[literal]
		issues = append(issues, issue)
	}

	return issues, nil
}
