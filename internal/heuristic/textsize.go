package heuristic

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/deckaudit/deckaudit/internal/model"
)

// TextSizeChecker flags declared font sizes below the readable threshold.
//
// Matching is by declared literal, not rendered size: a class sheet that
// sets a larger size on the same element is invisible to this check. Each
// distinct undersized literal becomes one issue; repeated occurrences of
// the same literal raise its count.
type TextSizeChecker struct {
	thresholds Thresholds
	pattern    *regexp.Regexp
}

// fontSizePattern matches font-size declarations in rem, em, or px.
var fontSizePattern = regexp.MustCompile(`font-size\s*:\s*(\d*\.?\d+)(rem|em|px)`)

// NewTextSizeChecker creates a TextSizeChecker with the given thresholds.
func NewTextSizeChecker(t Thresholds) *TextSizeChecker {
	return &TextSizeChecker{
		thresholds: t,
		pattern:    fontSizePattern,
	}
}

// Name returns the checker name.
func (c *TextSizeChecker) Name() string {
	return "text_size"
}

// Category returns the checker category.
func (c *TextSizeChecker) Category() string {
	return CategoryStyle
}

// Check scans the slide fragment for undersized font declarations.
func (c *TextSizeChecker) Check(_ context.Context, data *SlideData) ([]model.Issue, error) {
	matches := c.pattern.FindAllStringSubmatch(data.Slide.Fragment, -1)

	counts := make(map[string]int)
	for _, m := range matches {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}

		small := false
		switch m[2] {
		case "rem", "em":
			small = value < c.thresholds.MinBodyRem
		case "px":
			small = value < c.thresholds.MinBodyPx
		}
		if small {
			counts[m[1]+m[2]]++
		}
	}

	// Deterministic issue order regardless of map iteration.
	literals := make([]string, 0, len(counts))
	for literal := range counts {
		literals = append(literals, literal)
	}
	sort.Strings(literals)

	issues := make([]model.Issue, 0, len(literals))
	for _, literal := range literals {
		issue := model.NewIssue("text_size", data.Slide.Number,
			"Text below readable size",
			fmt.Sprintf("font-size: %s is below the readable threshold", literal),
			literal)
		issue.Count = counts[literal]
		issues = append(issues, issue)
	}

	return issues, nil
}
