package heuristic

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/deckaudit/deckaudit/internal/model"
)

// OverflowChecker flags fixed pixel heights tall enough to push slide
// content past the viewport, and pixel-sized grid row tracks that cannot
// shrink with the slide.
type OverflowChecker struct {
	maxHeightPx float64
	height      *regexp.Regexp
	gridRows    *regexp.Regexp
}

// NewOverflowChecker creates an OverflowChecker using the fixed-height
// ceiling from the given thresholds.
func NewOverflowChecker(t Thresholds) *OverflowChecker {
	return &OverflowChecker{
		maxHeightPx: t.MaxFixedHeightPx,
		height:      regexp.MustCompile(`(?i)(?:min-)?height\s*:\s*(\d*\.?\d+)px`),
		gridRows:    regexp.MustCompile(`(?i)grid-template-rows\s*:\s*([^;"]*\d+px[^;"]*)`),
	}
}

// Name returns the checker name.
func (c *OverflowChecker) Name() string {
	return "overflow"
}

// Category returns the checker category.
func (c *OverflowChecker) Category() string {
	return CategoryStyle
}

// Check scans the raw fragment for over-tall fixed heights and pixel grid
// tracks. Each distinct offending literal is reported once with its
// occurrence count.
func (c *OverflowChecker) Check(_ context.Context, data *SlideData) ([]model.Issue, error) {
	fragment := data.Slide.Fragment
	var issues []model.Issue

	counts := make(map[string]int)
	for _, m := range c.height.FindAllStringSubmatch(fragment, -1) {
		px, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if px > c.maxHeightPx {
			counts[m[1]+"px"]++
		}
	}

	literals := make([]string, 0, len(counts))
	for literal := range counts {
		literals = append(literals, literal)
	}
	sort.Strings(literals)

	for _, literal := range literals {
		issue := model.NewIssue("overflow_content", data.Slide.Number,
			"Fixed height taller than the slide viewport",
			fmt.Sprintf("height %s exceeds the %.0fpx viewport budget and will clip or scroll content", literal, c.maxHeightPx),
			literal)
		issue.Count = counts[literal]
		issues = append(issues, issue)
	}

	gridCounts := make(map[string]int)
	for _, m := range c.gridRows.FindAllStringSubmatch(fragment, -1) {
		gridCounts[m[1]]++
	}
	gridLiterals := make([]string, 0, len(gridCounts))
	for literal := range gridCounts {
		gridLiterals = append(gridLiterals, literal)
	}
	sort.Strings(gridLiterals)

	for _, literal := range gridLiterals {
		issue := model.NewIssue("grid_rows", data.Slide.Number,
			"Grid rows sized in pixels",
			fmt.Sprintf("grid-template-rows: %s uses pixel tracks that cannot shrink with the slide", literal),
			literal)
		issue.Count = gridCounts[literal]
		issues = append(issues, issue)
	}

	return issues, nil
}
