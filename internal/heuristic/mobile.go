package heuristic

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/deckaudit/deckaudit/internal/model"
)

// MobileChecker flags declarations that break small viewports: fixed pixel
// widths that force horizontal scrolling and pixel font sizes that ignore
// the user's base size.
type MobileChecker struct {
	width    *regexp.Regexp
	fontSize *regexp.Regexp
}

// NewMobileChecker creates a MobileChecker.
func NewMobileChecker() *MobileChecker {
	return &MobileChecker{
		// [^-] keeps max-width and min-width from matching; those are
		// usually responsive-friendly.
		width:    regexp.MustCompile(`(?i)[^-](width\s*:\s*(\d+)px)`),
		fontSize: regexp.MustCompile(`(?i)font-size\s*:\s*(\d*\.?\d+)px`),
	}
}

// Name returns the checker name.
func (c *MobileChecker) Name() string {
	return "mobile"
}

// Category returns the checker category.
func (c *MobileChecker) Category() string {
	return CategoryStyle
}

// Check scans the raw fragment for viewport-hostile declarations. Pixel
// widths at or under 390px fit a phone viewport and are skipped.
func (c *MobileChecker) Check(_ context.Context, data *SlideData) ([]model.Issue, error) {
	fragment := data.Slide.Fragment
	var issues []model.Issue

	widthCounts := make(map[string]int)
	for _, m := range c.width.FindAllStringSubmatch(fragment, -1) {
		px, err := strconv.Atoi(m[2])
		if err != nil || px <= 390 {
			continue
		}
		widthCounts[m[2]+"px"]++
	}
	widthLiterals := make([]string, 0, len(widthCounts))
	for literal := range widthCounts {
		widthLiterals = append(widthLiterals, literal)
	}
	sort.Strings(widthLiterals)

	for _, literal := range widthLiterals {
		issue := model.NewIssue("fixed_width", data.Slide.Number,
			"Fixed pixel width",
			fmt.Sprintf("width %s cannot shrink below a phone viewport; use max-width or percentages", literal),
			literal)
		issue.Count = widthCounts[literal]
		issues = append(issues, issue)
	}

	fontCounts := make(map[string]int)
	for _, m := range c.fontSize.FindAllStringSubmatch(fragment, -1) {
		fontCounts[m[1]+"px"]++
	}
	fontLiterals := make([]string, 0, len(fontCounts))
	for literal := range fontCounts {
		fontLiterals = append(fontLiterals, literal)
	}
	sort.Strings(fontLiterals)

	for _, literal := range fontLiterals {
		issue := model.NewIssue("fixed_font", data.Slide.Number,
			"Pixel font size",
			fmt.Sprintf("font-size %s ignores the user's base size; use rem or clamp()", literal),
			literal)
		issue.Count = fontCounts[literal]
		issues = append(issues, issue)
	}

	return issues, nil
}
