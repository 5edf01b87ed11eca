package heuristic

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/deckaudit/deckaudit/internal/model"
)

// OverlayChecker flags dark rgba overlays whose alpha is too low to carry
// text legibly over a photo background.
type OverlayChecker struct {
	minAlpha float64
	rgba     *regexp.Regexp
}

// NewOverlayChecker creates an OverlayChecker using the minimum alpha from
// the given thresholds.
func NewOverlayChecker(t Thresholds) *OverlayChecker {
	return &OverlayChecker{
		minAlpha: t.MinOverlayAlpha,
		rgba:     regexp.MustCompile(`(?i)rgba\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*(0?\.\d+|0|1)\s*\)`),
	}
}

// Name returns the checker name.
func (c *OverlayChecker) Name() string {
	return "overlay"
}

// Category returns the checker category.
func (c *OverlayChecker) Category() string {
	return CategoryStyle
}

// Check flags dark rgba values (all channels at or below 40) with alpha
// below the configured minimum. Light rgba values are left alone because a
// translucent white scrim is usually intentional.
func (c *OverlayChecker) Check(_ context.Context, data *SlideData) ([]model.Issue, error) {
	counts := make(map[string]int)
	for _, m := range c.rgba.FindAllStringSubmatch(data.Slide.Fragment, -1) {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		alpha, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			continue
		}
		if r <= 40 && g <= 40 && b <= 40 && alpha < c.minAlpha {
			counts[m[0]]++
		}
	}

	literals := make([]string, 0, len(counts))
	for literal := range counts {
		literals = append(literals, literal)
	}
	sort.Strings(literals)

	var issues []model.Issue
	for _, literal := range literals {
		issue := model.NewIssue("overlay_opacity", data.Slide.Number,
			"Overlay too transparent for text",
			fmt.Sprintf("dark overlay %s is below the %.1f alpha needed to keep text readable over imagery", literal, c.minAlpha),
			literal)
		issue.Count = counts[literal]
		issues = append(issues, issue)
	}
	return issues, nil
}
